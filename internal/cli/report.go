package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"pocketbook/internal/ledger"
	"pocketbook/internal/notifier"
	"pocketbook/internal/services"
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().Bool("raw", false, "Print the markdown source instead of rendering it")
	reportCmd.Flags().Int("width", 80, "Word wrap width for rendered output")
}

var reportCmd = &cobra.Command{
	Use:   "report <username>",
	Short: "Print a balance, inventory, debt and work overview for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

// reportData is everything the report prints.
type reportData struct {
	Username    string
	Currency    string
	GeneratedAt time.Time
	Summary     ledger.Summary
	Inventory   services.InventoryList
	Debts       ledger.DebtSummary
	Work        services.WorkSummary
	Active      *services.WorkSessionView
}

func runReport(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetBool("raw")
	width, _ := cmd.Flags().GetInt("width")

	cfg, mgr, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(mgr)

	db := mgr.DB()
	user, err := services.NewUserService(db).GetUserByUsername(args[0])
	if err != nil {
		return err
	}

	// Reads only; event notifications stay off.
	quiet := services.NewNotificationService(notifier.NewClient("", "", "", nil), false, cfg.HTTPTimeout)
	ledgerService := services.NewLedgerService(db)
	productService := services.NewProductService(db, quiet, cfg.DefaultCurrency)
	debtService := services.NewDebtService(db, quiet, cfg.DefaultCurrency)
	workService := services.NewWorkSessionService(db, quiet)

	data := reportData{
		Username:    user.Username,
		Currency:    cfg.DefaultCurrency,
		GeneratedAt: time.Now(),
	}
	summary, err := ledgerService.GetSummary(user.ID, nil, nil)
	if err != nil {
		return err
	}
	data.Summary = *summary
	inventory, err := productService.GetInventory(user.ID)
	if err != nil {
		return err
	}
	data.Inventory = *inventory
	debts, err := debtService.GetSummary(user.ID)
	if err != nil {
		return err
	}
	data.Debts = *debts
	work, err := workService.GetSummary(user.ID)
	if err != nil {
		return err
	}
	data.Work = *work
	if data.Active, err = workService.GetActive(user.ID); err != nil {
		return err
	}

	md := buildReport(data)
	if raw {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// buildReport lays the overview out as markdown.
func buildReport(d reportData) string {
	money := func(amount int64) string { return ledger.FormatMoney(amount, d.Currency) }

	var b strings.Builder
	fmt.Fprintf(&b, "# Pocketbook: %s\n\n", d.Username)
	fmt.Fprintf(&b, "_Generated %s_\n\n", d.GeneratedAt.Format("2006-01-02 15:04"))

	b.WriteString("## Balance\n\n")
	b.WriteString("| | Amount | Entries |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Income | %s | %d |\n", money(d.Summary.TotalIncome), d.Summary.IncomeCount)
	fmt.Fprintf(&b, "| Expenses | %s | %d |\n", money(d.Summary.TotalExpenses), d.Summary.ExpenseCount)
	fmt.Fprintf(&b, "| Consumption | %s | |\n", money(d.Summary.ConsumptionExpenses))
	fmt.Fprintf(&b, "| **Balance** | **%s** | |\n\n", money(d.Summary.Balance))

	b.WriteString("## Inventory\n\n")
	if len(d.Inventory.Products) == 0 {
		b.WriteString("No products.\n\n")
	} else {
		b.WriteString("| Product | Stock | Cost | Value | Profit |\n|---|---:|---:|---:|---:|\n")
		for _, p := range d.Inventory.Products {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				escapeCell(p.Name),
				ledger.FormatQuantity(p.StockQuantity, p.Unit),
				money(p.TotalCost), money(p.TotalValue), money(p.Profit))
		}
		t := d.Inventory.Totals
		fmt.Fprintf(&b, "| **Total** | | **%s** | **%s** | **%s** |\n\n",
			money(t.TotalCost), money(t.TotalValue), money(t.TotalProfit))
	}

	b.WriteString("## Debts\n\n")
	b.WriteString("| | Total | Paid | Remaining | Count |\n|---|---:|---:|---:|---:|\n")
	writeDebtRow(&b, "I owe", d.Debts.OwedByMe, money)
	writeDebtRow(&b, "Owed to me", d.Debts.OwedToMe, money)
	fmt.Fprintf(&b, "\n%d pending.\n\n", d.Debts.PendingCount)

	b.WriteString("## Work\n\n")
	fmt.Fprintf(&b, "- Today: %s\n", d.Work.Today)
	fmt.Fprintf(&b, "- This week (from %s): %s\n", d.Work.WeekStart, d.Work.Week)
	if d.Active != nil {
		fmt.Fprintf(&b, "- Clocked in since %s (%s)\n", d.Active.ClockIn.Format("15:04"), d.Active.Duration)
	}
	return b.String()
}

func writeDebtRow(b *strings.Builder, label string, t ledger.DebtTotals, money func(int64) string) {
	fmt.Fprintf(b, "| %s | %s | %s | %s | %d |\n", label, money(t.Total), money(t.Paid), money(t.Remaining), t.Count)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
