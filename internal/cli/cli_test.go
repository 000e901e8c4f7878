package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pocketbook/internal/ledger"
	"pocketbook/internal/models"
	"pocketbook/internal/services"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default", args: nil, want: 1},
		{name: "explicit", args: []string{"3"}, want: 3},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "not a number", args: []string{"all"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSteps(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"user", "create"},
		{"report"},
	} {
		cmd, _, err := rootCmd.Find(path)
		if err != nil {
			t.Fatalf("%v: %v", path, err)
		}
		if cmd.Name() != path[len(path)-1] {
			t.Errorf("%v resolved to %q", path, cmd.Name())
		}
	}
}

func TestReportRequiresUsername(t *testing.T) {
	if err := reportCmd.Args(reportCmd, nil); err == nil {
		t.Error("expected error without a username")
	}
}

func TestBuildReport(t *testing.T) {
	product := models.Product{
		Name:          "Coffee | beans",
		Unit:          "g",
		StockQuantity: decimal.NewFromInt(90),
		CostPerUnit:   30,
		PricePerUnit:  50,
	}
	inventory := services.InventoryList{
		Products: []services.ProductWithValuation{{Product: product, ProductValuation: ledger.ValueProduct(product)}},
		Totals:   ledger.ValueInventory([]models.Product{product}),
	}
	clockIn := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	md := buildReport(reportData{
		Username:    "alice",
		Currency:    "USD",
		GeneratedAt: clockIn,
		Summary:     ledger.NewSummary(500000, 2500, 1500, 2, 1),
		Inventory:   inventory,
		Debts: ledger.DebtSummary{
			OwedToMe:     ledger.DebtTotals{Total: 5000, Paid: 2000, Remaining: 3000, Count: 1},
			PendingCount: 1,
		},
		Work: services.WorkSummary{Today: "1h 0m 0s", Week: "5h 0m 0s", WeekStart: "2026-03-01"},
		Active: &services.WorkSessionView{
			WorkSession: models.WorkSession{ClockIn: clockIn},
			Duration:    "0h 15m 0s",
		},
	})

	for _, want := range []string{
		"# Pocketbook: alice",
		"| Income | $5,000.00 | 2 |",
		"| **Balance** | **$4,990.00** | |",
		`Coffee \| beans`,
		"| 90g | $27.00 | $45.00 | $18.00 |",
		"| Owed to me | $50.00 | $20.00 | $30.00 | 1 |",
		"1 pending.",
		"This week (from 2026-03-01): 5h 0m 0s",
		"Clocked in since 09:30",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q\n%s", want, md)
		}
	}
}

func TestBuildReportEmptyInventory(t *testing.T) {
	md := buildReport(reportData{Username: "bob", Currency: "USD"})
	if !strings.Contains(md, "No products.") {
		t.Errorf("expected empty inventory note, got\n%s", md)
	}
	if strings.Contains(md, "Clocked in") {
		t.Error("expected no active session line")
	}
}
