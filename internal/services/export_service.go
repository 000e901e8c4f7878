package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/ledger"
	"pocketbook/internal/models"
)

// Export formats.
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

const (
	entriesSheet = "Entries"
	summarySheet = "Summary"
)

var exportHeader = []string{"Date", "Type", "Category", "Description", "Amount"}

type exportRow struct {
	date        time.Time
	kind        string
	category    string
	description string
	amount      int64
}

// exportService renders the ledger as CSV or XLSX.
type exportService struct {
	ledger   LedgerServicer
	currency string
}

// NewExportService creates a new ExportServicer. Amounts are written in major
// units of currency.
func NewExportService(ledgerService LedgerServicer, currency string) ExportServicer {
	return &exportService{ledger: ledgerService, currency: currency}
}

// Export writes every income and expense of the user to w, oldest first.
func (s *exportService) Export(userID, format string, w io.Writer) error {
	if format != ExportCSV && format != ExportXLSX {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "format must be csv or xlsx")
	}

	incomes, expenses, err := s.ledger.GetAllEntries(userID)
	if err != nil {
		return err
	}
	rows := mergeEntries(incomes, expenses)

	if format == ExportCSV {
		return s.writeCSV(w, rows)
	}
	return s.writeXLSX(w, rows, ledger.Summarize(incomes, expenses))
}

func mergeEntries(incomes []models.Income, expenses []models.Expense) []exportRow {
	rows := make([]exportRow, 0, len(incomes)+len(expenses))
	for _, in := range incomes {
		rows = append(rows, exportRow{in.Date, "income", in.Category, in.Description, in.Amount})
	}
	for _, ex := range expenses {
		rows = append(rows, exportRow{ex.Date, "expense", ex.Category, ex.Description, ex.Amount})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })
	return rows
}

func (s *exportService) writeCSV(w io.Writer, rows []exportRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, r := range rows {
		record := []string{
			r.date.Format("2006-01-02"),
			r.kind,
			r.category,
			r.description,
			ledger.MajorUnits(r.amount, s.currency).String(),
		}
		if err := writer.Write(record); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *exportService) writeXLSX(w io.Writer, rows []exportRow, summary ledger.Summary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(entriesSheet)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := setRow(f, entriesSheet, 1, toCells(exportHeader)); err != nil {
		return err
	}
	for i, r := range rows {
		amount, _ := ledger.MajorUnits(r.amount, s.currency).Float64()
		cells := []interface{}{r.date.Format("2006-01-02"), r.kind, r.category, r.description, amount}
		if err := setRow(f, entriesSheet, i+2, cells); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(entriesSheet, "A", "A", 12)
	_ = f.SetColWidth(entriesSheet, "B", "C", 18)
	_ = f.SetColWidth(entriesSheet, "D", "D", 40)
	_ = f.SetColWidth(entriesSheet, "E", "E", 14)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	summaryRows := [][]interface{}{
		{"Currency", s.currency},
		{"Total income", ledger.FormatMoney(summary.TotalIncome, s.currency)},
		{"Total expenses", ledger.FormatMoney(summary.TotalExpenses, s.currency)},
		{"Stock consumption", ledger.FormatMoney(summary.ConsumptionExpenses, s.currency)},
		{"Balance", ledger.FormatMoney(summary.Balance, s.currency)},
	}
	for i, cells := range summaryRows {
		if err := setRow(f, summarySheet, i+1, cells); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "B", 20)

	if err := f.Write(w); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, v := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("setting %s!%s: %w", sheet, cell, err))
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
