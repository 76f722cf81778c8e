package export

import (
	"os"
	"path/filepath"
	"testing"

	"budgetbook/internal/core"
	"budgetbook/internal/services"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func testEntries(t *testing.T) []core.LedgerEntry {
	t.Helper()
	mk := func(kind core.Kind, amount, date, memo string) core.LedgerEntry {
		d, err := core.ParseDate(date)
		if err != nil {
			t.Fatalf("parse date: %v", err)
		}
		return core.LedgerEntry{Kind: kind, Amount: decimal.RequireFromString(amount), Memo: memo, Date: d}
	}
	return []core.LedgerEntry{
		mk(core.Income, "100.10", "2024-01-05", "salary"),
		mk(core.Expense, "30.05", "2024-01-20", "groceries"),
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	if err := WriteWorkbook(path, testEntries(t)); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][3] != "Memo" {
		t.Fatalf("header wrong: %v", rows[0])
	}
	want := []string{"2024-01-05", "income", "100.10", "salary"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Fatalf("row 1 col %d: expected %q, got %q", i, cell, rows[1][i])
		}
	}
	if rows[2][2] != "30.05" {
		t.Fatalf("amount formatting wrong: %q", rows[2][2])
	}
}

func TestWriteWorkbookEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := WriteWorkbook(path, nil); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}

func TestWritePDF(t *testing.T) {
	entries := testEntries(t)
	summary := services.Summary{
		Month:  "2024-01",
		Totals: core.ComputeTotals(entries),
	}

	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := WritePDF(path, entries, summary); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if len(data) == 0 || string(data[:5]) != "%PDF-" {
		t.Fatalf("output is not a PDF (%d bytes)", len(data))
	}
}

func TestWritePDFNoEntries(t *testing.T) {
	// empty ledger: no chart, still a valid document
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := WritePDF(path, nil, services.Summary{Month: "2024-01"}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		t.Fatalf("expected non-empty file, err=%v", err)
	}
}
