// Package export renders aggregator output to files. Both exports are pure
// projections: they format entries and totals the services computed and add
// no logic of their own.
package export

import (
	"fmt"

	"budgetbook/internal/core"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Transactions"

var workbookHeader = []string{"Date", "Kind", "Amount", "Memo"}

// WriteWorkbook writes one row per entry to an xlsx file at path.
// Column widths are sized to the longest value in each column.
func WriteWorkbook(path string, entries []core.LedgerEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	widths := make([]int, len(workbookHeader))
	header := make([]any, len(workbookHeader))
	for i, h := range workbookHeader {
		header[i] = h
		widths[i] = len(h)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range entries {
		row := []any{e.Date.String(), string(e.Kind), core.FormatAmount(e.Amount), e.Memo}
		for col, v := range row {
			if l := len(fmt.Sprint(v)); l > widths[col] {
				widths[col] = l
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, float64(w+2)); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
