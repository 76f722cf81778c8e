package export

import (
	"bytes"
	"fmt"

	"budgetbook/internal/core"
	"budgetbook/internal/services"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"
)

var pdfColumnWidths = []float64{30, 25, 30, 80}

// WritePDF renders the entries table, an income/expense proportion chart and
// the current totals into a single-page-flowing PDF document at path.
func WritePDF(path string, entries []core.LedgerEntry, summary services.Summary) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Budget report", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeEntryTable(pdf, entries)
	pdf.Ln(8)

	if err := writeProportionChart(pdf, summary.Totals); err != nil {
		return err
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Financial summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, "Total income: "+core.FormatAmount(summary.Totals.Income), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Total expense: "+core.FormatAmount(summary.Totals.Expense), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Balance: "+core.FormatAmount(summary.Totals.Balance), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeEntryTable(pdf *fpdf.Fpdf, entries []core.LedgerEntry) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range workbookHeader {
		pdf.CellFormat(pdfColumnWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetFillColor(245, 245, 220)
	for _, e := range entries {
		row := []string{e.Date.String(), string(e.Kind), core.FormatAmount(e.Amount), e.Memo}
		for i, v := range row {
			align := "C"
			if i == len(row)-1 {
				align = "L"
			}
			pdf.CellFormat(pdfColumnWidths[i], 7, v, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}
}

// writeProportionChart embeds an income vs. expense pie chart. Nothing is
// drawn when both totals are zero since an empty pie cannot be rendered.
func writeProportionChart(pdf *fpdf.Fpdf, totals core.Totals) error {
	if totals.Income.IsZero() && totals.Expense.IsZero() {
		return nil
	}

	pie := chart.PieChart{
		Width:  512,
		Height: 512,
		Values: []chart.Value{
			{Value: totals.Income.InexactFloat64(), Label: "Income"},
			{Value: totals.Expense.InexactFloat64(), Label: "Expense"},
		},
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render proportion chart: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("proportion-chart", opts, &buf)
	pdf.ImageOptions("proportion-chart", 55, pdf.GetY(), 100, 100, true, opts, 0, "")
	pdf.Ln(4)
	return nil
}
