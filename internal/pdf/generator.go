package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/gasops-dashboard/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the monthly settlement statement: the balance
// roll-forward line and the informational accrual breakdown.
func (g *Generator) Generate(s model.GasSettlement, stationName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Monthly gas settlement", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Station: %s", stationName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s", s.Period), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Balance roll-forward", "", 1, "L", false, 0, "")

	headers := []string{"Opening balance", "Accrued, m3", "Price", "Accrued amount", "Paid", "Closing balance"}
	widths := []float64{32, 28, 26, 34, 28, 32}
	drawRow(pdf, headers, widths, true)
	drawRow(pdf, []string{
		amount(s.StartBalance),
		fmt.Sprintf("%.3f", s.TotalAccruedM3),
		amount(s.GasPrice),
		amount(s.TotalAccruedAmount),
		amount(s.Paid),
		amount(s.EndBalance),
	}, widths, false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Accrual breakdown (informational)", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	breakdown := []struct {
		label string
		value float64
	}{
		{"Meter reading", s.MeterReadingM3},
		{"Configuration error", s.ConfigurationErrorM3},
		{"Low-pressure adjustment", s.LowPressureM3},
		{"Act-based calculation", s.ActBasedM3},
		{"Meter difference", s.MeterDifferenceM3},
		{"Other", s.OtherM3},
	}
	for _, row := range breakdown {
		pdf.CellFormat(90, 6, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.3f", row.value), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, cells []string, widths []float64, header bool) {
	if header {
		pdf.SetFont("Arial", "B", 9)
	} else {
		pdf.SetFont("Arial", "", 10)
	}
	for i, cell := range cells {
		align := "R"
		if header {
			align = "C"
		}
		pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
