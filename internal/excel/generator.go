package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/gasops-dashboard/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the gas-and-payments workbook: a summary sheet for the
// whole range followed by one row per station on the breakdown sheet.
func (g *Generator) Generate(summary model.GasPaymentsSummary, stations []model.StationGasPayments) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Сводка"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, summary); err != nil {
		return nil, err
	}

	stationSheet := "Станции"
	file.NewSheet(stationSheet)
	if err := g.writeStations(file, stationSheet, stations); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, summary model.GasPaymentsSummary) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Период")
	set("B1", summary.PeriodLabel)
	set("A2", "Количество отчетов")
	set("B2", summary.ReportsCount)
	set("A3", "Отпущено газа, м3")
	set("B3", summary.TotalGas)
	set("A4", "Наличные")
	set("B4", summary.Cash)
	set("A5", "Humo")
	set("B5", summary.Humo)
	set("A6", "Uzcard")
	set("B6", summary.Uzcard)
	set("A7", "Электронные платежи")
	set("B7", summary.Electronic)
	set("A8", "Итого платежей")
	set("B8", summary.TotalPayments)

	return nil
}

func (g *Generator) writeStations(file *excelize.File, sheet string, stations []model.StationGasPayments) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Заправка",
		"Отчетов",
		"Газ, м3",
		"Наличные",
		"Humo",
		"Uzcard",
		"Электронные",
		"Итого платежей",
		"Наличные, %",
		"Humo, %",
		"Uzcard, %",
		"Электронные, %",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for rowIdx, station := range stations {
		values := []interface{}{
			station.StationName,
			station.ReportsCount,
			station.TotalGas,
			station.Cash,
			station.Humo,
			station.Uzcard,
			station.Electronic,
			station.TotalPayments,
			fmt.Sprintf("%.1f", station.CashPercent),
			fmt.Sprintf("%.1f", station.HumoPercent),
			fmt.Sprintf("%.1f", station.UzcardPercent),
			fmt.Sprintf("%.1f", station.ElectronicPercent),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			set(cell, value)
		}
	}

	return nil
}
