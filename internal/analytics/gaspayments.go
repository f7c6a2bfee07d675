package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/period"
)

// GasAndPaymentsByStation aggregates gas volume and the four payment
// channels per station over the tag's window, with each channel's share of
// the station's total. Division guards with max(total, 1) so an all-zero
// station shows 0%, not NaN. Stations come back descending by gas volume.
func GasAndPaymentsByStation(reports []model.NormalizedReport, tag string, asOf time.Time) []model.StationGasPayments {
	var window []model.NormalizedReport
	for _, r := range reports {
		if period.InWindow(r.ReportDate, tag, asOf) {
			window = append(window, r)
		}
	}
	return groupByStation(window)
}

// StationBreakdown is the per-station view over an explicit inclusive date
// range, used by the report export alongside the range summary.
func StationBreakdown(reports []model.NormalizedReport, start, end time.Time) []model.StationGasPayments {
	startStr := period.DateOnly(start).Format(period.DateLayout)
	endStr := period.DateOnly(end).Format(period.DateLayout)

	var window []model.NormalizedReport
	for _, r := range reports {
		if r.ReportDate >= startStr && r.ReportDate <= endStr {
			window = append(window, r)
		}
	}
	return groupByStation(window)
}

func groupByStation(reports []model.NormalizedReport) []model.StationGasPayments {
	totals := make(map[uuid.UUID]*model.StationGasPayments)
	var order []uuid.UUID

	for _, r := range reports {
		entry, ok := totals[r.StationID]
		if !ok {
			entry = &model.StationGasPayments{StationID: r.StationID, StationName: r.StationName}
			totals[r.StationID] = entry
			order = append(order, r.StationID)
		}
		accumulate(entry, r)
	}

	result := make([]model.StationGasPayments, 0, len(order))
	for _, id := range order {
		entry := totals[id]
		entry.TotalPayments = entry.Cash + entry.Humo + entry.Uzcard + entry.Electronic
		divisor := entry.TotalPayments
		if divisor < 1 {
			divisor = 1
		}
		entry.CashPercent = entry.Cash / divisor * 100
		entry.HumoPercent = entry.Humo / divisor * 100
		entry.UzcardPercent = entry.Uzcard / divisor * 100
		entry.ElectronicPercent = entry.Electronic / divisor * 100
		result = append(result, *entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalGas > result[j].TotalGas
	})
	return result
}

// GasAndPaymentsForRange aggregates the whole station set into one summary
// over an inclusive [start, end] date range. An empty window yields an
// all-zero summary, never a nil result.
func GasAndPaymentsForRange(reports []model.NormalizedReport, start, end time.Time) model.GasPaymentsSummary {
	startStr := period.DateOnly(start).Format(period.DateLayout)
	endStr := period.DateOnly(end).Format(period.DateLayout)

	summary := model.GasPaymentsSummary{
		PeriodLabel: fmt.Sprintf("%s - %s", startStr, endStr),
	}
	for _, r := range reports {
		if r.ReportDate < startStr || r.ReportDate > endStr {
			continue
		}
		summary.ReportsCount++
		summary.TotalGas += r.HoseTotalGas
		summary.Cash += r.Cash
		summary.Humo += r.Humo
		summary.Uzcard += r.Uzcard
		summary.Electronic += r.Electronic
	}
	summary.TotalPayments = summary.Cash + summary.Humo + summary.Uzcard + summary.Electronic
	return summary
}

func accumulate(entry *model.StationGasPayments, r model.NormalizedReport) {
	entry.ReportsCount++
	entry.TotalGas += r.HoseTotalGas
	entry.Cash += r.Cash
	entry.Humo += r.Humo
	entry.Uzcard += r.Uzcard
	entry.Electronic += r.Electronic
}
