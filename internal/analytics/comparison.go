package analytics

import (
	"sort"

	"github.com/google/uuid"

	"github.com/nurpe/gasops-dashboard/internal/model"
)

// Comparison takes the newest two reports of every station and measures the
// day-over-day change in metered gas. Stations with fewer than two reports
// are excluded. Result is ordered by difference, biggest growth first.
func Comparison(reports []model.NormalizedReport) []model.ComparisonEntry {
	byStation := make(map[uuid.UUID][]model.NormalizedReport)
	var order []uuid.UUID
	for _, r := range reports {
		if _, ok := byStation[r.StationID]; !ok {
			order = append(order, r.StationID)
		}
		byStation[r.StationID] = append(byStation[r.StationID], r)
	}

	var result []model.ComparisonEntry
	for _, id := range order {
		station := byStation[id]
		if len(station) < 2 {
			continue
		}
		sort.SliceStable(station, func(i, j int) bool {
			return station[i].ReportDate > station[j].ReportDate
		})
		latest, previous := station[0], station[1]

		diff := latest.HoseTotalGas - previous.HoseTotalGas
		change := 0.0
		if previous.HoseTotalGas != 0 {
			change = diff / previous.HoseTotalGas * 100
		}

		result = append(result, model.ComparisonEntry{
			StationID:        id,
			StationName:      latest.StationName,
			LatestDate:       latest.ReportDate,
			PreviousDate:     previous.ReportDate,
			LatestGas:        latest.HoseTotalGas,
			PreviousGas:      previous.HoseTotalGas,
			Difference:       diff,
			PercentageChange: change,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Difference > result[j].Difference
	})
	return result
}
