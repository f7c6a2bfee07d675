package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/period"
)

// NegativeDifference flags reports where the hose meter shows less gas than
// the autopilot subsystem recorded. For the "1day" tag the window is first
// collapsed to the latest report per station so an amended save does not
// double-report a station. Most negative first.
func NegativeDifference(reports []model.NormalizedReport, tag string, asOf time.Time) []model.NegativeDifferenceEntry {
	var window []model.NormalizedReport
	for _, r := range reports {
		if period.InWindow(r.ReportDate, tag, asOf) {
			window = append(window, r)
		}
	}

	if tag == "1day" {
		latest := make(map[uuid.UUID]model.NormalizedReport)
		var order []uuid.UUID
		for _, r := range window {
			existing, ok := latest[r.StationID]
			if !ok {
				order = append(order, r.StationID)
				latest[r.StationID] = r
				continue
			}
			if r.ReportDate > existing.ReportDate {
				latest[r.StationID] = r
			}
		}
		window = window[:0]
		for _, id := range order {
			window = append(window, latest[id])
		}
	}

	var result []model.NegativeDifferenceEntry
	for _, r := range window {
		diff := r.HoseTotalGas - r.Autopilot
		if diff >= 0 {
			continue
		}
		result = append(result, model.NegativeDifferenceEntry{
			StationID:    r.StationID,
			StationName:  r.StationName,
			ReportDate:   r.ReportDate,
			HoseTotalGas: r.HoseTotalGas,
			Autopilot:    r.Autopilot,
			Difference:   diff,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Difference < result[j].Difference
	})
	return result
}
