// Package analytics computes the six derived-metric views the dashboard
// shows. Every function is pure over its inputs; window math is driven by a
// caller-supplied as-of time.
package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/period"
)

// AutopilotTotals sums the autopilot meter readings per station over the
// tag's window. Stations with a zero total are dropped; the rest come back
// ascending by total so the lowest-volume stations, the likely
// under-reporters, lead the list.
func AutopilotTotals(reports []model.NormalizedReport, tag string, asOf time.Time) []model.AutopilotStationTotal {
	totals := make(map[uuid.UUID]*model.AutopilotStationTotal)
	var order []uuid.UUID

	for _, r := range reports {
		if !period.InWindow(r.ReportDate, tag, asOf) {
			continue
		}
		entry, ok := totals[r.StationID]
		if !ok {
			entry = &model.AutopilotStationTotal{StationID: r.StationID, StationName: r.StationName}
			totals[r.StationID] = entry
			order = append(order, r.StationID)
		}
		entry.Total += r.Autopilot
		entry.ReportsCount++
	}

	result := make([]model.AutopilotStationTotal, 0, len(order))
	for _, id := range order {
		entry := totals[id]
		if entry.Total <= 0 {
			continue
		}
		entry.Average = entry.Total / float64(entry.ReportsCount)
		result = append(result, *entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total < result[j].Total
	})
	return result
}
