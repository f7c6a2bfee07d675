package analytics

import (
	"time"

	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/period"
)

// MissingReports walks the date grid of the tag's window against every
// managed station and lists each (station, date) pair that no report covers.
// The result is deduplicated and keeps insertion order: date by date, station
// by station as supplied.
func MissingReports(reports []model.NormalizedReport, stations []model.Station, tag string, asOf time.Time) []model.MissingReport {
	type key struct {
		station string
		date    string
	}

	present := make(map[key]struct{}, len(reports))
	for _, r := range reports {
		present[key{station: r.StationID.String(), date: r.ReportDate}] = struct{}{}
	}

	seen := make(map[key]struct{})
	var result []model.MissingReport
	for _, date := range period.DatesInWindow(tag, asOf) {
		for _, station := range stations {
			k := key{station: station.ID.String(), date: date}
			if _, ok := present[k]; ok {
				continue
			}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			result = append(result, model.MissingReport{
				StationID:   station.ID,
				StationName: station.Name,
				Date:        date,
			})
		}
	}
	return result
}
