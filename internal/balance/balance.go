// Package balance implements the carry-forward arithmetic behind the monthly
// gas settlements.
package balance

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/period"
)

// StartBalance rolls a station's opening balance forward over its settlement
// history up to, but excluding, asOf. Records with unparseable periods are
// skipped; a station without an opening record yields 0; an opening record
// with an unparseable start date is returned unmodified. The fold is
// deterministic: the only clock involved is the caller-supplied asOf.
func StartBalance(openings []model.OpeningBalance, records []model.SettlementPeriod, asOf time.Time, stationID uuid.UUID) float64 {
	var opening *model.OpeningBalance
	for i := range openings {
		if openings[i].StationID == stationID {
			opening = &openings[i]
			break
		}
	}
	if opening == nil {
		return 0
	}

	startDate, ok := period.Parse(opening.StartDate)
	if !ok {
		return opening.StartBalance
	}

	type dated struct {
		at     time.Time
		record model.SettlementPeriod
	}
	var applicable []dated
	for _, rec := range records {
		if rec.StationID != stationID {
			continue
		}
		at, ok := period.Parse(rec.Period)
		if !ok {
			continue
		}
		// half-open [startDate, asOf): the as-of month itself is excluded
		if at.Before(startDate) || !at.Before(asOf) {
			continue
		}
		applicable = append(applicable, dated{at: at, record: rec})
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].at.Before(applicable[j].at)
	})

	bal := opening.StartBalance
	for _, d := range applicable {
		bal += d.record.Accrued - d.record.Paid
	}
	return bal
}

// EndBalance computes start + (amount ?? fallbackLimit ?? 0) - (paid ?? 0).
func EndBalance(start float64, amount, fallbackLimit, paid *float64) float64 {
	accrued := 0.0
	switch {
	case amount != nil:
		accrued = *amount
	case fallbackLimit != nil:
		accrued = *fallbackLimit
	}
	p := 0.0
	if paid != nil {
		p = *paid
	}
	return start + accrued - p
}

// PriceForDate finds the schedule entry whose interval contains date. An
// entry without an end date is treated as open until now. Entries are assumed
// non-overlapping; if they do overlap, the first match in slice order wins.
func PriceForDate(schedule []model.GasPrice, date time.Time, now time.Time) float64 {
	if date.IsZero() {
		return 0
	}
	for _, entry := range schedule {
		end := now
		if entry.EndDate != nil {
			end = *entry.EndDate
		}
		if !date.Before(entry.StartDate) && !date.After(end) {
			return entry.Price
		}
	}
	return 0
}
