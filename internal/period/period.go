// Package period holds the calendar helpers behind every analysis window.
// All functions take an explicit as-of time; nothing here reads the system
// clock, so identical inputs always give identical answers.
package period

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var monthLayouts = []string{"2006-01", "2006/01", "01/2006"}

var fullLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateLayout,
	"02.01.2006",
}

// Parse interprets a period string at month or day granularity. Month inputs
// ("2024-05", "2024/05", "05/2024") resolve to the first of the month. Any
// full-date layout is accepted as-is. The second return is false when the
// input is unparseable; Parse never panics.
func Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	for _, layout := range fullLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Quarter returns the calendar quarter of t as a roman numeral, "I".."IV".
func Quarter(t time.Time) string {
	switch {
	case t.Month() <= 3:
		return "I"
	case t.Month() <= 6:
		return "II"
	case t.Month() <= 9:
		return "III"
	default:
		return "IV"
	}
}

// QuarterIndex returns the quarter of t as 1..4.
func QuarterIndex(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// QuarterPartitions enumerates the quarter-tagged partition identifiers
// ("Q{I..IV}_{year}") that can hold records between start and end. The cursor
// is anchored to the first day of each quarter before stepping; stepping from
// a raw month-end date would normalize past the next quarter and skip it. The
// result is deduplicated and ordered chronologically.
func QuarterPartitions(start, end time.Time) []string {
	if end.Before(start) {
		start, end = end, start
	}

	seen := make(map[string]struct{})
	var tags []string
	add := func(t time.Time) {
		tag := fmt.Sprintf("Q%s_%d", Quarter(t), t.Year())
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for cursor := quarterStart(start); !cursor.After(end); cursor = cursor.AddDate(0, 3, 0) {
		add(cursor)
	}
	add(end)
	return tags
}

// quarterStart returns the first day of t's quarter.
func quarterStart(t time.Time) time.Time {
	month := time.Month((QuarterIndex(t)-1)*3 + 1)
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
}

// windowDays maps the named period tags to a days-back offset. Unknown tags
// fall back to seven days.
func windowDays(tag string) int {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "1day", "yesterday":
		return 1
	case "2days":
		return 2
	case "3days":
		return 3
	case "7days":
		return 7
	case "30days", "1month":
		return 30
	case "6months":
		return 180
	case "1year":
		return 365
	default:
		return 7
	}
}

// Window maps a named period tag to the inclusive [asOf-N, asOf] day range
// with the time of day zeroed.
func Window(tag string, asOf time.Time) (time.Time, time.Time) {
	end := DateOnly(asOf)
	start := end.AddDate(0, 0, -windowDays(tag))
	return start, end
}

// DatesInWindow lists every calendar date of the tag's window as YYYY-MM-DD
// strings, oldest first.
func DatesInWindow(tag string, asOf time.Time) []string {
	start, end := Window(tag, asOf)
	var dates []string
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		dates = append(dates, cursor.Format(DateLayout))
	}
	return dates
}

// InWindow reports whether the YYYY-MM-DD date string falls inside the tag's
// window. Report dates compare lexicographically in chronological order, so
// the check stays on strings.
func InWindow(date, tag string, asOf time.Time) bool {
	start, end := Window(tag, asOf)
	return date >= start.Format(DateLayout) && date <= end.Format(DateLayout)
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
