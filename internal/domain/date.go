package domain

import "time"

// DateLayout is the ISO calendar date format used for periods and query params.
const DateLayout = "2006-01-02"

// Day returns the calendar date of t (in t's own location) as UTC midnight.
// All dates handled by the pricing engine are normalised this way so that
// equality and "next day" checks are plain time comparisons.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDay returns the calendar day after d.
func NextDay(d time.Time) time.Time {
	return d.AddDate(0, 0, 1)
}

// IsNextDay reports whether b is exactly one calendar day after a.
func IsNextDay(a, b time.Time) bool {
	return NextDay(a).Equal(b)
}
