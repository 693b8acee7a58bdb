package valueobject

import (
	"math"
	"time"
)

// Day is a 24 hour span used for day-count arithmetic
const Day = 24 * time.Hour

// StartOfDay returns 00:00:00 of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of t's calendar day in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// Noon returns 12:00 of t's calendar day in loc
func Noon(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
}

// CalendarDaysBetween counts whole calendar days from `from` to `to` in loc.
// Both instants are reduced to their civil date first, so DST shifts and the
// time of day never change the result. Negative when `to` precedes `from`.
func CalendarDaysBetween(from, to time.Time, loc *time.Location) int {
	f := from.In(loc)
	tt := to.In(loc)
	fu := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	tu := time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(tu.Sub(fu).Hours() / 24))
}
