package stats

import (
	"time"
)

// DayFormat is the wire format for calendar days.
const DayFormat = "2006-01-02"

// Day reduces t to day granularity in the given location. The result is
// normalized to midnight UTC so that rows compare and index consistently
// regardless of the reference calendar chosen for "today".
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a normalized day.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// WindowStart returns the first day of an inclusive window of windowDays
// days ending at end.
func WindowStart(end time.Time, windowDays int) time.Time {
	return end.AddDate(0, 0, -(windowDays - 1))
}
