package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseStayDate accepts either a calendar date (yyyy-mm-dd, interpreted in loc)
// or a full RFC 3339 timestamp.
func ParseStayDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd or RFC 3339", value)
	}
	return t, nil
}

// DayBounds returns [start of day, start of next day) for now in loc.
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = now.Location()
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// WithinDay reports whether t falls in [start, end).
func WithinDay(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
