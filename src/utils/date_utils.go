package utils

import (
	"fmt"
	"time"
)

// DefaultDateFormat is the layout of date query parameters.
const DefaultDateFormat = "2006-01-02"

// ParseDate parses a date query parameter. An empty string yields the zero time.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DefaultDateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected format %s", dateStr, DefaultDateFormat)
	}
	return t, nil
}

// InDateRange reports whether the ISO-8601 instant ts falls on a day within [from, to].
// Zero bounds are open.
func InDateRange(ts string, from, to time.Time) bool {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return false
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if !from.IsZero() && day.Before(from) {
		return false
	}
	if !to.IsZero() && day.After(to) {
		return false
	}
	return true
}
