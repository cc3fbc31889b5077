package reservations

import (
	"errors"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var errInvalidDate = errors.New("invalid date")

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns the calendar
// day at 00:00 UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errInvalidDate
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders a stored calendar day as YYYY-MM-DD.
func FormatDate(day time.Time) string {
	return day.UTC().Format(dateLayout)
}

// isFutureDay reports whether the day starts after now in loc. Today is not in the future.
func isFutureDay(day time.Time, loc *time.Location, now time.Time) bool {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start.After(now)
}
