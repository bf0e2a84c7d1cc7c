// Package dateutil provides date and clock-time parsing utilities.
package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
)

// ParseDate parses a date string in YYYY-MM-DD format into local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseClock parses an HH:MM string into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// CombineDayClock places an HH:MM clock time onto the given calendar date.
func CombineDayClock(day time.Time, clock string) (time.Time, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateToDay(day).Add(time.Duration(minutes) * time.Minute), nil
}

// DayBounds returns midnight of the given date and midnight of the next day.
func DayBounds(day time.Time) (start, end time.Time) {
	start = TruncateToDay(day)
	return start, start.AddDate(0, 0, 1)
}
