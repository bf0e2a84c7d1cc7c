package block

import "time"

// MinutesBetween returns the whole minutes from start to end.
// Returns 0 if end is not after start.
func MinutesBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}

// Overlaps returns true if the intervals [s1, e1) and [s2, e2) overlap.
// Two intervals overlap if: s1 < e2 AND s2 < e1. Touching endpoints do
// not count as overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// SameDay returns true if both times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
