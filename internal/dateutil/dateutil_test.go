package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})

	t.Run("empty is invalid", func(t *testing.T) {
		_, err := ParseDate("")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		input   string
		minutes int
		wantErr bool
	}{
		{"08:00", 480, false},
		{"20:00", 1200, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"8:00", 0, true},
		{"24:00", 0, true},
		{"0800", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.minutes {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.input, got, tc.minutes)
		}
	}
}

func TestCombineDayClock(t *testing.T) {
	day := time.Date(2025, 3, 10, 14, 22, 7, 0, time.Local)

	got, err := CombineDayClock(day, "09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := CombineDayClock(day, "930"); err == nil {
		t.Error("expected error for malformed clock time")
	}
}

func TestDayBounds(t *testing.T) {
	day := time.Date(2025, 3, 10, 17, 45, 0, 0, time.Local)
	start, end := DayBounds(day)

	if start.Hour() != 0 || start.Minute() != 0 || start.Day() != 10 {
		t.Errorf("unexpected start: %v", start)
	}
	if end.Day() != 11 || end.Hour() != 0 {
		t.Errorf("unexpected end: %v", end)
	}
}
