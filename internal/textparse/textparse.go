// Package textparse extracts scheduling structure from free-text notes.
// It is deliberately rule-based: fixed keyword and pattern matching, no
// language model. The planner consumes only its structured output.
package textparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/arveiter/blockplan/internal/block"
	"github.com/arveiter/blockplan/internal/dateutil"
)

// Result holds the structure extracted from a note. Zero values mean the
// corresponding pattern did not match.
type Result struct {
	Title           string         `json:"title"`
	Date            string         `json:"date,omitempty"` // YYYY-MM-DD
	DurationMinutes int            `json:"duration_minutes,omitempty"`
	StartTime       string         `json:"start_time,omitempty"` // HH:MM
	EndTime         string         `json:"end_time,omitempty"`   // HH:MM
	Category        block.Category `json:"category,omitempty"`
}

var (
	hoursPattern     = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*stunden`)
	minutesPattern   = regexp.MustCompile(`(\d+)\s*min(?:ute|uten)?`)
	clockPattern     = regexp.MustCompile(`(\d{1,2})\s*uhr`)
	timeRangePattern = regexp.MustCompile(`(\d{1,2})\s*bis\s*(\d{1,2})\s*uhr`)
)

// categoryKeywords maps note keywords to categories. The list is ordered
// and evaluated front to back; the first matching keyword wins.
var categoryKeywords = []struct {
	keyword  string
	category block.Category
}{
	{"ads", block.CategoryWork},
	{"arbeit", block.CategoryWork},
	{"sport", block.CategoryFitness},
	{"fitness", block.CategoryFitness},
	{"laufen", block.CategoryFitness},
	{"einkauf", block.CategoryHousehold},
	{"einkaufen", block.CategoryHousehold},
	{"putz", block.CategoryHousehold},
	{"freunde", block.CategorySocial},
	{"treffen", block.CategorySocial},
	{"lernen", block.CategoryLearning},
	{"studium", block.CategoryLearning},
	{"lesen", block.CategoryLearning},
	{"content", block.CategoryWork},
	{"idee", block.CategoryPersonal},
	{"notiz", block.CategoryPersonal},
}

// Parse extracts date, duration, times, and category from a note.
// now anchors the "heute"/"morgen" keywords; Parse is a pure function of
// its inputs.
func Parse(text string, now time.Time) Result {
	low := strings.ToLower(text)
	res := Result{Title: strings.TrimSpace(text)}

	// Date keywords: "morgen" wins over "heute"
	today := dateutil.TruncateToDay(now)
	if strings.Contains(low, "morgen") {
		res.Date = dateutil.FormatDate(today.AddDate(0, 0, 1))
	} else if strings.Contains(low, "heute") {
		res.Date = dateutil.FormatDate(today)
	}

	// Duration: "2 stunden", "1,5 stunden", "30 minuten".
	// A minutes pattern overrides an hours pattern when both appear.
	if m := hoursPattern.FindStringSubmatch(low); m != nil {
		hours, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err == nil {
			res.DurationMinutes = int(hours * 60)
		}
	}
	if m := minutesPattern.FindStringSubmatch(low); m != nil {
		if minutes, err := strconv.Atoi(m[1]); err == nil {
			res.DurationMinutes = minutes
		}
	}

	// Times: "8 bis 15 uhr" sets a range, otherwise "18 uhr" sets a start.
	if m := timeRangePattern.FindStringSubmatch(low); m != nil {
		startHour, _ := strconv.Atoi(m[1])
		endHour, _ := strconv.Atoi(m[2])
		res.StartTime = fmt.Sprintf("%02d:00", startHour)
		res.EndTime = fmt.Sprintf("%02d:00", endHour)
		if endHour > startHour {
			res.DurationMinutes = (endHour - startHour) * 60
		}
	} else if m := clockPattern.FindStringSubmatch(low); m != nil {
		hour, _ := strconv.Atoi(m[1])
		res.StartTime = fmt.Sprintf("%02d:00", hour)
	}

	for _, entry := range categoryKeywords {
		if strings.Contains(low, entry.keyword) {
			res.Category = entry.category
			break
		}
	}

	return res
}
