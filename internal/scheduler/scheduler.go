// Package scheduler places work steps into time blocks within working hours.
package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/arveiter/blockplan/internal/block"
	"github.com/arveiter/blockplan/internal/dateutil"
)

// Conflict messages reported by Schedule. Conflicts are soft failures:
// the call still succeeds and returns every block that could be placed.
const (
	ConflictWindowTooShort = "steps do not fully fit in the time window"
	ConflictNoFreeWindow   = "no free window found; suggestion: split the step or choose another day"
)

// Scheduler provides slot finding and step placement within a working-hours day window.
type Scheduler struct {
	dayStart string // "HH:MM"
	dayEnd   string // "HH:MM"
}

// New creates a Scheduler with the given working-hours window.
func New(dayStart, dayEnd string) *Scheduler {
	return &Scheduler{
		dayStart: dayStart,
		dayEnd:   dayEnd,
	}
}

// Slot represents a free gap within the working-hours window.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Minutes returns the slot length in minutes.
func (s Slot) Minutes() int {
	return block.MinutesBetween(s.Start, s.End)
}

// BaseInfo carries the scheduling context extracted from a note.
type BaseInfo struct {
	Date      string         // YYYY-MM-DD, empty means the reference day
	StartTime string         // HH:MM; when set, Schedule runs in fixed mode
	EndTime   string         // HH:MM; optional bound in fixed mode
	Category  block.Category // inherited by every placed block
}

// FindFreeSlots computes the maximal free gaps of at least durationMinutes
// within working hours on the given day. Both fixed and movable occupied
// blocks count; occupied entries with malformed timestamps or on other days
// are skipped. The returned slots are disjoint and ordered by start time.
//
// Pure function of its inputs.
func (s *Scheduler) FindFreeSlots(day time.Time, occupied []*block.Block, durationMinutes int) []Slot {
	windowStart, err := dateutil.CombineDayClock(day, s.dayStart)
	if err != nil {
		return nil
	}
	windowEnd, err := dateutil.CombineDayClock(day, s.dayEnd)
	if err != nil {
		return nil
	}

	type interval struct {
		start, end time.Time
	}
	intervals := make([]interval, 0, len(occupied))
	for _, b := range occupied {
		bs, be, err := b.Interval()
		if err != nil {
			continue // malformed historical entry, excluded from occupancy
		}
		if !block.SameDay(bs, day) {
			continue
		}
		intervals = append(intervals, interval{bs, be})
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start.Before(intervals[j].start)
	})

	minGap := time.Duration(durationMinutes) * time.Minute

	var free []Slot
	cursor := windowStart
	for _, iv := range intervals {
		if iv.start.After(cursor) && iv.start.Sub(cursor) >= minGap {
			free = append(free, Slot{Start: cursor, End: iv.start})
		}
		// Advance past the interval either way; overlapping occupied
		// blocks collapse into one span.
		if iv.end.After(cursor) {
			cursor = iv.end
		}
	}
	if windowEnd.After(cursor) && windowEnd.Sub(cursor) >= minGap {
		free = append(free, Slot{Start: cursor, End: windowEnd})
	}

	return free
}

// Schedule assigns each step a concrete block, in input order.
//
// Fixed mode (base.StartTime set): steps are laid out back to back from the
// start time. A step that runs past base.EndTime records a conflict but is
// still placed; blocks are marked fixed because the window was explicitly
// requested.
//
// Free mode: each step takes the earliest free gap large enough for it,
// counting both existing blocks and blocks placed earlier in this call so
// steps never self-collide. A step with no gap records a conflict and is
// omitted; blocks are movable.
//
// now anchors the reference day when base carries no date. Structural
// problems (malformed date or times in base) are hard errors; fit problems
// are conflicts.
func (s *Scheduler) Schedule(steps []block.Step, base BaseInfo, existing []*block.Block, now time.Time) ([]*block.Block, []string, error) {
	day := dateutil.TruncateToDay(now)
	if base.Date != "" {
		parsed, err := dateutil.ParseDate(base.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("base date: %w", err)
		}
		day = parsed
	}

	if base.StartTime != "" {
		return s.scheduleFixed(steps, base, day)
	}
	return s.scheduleFree(steps, base, existing, day)
}

func (s *Scheduler) scheduleFixed(steps []block.Step, base BaseInfo, day time.Time) ([]*block.Block, []string, error) {
	cursor, err := dateutil.CombineDayClock(day, base.StartTime)
	if err != nil {
		return nil, nil, fmt.Errorf("start time: %w", err)
	}

	var endBound time.Time
	if base.EndTime != "" {
		endBound, err = dateutil.CombineDayClock(day, base.EndTime)
		if err != nil {
			return nil, nil, fmt.Errorf("end time: %w", err)
		}
	}

	var placed []*block.Block
	var conflicts []string
	for _, step := range steps {
		end := cursor.Add(time.Duration(step.DurationMinutes) * time.Minute)
		if !endBound.IsZero() && end.After(endBound) {
			// Report, don't block: the user asked for this window.
			conflicts = append(conflicts, ConflictWindowTooShort)
		}
		placed = append(placed, &block.Block{
			Title:           step.Title,
			Category:        base.Category,
			Start:           block.FormatISO(cursor),
			End:             block.FormatISO(end),
			DurationMinutes: step.DurationMinutes,
			Status:          block.StatusPlanned,
			Fixed:           true,
		})
		cursor = end
	}

	return placed, conflicts, nil
}

func (s *Scheduler) scheduleFree(steps []block.Step, base BaseInfo, existing []*block.Block, day time.Time) ([]*block.Block, []string, error) {
	occupied := make([]*block.Block, len(existing))
	copy(occupied, existing)

	var placed []*block.Block
	var conflicts []string
	for _, step := range steps {
		free := s.FindFreeSlots(day, occupied, step.DurationMinutes)
		if len(free) == 0 {
			conflicts = append(conflicts, ConflictNoFreeWindow)
			continue
		}

		start := free[0].Start
		end := start.Add(time.Duration(step.DurationMinutes) * time.Minute)
		b := &block.Block{
			Title:           step.Title,
			Category:        base.Category,
			Start:           block.FormatISO(start),
			End:             block.FormatISO(end),
			DurationMinutes: step.DurationMinutes,
			Status:          block.StatusPlanned,
			Fixed:           false,
		}
		placed = append(placed, b)
		occupied = append(occupied, b)
	}

	return placed, conflicts, nil
}
