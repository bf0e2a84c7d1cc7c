// Package reflow cascades movable calendar blocks forward after a block
// is moved or extended. It operates on snapshots and returns a mutation
// set for the caller to apply atomically.
package reflow

import (
	"sort"
	"time"

	"github.com/arveiter/blockplan/internal/block"
)

// Request describes an adjustment to a single block. At least enough of
// NewStart/NewEnd/ExtendMinutes must be present to resolve, together with
// the stored times, to a concrete interval.
type Request struct {
	BlockID       int64  `json:"block_id"`
	NewStart      string `json:"new_start,omitempty"` // ISO 8601
	NewEnd        string `json:"new_end,omitempty"`   // ISO 8601
	ExtendMinutes int    `json:"extend_minutes,omitempty"`
}

// Resolve computes the target block's new interval. Explicit NewStart and
// NewEnd override the stored endpoints; ExtendMinutes is then added to the
// (possibly overridden) end. Returns ErrUnresolvedInterval when either
// endpoint is still missing afterwards.
func Resolve(target *block.Block, req Request) (start, end time.Time, err error) {
	// Stored endpoints are best-effort: a malformed one simply counts
	// as missing and must be supplied by the request.
	if t, perr := block.ParseISO(target.Start); perr == nil {
		start = t
	}
	if t, perr := block.ParseISO(target.End); perr == nil {
		end = t
	}

	if req.NewStart != "" {
		start, err = block.ParseISO(req.NewStart)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if req.NewEnd != "" {
		end, err = block.ParseISO(req.NewEnd)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if req.ExtendMinutes != 0 {
		if end.IsZero() {
			return time.Time{}, time.Time{}, block.ErrUnresolvedInterval
		}
		end = end.Add(time.Duration(req.ExtendMinutes) * time.Minute)
	}

	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, block.ErrUnresolvedInterval
	}
	return start, end, nil
}

// Cascade computes the mutation set for moving the target block to
// [start, end). The target's own mutation comes first. Movable blocks on
// the target's new day that overlap the occupied interval are pushed
// later in a single left-to-right pass ordered by original start time:
// each collided block starts where the previous one ended, keeps its
// original duration, and extends the occupied interval for the blocks
// after it. Fixed blocks, non-colliding blocks, and blocks on other days
// are left untouched. Entries with malformed timestamps are skipped.
//
// Deterministic: one pass, no fixed-point iteration.
func Cascade(target *block.Block, start, end time.Time, others []*block.Block) []block.TimeUpdate {
	updates := []block.TimeUpdate{{
		ID:       target.ID,
		NewStart: block.FormatISO(start),
		NewEnd:   block.FormatISO(end),
	}}

	type candidate struct {
		b          *block.Block
		start, end time.Time
	}
	var candidates []candidate
	for _, b := range others {
		if b.ID == target.ID {
			continue
		}
		bs, be, err := b.Interval()
		if err != nil {
			continue
		}
		if !block.SameDay(bs, start) {
			continue
		}
		candidates = append(candidates, candidate{b, bs, be})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].start.Before(candidates[j].start)
	})

	// The occupied interval starts as the target's resolved window; its
	// end advances with every cascaded block.
	cursor := end
	for _, c := range candidates {
		if c.b.Fixed {
			continue
		}
		if !block.Overlaps(c.start, c.end, start, cursor) {
			continue
		}
		duration := c.end.Sub(c.start)
		newStart := cursor
		newEnd := newStart.Add(duration)
		updates = append(updates, block.TimeUpdate{
			ID:       c.b.ID,
			NewStart: block.FormatISO(newStart),
			NewEnd:   block.FormatISO(newEnd),
		})
		cursor = newEnd
	}

	return updates
}

// Adjust resolves the request against the target and returns the full
// mutation set including any cascades.
func Adjust(target *block.Block, req Request, others []*block.Block) ([]block.TimeUpdate, error) {
	start, end, err := Resolve(target, req)
	if err != nil {
		return nil, err
	}
	return Cascade(target, start, end, others), nil
}
