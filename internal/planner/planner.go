// Package planner provides high-level planning orchestration.
// It coordinates the text parser, scheduler, reflow engine, and repository
// to turn free-text notes into scheduled blocks. Both CLI and HTTP API use
// this package.
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arveiter/blockplan/internal/block"
	"github.com/arveiter/blockplan/internal/config"
	"github.com/arveiter/blockplan/internal/dateutil"
	"github.com/arveiter/blockplan/internal/reflow"
	"github.com/arveiter/blockplan/internal/scheduler"
	"github.com/arveiter/blockplan/internal/textparse"
)

// singleBlockMinutes is the fallback duration for single-block planning
// when the note carries no duration of its own.
const singleBlockMinutes = 60

// Planner orchestrates note parsing, step expansion, and block placement.
type Planner struct {
	repo      block.Repository
	scheduler *scheduler.Scheduler
	config    *config.Config
}

// New creates a new Planner with the given dependencies.
func New(cfg *config.Config, repo block.Repository) *Planner {
	sched := scheduler.New(cfg.Schedule.DayStart, cfg.Schedule.DayEnd)
	return &Planner{
		repo:      repo,
		scheduler: sched,
		config:    cfg,
	}
}

// PlanPreview is the result of planning a note: the proposed steps, the
// blocks they would occupy, and any scheduling conflicts. Nothing is
// persisted until the preview is confirmed.
type PlanPreview struct {
	Steps           []block.Step   `json:"steps"`
	SuggestedBlocks []*block.Block `json:"suggested_blocks"`
	Conflicts       []string       `json:"conflicts"`
}

// ParseNote extracts structure from a free-text note. The duration defaults
// to 60 minutes when the note carries none. now anchors relative dates.
func (p *Planner) ParseNote(text string, now time.Time) textparse.Result {
	parsed := textparse.Parse(text, now)
	if parsed.DurationMinutes == 0 {
		parsed.DurationMinutes = singleBlockMinutes
	}
	return parsed
}

// ExpandSteps splits a parsed note into work steps. The step count grows
// with the raw note's word count, the total duration is the parsed one or
// the configured default, and each step gets an equal share bounded below
// by the configured minimum.
func (p *Planner) ExpandSteps(text string, parsed textparse.Result, priority *int) []block.Step {
	words := len(strings.Fields(text))

	var count int
	switch {
	case words < 6:
		count = 2
	case words < 12:
		count = 3
	case words < 20:
		count = 4
	default:
		count = 5
	}

	total := parsed.DurationMinutes
	if total == 0 {
		total = p.config.Schedule.DefaultStepMinutes
	}
	per := total / count
	if per < p.config.Schedule.MinStepMinutes {
		per = p.config.Schedule.MinStepMinutes
	}

	steps := make([]block.Step, 0, count)
	for i := 1; i <= count; i++ {
		steps = append(steps, block.Step{
			Title:           fmt.Sprintf("%s - step %d", parsed.Title, i),
			DurationMinutes: per,
			Priority:        priority,
		})
	}
	return steps
}

// PreviewNote parses a note, expands it into steps, and schedules them
// against the blocks already on the target day. Conflicts are reported in
// the preview, never as errors.
func (p *Planner) PreviewNote(ctx context.Context, text string, priority *int, now time.Time) (*PlanPreview, error) {
	parsed := textparse.Parse(text, now)
	steps := p.ExpandSteps(text, parsed, priority)
	return p.schedule(ctx, steps, parsed, now)
}

// PlanNote parses a note and schedules it as a single block.
func (p *Planner) PlanNote(ctx context.Context, text string, now time.Time) (*PlanPreview, error) {
	parsed := p.ParseNote(text, now)
	steps := []block.Step{{
		Title:           parsed.Title,
		DurationMinutes: parsed.DurationMinutes,
	}}
	return p.schedule(ctx, steps, parsed, now)
}

func (p *Planner) schedule(ctx context.Context, steps []block.Step, parsed textparse.Result, now time.Time) (*PlanPreview, error) {
	day := dateutil.TruncateToDay(now)
	if parsed.Date != "" {
		var err error
		day, err = dateutil.ParseDate(parsed.Date)
		if err != nil {
			return nil, fmt.Errorf("parsed date: %w", err)
		}
	}

	existing, err := p.repo.ListBlocksForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("fetching existing blocks: %w", err)
	}

	base := scheduler.BaseInfo{
		Date:      parsed.Date,
		StartTime: parsed.StartTime,
		EndTime:   parsed.EndTime,
		Category:  parsed.Category,
	}
	placed, conflicts, err := p.scheduler.Schedule(steps, base, existing, now)
	if err != nil {
		return nil, err
	}

	return &PlanPreview{
		Steps:           steps,
		SuggestedBlocks: placed,
		Conflicts:       conflicts,
	}, nil
}

// ConfirmRequest carries a previewed plan back for persistence.
type ConfirmRequest struct {
	Steps    []block.Step   `json:"steps"`
	Blocks   []*block.Block `json:"blocks"`
	Category block.Category `json:"category,omitempty"`
	NoteText string         `json:"note_text,omitempty"`
}

// ConfirmResult reports the persisted ids.
type ConfirmResult struct {
	TaskIDs  []int64 `json:"tasks"`
	BlockIDs []int64 `json:"blocks"`
}

// Confirm persists a previewed plan: each step becomes a task and each
// block is stored with a link to its task. The i-th block links to the
// i-th task, clamped to the last task when there are more blocks than
// steps.
func (p *Planner) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	if len(req.Steps) == 0 {
		return nil, fmt.Errorf("nothing to confirm: %w", block.ErrEmptyTitle)
	}

	tasks := make([]*block.Task, 0, len(req.Steps))
	for _, step := range req.Steps {
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("step %q: %w", step.Title, err)
		}
		tasks = append(tasks, &block.Task{
			Title:           step.Title,
			Note:            req.NoteText,
			Category:        req.Category,
			DurationMinutes: step.DurationMinutes,
			Priority:        step.Priority,
			Status:          block.StatusPlanned,
		})
	}

	if err := p.repo.CreateTasks(ctx, tasks); err != nil {
		return nil, fmt.Errorf("saving tasks: %w", err)
	}

	for i, b := range req.Blocks {
		ti := i
		if ti >= len(tasks) {
			ti = len(tasks) - 1
		}
		b.TaskID = &tasks[ti].ID
		if b.Category == "" {
			b.Category = req.Category
		}
		if b.Status == "" {
			b.Status = block.StatusPlanned
		}
	}

	if err := p.repo.CreateBlocks(ctx, req.Blocks); err != nil {
		return nil, fmt.Errorf("saving blocks: %w", err)
	}

	result := &ConfirmResult{
		TaskIDs:  make([]int64, 0, len(tasks)),
		BlockIDs: make([]int64, 0, len(req.Blocks)),
	}
	for _, t := range tasks {
		result.TaskIDs = append(result.TaskIDs, t.ID)
	}
	for _, b := range req.Blocks {
		result.BlockIDs = append(result.BlockIDs, b.ID)
	}
	return result, nil
}

// Adjust moves or extends a block and ripples the change through the
// movable blocks behind it on the same day. The full mutation set is
// applied in one batch and returned.
func (p *Planner) Adjust(ctx context.Context, req reflow.Request) ([]block.TimeUpdate, error) {
	target, err := p.repo.GetBlock(ctx, req.BlockID)
	if err != nil {
		return nil, err
	}

	start, end, err := reflow.Resolve(target, req)
	if err != nil {
		return nil, err
	}

	others, err := p.repo.ListBlocksForDay(ctx, dateutil.TruncateToDay(start))
	if err != nil {
		return nil, fmt.Errorf("fetching day blocks: %w", err)
	}

	updates := reflow.Cascade(target, start, end, others)
	if err := p.repo.BatchUpdateBlockTimes(ctx, updates); err != nil {
		return nil, fmt.Errorf("applying updates: %w", err)
	}
	return updates, nil
}

// Blocks lists blocks, optionally filtered to those starting on a date
// given as YYYY-MM-DD.
func (p *Planner) Blocks(ctx context.Context, date string) ([]*block.Block, error) {
	if date == "" {
		return p.repo.ListBlocks(ctx)
	}
	day, err := dateutil.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return p.repo.ListBlocksForDay(ctx, day)
}
