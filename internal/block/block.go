// Package block defines the core domain types for blockplan.
package block

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidDuration  = errors.New("duration must be a positive number of minutes")
	ErrInvalidCategory  = errors.New("unknown category")
	ErrInvalidPriority  = errors.New("priority must be between 1 (high) and 5 (low)")
	ErrInvalidTimestamp = errors.New("timestamp must be in YYYY-MM-DDTHH:MM:SS format")
	ErrEndBeforeStart   = errors.New("end must be after start")
)

// Domain errors.
var (
	ErrBlockNotFound      = errors.New("block not found")
	ErrUnresolvedInterval = errors.New("adjustment does not resolve to a start and end time")
)

// ISOLayout is the timestamp layout used at every boundary: persistence,
// the HTTP API, and the scheduling engines. Times are naive local time.
const ISOLayout = "2006-01-02T15:04:05"

// Category labels a block or task. The set is closed.
type Category string

const (
	CategoryWork      Category = "Work"
	CategoryFitness   Category = "Fitness"
	CategoryHousehold Category = "Household"
	CategorySocial    Category = "Social"
	CategoryLearning  Category = "Learning"
	CategoryPersonal  Category = "Personal"
)

// Valid returns true if the category is one of the known labels.
// The empty category is valid and means "uncategorized".
func (c Category) Valid() bool {
	switch c {
	case "", CategoryWork, CategoryFitness, CategoryHousehold, CategorySocial, CategoryLearning, CategoryPersonal:
		return true
	default:
		return false
	}
}

// Status represents the lifecycle state of a block or task.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusActive    Status = "active"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusActive, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

// Block represents a scheduled time interval on the calendar.
// Start and End are ISO 8601 timestamps; historical records may carry
// malformed values, so consumers parse per entry and skip failures.
type Block struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Category        Category  `json:"category,omitempty"`
	Start           string    `json:"start"`
	End             string    `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          Status    `json:"status"`
	Fixed           bool      `json:"fixed"`
	TaskID          *int64    `json:"task_id,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// New creates a Block from concrete times, deriving the duration.
func New(title string, category Category, start, end time.Time, fixed bool) (*Block, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}
	return &Block{
		Title:           title,
		Category:        category,
		Start:           FormatISO(start),
		End:             FormatISO(end),
		DurationMinutes: MinutesBetween(start, end),
		Status:          StatusPlanned,
		Fixed:           fixed,
	}, nil
}

// Validate checks the block's fields for persistence.
func (b *Block) Validate() error {
	if b.Title == "" {
		return ErrEmptyTitle
	}
	if !b.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, b.Category)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("invalid status: %q", b.Status)
	}
	s, err := ParseISO(b.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	e, err := ParseISO(b.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if !e.After(s) {
		return ErrEndBeforeStart
	}
	if b.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Interval parses the block's start and end. Returns ErrInvalidTimestamp
// (wrapped) when either endpoint is malformed.
func (b *Block) Interval() (start, end time.Time, err error) {
	start, err = ParseISO(b.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = ParseISO(b.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Task represents a persisted unit of work, created when a plan is confirmed.
type Task struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Note            string    `json:"note,omitempty"`
	Category        Category  `json:"category,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Priority        *int      `json:"priority,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// Validate checks the task's fields for persistence.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if t.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if t.Priority != nil && (*t.Priority < 1 || *t.Priority > 5) {
		return ErrInvalidPriority
	}
	return nil
}

// Step is a transient unit of planned work derived from a note.
// It exists only between preview and confirm.
type Step struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	Priority        *int   `json:"priority,omitempty"`
}

// Validate checks the step's fields.
func (s Step) Validate() error {
	if s.Title == "" {
		return ErrEmptyTitle
	}
	if s.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if s.Priority != nil && (*s.Priority < 1 || *s.Priority > 5) {
		return ErrInvalidPriority
	}
	return nil
}

// ParseISO parses an ISO 8601 timestamp in local time.
func ParseISO(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ISOLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t, nil
}

// FormatISO formats a time as an ISO 8601 timestamp.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}
