package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arveiter/blockplan/internal/block"
)

// Memory is an in-memory implementation of block.Repository, used in tests
// and anywhere persistence is not needed.
type Memory struct {
	mu         sync.Mutex
	tasks      map[int64]*block.Task
	blocks     map[int64]*block.Block
	nextTaskID int64
	nextID     int64
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		tasks:      make(map[int64]*block.Task),
		blocks:     make(map[int64]*block.Block),
		nextTaskID: 1,
		nextID:     1,
	}
}

// CreateTask adds a task and assigns it an ID.
func (m *Memory) CreateTask(_ context.Context, t *block.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.ID = m.nextTaskID
	m.nextTaskID++

	cp := *t
	m.tasks[t.ID] = &cp

	return nil
}

// CreateTasks adds multiple tasks.
func (m *Memory) CreateTasks(ctx context.Context, tasks []*block.Task) error {
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %q: %w", t.Title, err)
		}
	}
	for _, t := range tasks {
		if err := m.CreateTask(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// CreateBlock adds a block and assigns it an ID.
func (m *Memory) CreateBlock(_ context.Context, b *block.Block) error {
	if err := b.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.ID = m.nextID
	m.nextID++

	cp := *b
	m.blocks[b.ID] = &cp

	return nil
}

// CreateBlocks adds multiple blocks.
func (m *Memory) CreateBlocks(ctx context.Context, blocks []*block.Block) error {
	for _, b := range blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("block %q: %w", b.Title, err)
		}
	}
	for _, b := range blocks {
		if err := m.CreateBlock(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// GetBlock retrieves a block by ID.
func (m *Memory) GetBlock(_ context.Context, id int64) (*block.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blocks[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", block.ErrBlockNotFound, id)
	}

	cp := *b
	return &cp, nil
}

// ListBlocks returns all blocks ordered by start time.
func (m *Memory) ListBlocks(_ context.Context) ([]*block.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blocks := make([]*block.Block, 0, len(m.blocks))
	for _, b := range m.blocks {
		cp := *b
		blocks = append(blocks, &cp)
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })

	return blocks, nil
}

// ListBlocksForDay returns blocks whose start timestamp falls on the given
// date, ordered by start time.
func (m *Memory) ListBlocksForDay(ctx context.Context, day time.Time) ([]*block.Block, error) {
	all, err := m.ListBlocks(ctx)
	if err != nil {
		return nil, err
	}

	var blocks []*block.Block
	for _, b := range all {
		start, err := block.ParseISO(b.Start)
		if err != nil {
			continue
		}
		if block.SameDay(start, day) {
			blocks = append(blocks, b)
		}
	}

	return blocks, nil
}

// BatchUpdateBlockTimes updates multiple blocks' times atomically.
func (m *Memory) BatchUpdateBlockTimes(_ context.Context, updates []block.TimeUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range updates {
		if _, ok := m.blocks[u.ID]; !ok {
			return fmt.Errorf("%w: id %d", block.ErrBlockNotFound, u.ID)
		}
	}

	for _, u := range updates {
		start, err := block.ParseISO(u.NewStart)
		if err != nil {
			return fmt.Errorf("block %d: %w", u.ID, err)
		}
		end, err := block.ParseISO(u.NewEnd)
		if err != nil {
			return fmt.Errorf("block %d: %w", u.ID, err)
		}
		if !end.After(start) {
			return fmt.Errorf("block %d: %w", u.ID, block.ErrEndBeforeStart)
		}

		b := m.blocks[u.ID]
		b.Start = u.NewStart
		b.End = u.NewEnd
		b.DurationMinutes = block.MinutesBetween(start, end)
	}

	return nil
}

// DeleteBlock removes a block.
func (m *Memory) DeleteBlock(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blocks[id]; !ok {
		return fmt.Errorf("%w: id %d", block.ErrBlockNotFound, id)
	}
	delete(m.blocks, id)

	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }
