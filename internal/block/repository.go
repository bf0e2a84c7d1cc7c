package block

import (
	"context"
	"time"
)

// TimeUpdate represents a block time change for batch updates.
// Start and end are ISO 8601 timestamps.
type TimeUpdate struct {
	ID       int64
	NewStart string
	NewEnd   string
}

// Repository defines the storage interface for tasks and blocks.
type Repository interface {
	// CreateTask adds a new task and sets its ID.
	CreateTask(ctx context.Context, task *Task) error

	// CreateTasks adds multiple tasks in a batch.
	CreateTasks(ctx context.Context, tasks []*Task) error

	// CreateBlock adds a new block and sets its ID.
	CreateBlock(ctx context.Context, b *Block) error

	// CreateBlocks adds multiple blocks in a batch.
	CreateBlocks(ctx context.Context, blocks []*Block) error

	// GetBlock retrieves a block by ID.
	// Returns ErrBlockNotFound if no block has that ID.
	GetBlock(ctx context.Context, id int64) (*Block, error)

	// ListBlocks returns all blocks ordered by start time.
	ListBlocks(ctx context.Context) ([]*Block, error)

	// ListBlocksForDay returns all blocks whose start falls on the given
	// calendar date, ordered by start time.
	ListBlocksForDay(ctx context.Context, day time.Time) ([]*Block, error)

	// BatchUpdateBlockTimes updates multiple blocks' times atomically.
	// Used by the reflow engine so a cascade is applied as one mutation set.
	BatchUpdateBlockTimes(ctx context.Context, updates []TimeUpdate) error

	// DeleteBlock removes a block.
	// Returns ErrBlockNotFound if no block has that ID.
	DeleteBlock(ctx context.Context, id int64) error

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the repository.
	Close() error
}
