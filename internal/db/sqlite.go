// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/arveiter/blockplan/internal/block"
	"github.com/arveiter/blockplan/internal/dateutil"
)

// SQLite implements block.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateTask adds a new task to the repository and sets its ID.
func (s *SQLite) CreateTask(ctx context.Context, t *block.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tasks (title, note, category, duration_minutes, priority, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		t.Title,
		nullString(t.Note),
		nullString(string(t.Category)),
		t.DurationMinutes,
		nullIntPtr(t.Priority),
		t.Status,
		t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	t.ID = id

	return nil
}

// CreateTasks adds multiple tasks in a batch using a transaction.
func (s *SQLite) CreateTasks(ctx context.Context, tasks []*block.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %q: %w", t.Title, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO tasks (title, note, category, duration_minutes, priority, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range tasks {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		result, err := stmt.ExecContext(ctx,
			t.Title,
			nullString(t.Note),
			nullString(string(t.Category)),
			t.DurationMinutes,
			nullIntPtr(t.Priority),
			t.Status,
			t.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting task %q: %w", t.Title, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		t.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// CreateBlock adds a new block to the repository and sets its ID.
func (s *SQLite) CreateBlock(ctx context.Context, b *block.Block) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO blocks (title, category, start_iso, end_iso, duration_minutes, status, fixed, task_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		b.Title,
		nullString(string(b.Category)),
		b.Start,
		b.End,
		b.DurationMinutes,
		b.Status,
		b.Fixed,
		nullIntPtr64(b.TaskID),
		b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting block: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	b.ID = id

	return nil
}

// CreateBlocks adds multiple blocks in a batch using a transaction.
func (s *SQLite) CreateBlocks(ctx context.Context, blocks []*block.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	for _, b := range blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("block %q: %w", b.Title, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO blocks (title, category, start_iso, end_iso, duration_minutes, status, fixed, task_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range blocks {
		if b.CreatedAt.IsZero() {
			b.CreatedAt = time.Now()
		}
		result, err := stmt.ExecContext(ctx,
			b.Title,
			nullString(string(b.Category)),
			b.Start,
			b.End,
			b.DurationMinutes,
			b.Status,
			b.Fixed,
			nullIntPtr64(b.TaskID),
			b.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting block %q: %w", b.Title, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		b.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

const blockColumns = `id, title, category, start_iso, end_iso, duration_minutes, status, fixed, task_id, created_at`

// GetBlock retrieves a block by ID.
func (s *SQLite) GetBlock(ctx context.Context, id int64) (*block.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE id = ?`

	b, err := scanBlock(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", block.ErrBlockNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying block: %w", err)
	}
	return b, nil
}

// ListBlocks returns all blocks ordered by start time.
func (s *SQLite) ListBlocks(ctx context.Context) ([]*block.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks ORDER BY start_iso`
	return s.queryBlocks(ctx, query)
}

// ListBlocksForDay returns all blocks whose start falls on the given date,
// ordered by start time. ISO timestamps sort lexicographically, so the day
// filter is a plain range scan on the start column.
func (s *SQLite) ListBlocksForDay(ctx context.Context, day time.Time) ([]*block.Block, error) {
	dayStart, dayEnd := dateutil.DayBounds(day)
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE start_iso >= ? AND start_iso < ? ORDER BY start_iso`
	return s.queryBlocks(ctx, query, block.FormatISO(dayStart), block.FormatISO(dayEnd))
}

func (s *SQLite) queryBlocks(ctx context.Context, query string, args ...any) ([]*block.Block, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []*block.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}

	return blocks, nil
}

// BatchUpdateBlockTimes updates multiple blocks' times in one transaction.
// The stored duration is recomputed from the new endpoints so the redundant
// field stays consistent.
func (s *SQLite) BatchUpdateBlockTimes(ctx context.Context, updates []block.TimeUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `UPDATE blocks SET start_iso = ?, end_iso = ?, duration_minutes = ? WHERE id = ?`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

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

		result, err := stmt.ExecContext(ctx, u.NewStart, u.NewEnd, block.MinutesBetween(start, end), u.ID)
		if err != nil {
			return fmt.Errorf("updating block %d: %w", u.ID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("%w: id %d", block.ErrBlockNotFound, u.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// DeleteBlock removes a block.
func (s *SQLite) DeleteBlock(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting block: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: id %d", block.ErrBlockNotFound, id)
	}

	return nil
}

// Ping reports whether the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBlock(row scannable) (*block.Block, error) {
	var (
		b         block.Block
		category  sql.NullString
		taskID    sql.NullInt64
		createdAt string
	)

	err := row.Scan(
		&b.ID,
		&b.Title,
		&category,
		&b.Start,
		&b.End,
		&b.DurationMinutes,
		&b.Status,
		&b.Fixed,
		&taskID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		b.Category = block.Category(category.String)
	}
	if taskID.Valid {
		b.TaskID = &taskID.Int64
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		b.CreatedAt = t
	}

	return &b, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIntPtr(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullIntPtr64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
