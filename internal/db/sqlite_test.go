package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/arveiter/blockplan/internal/block"
)

func TestCreateBlock(t *testing.T) {
	repo := newTestRepo(t)

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	end := start.Add(90 * time.Minute)

	b, err := block.New("Write report", block.CategoryWork, start, end, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := repo.CreateBlock(context.Background(), b); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}

	if b.ID == 0 {
		t.Error("expected ID to be set after insert")
	}
}

func TestGetBlock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)

	original, err := block.New("Review PRs", block.CategoryWork, start, end, true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.CreateBlock(ctx, original); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}

	got, err := repo.GetBlock(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}

	if got.ID != original.ID {
		t.Errorf("ID: got %d, want %d", got.ID, original.ID)
	}
	if got.Title != original.Title {
		t.Errorf("Title: got %q, want %q", got.Title, original.Title)
	}
	if got.Category != original.Category {
		t.Errorf("Category: got %q, want %q", got.Category, original.Category)
	}
	if got.Start != original.Start {
		t.Errorf("Start: got %q, want %q", got.Start, original.Start)
	}
	if got.End != original.End {
		t.Errorf("End: got %q, want %q", got.End, original.End)
	}
	if got.DurationMinutes != 60 {
		t.Errorf("DurationMinutes: got %d, want 60", got.DurationMinutes)
	}
	if !got.Fixed {
		t.Error("expected Fixed to be true")
	}
}

func TestGetBlock_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetBlock(context.Background(), 9999)
	if !errors.Is(err, block.ErrBlockNotFound) {
		t.Errorf("expected ErrBlockNotFound, got: %v", err)
	}
}

func TestGetBlock_UncategorizedRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	b, err := block.New("Something vague", "", start, start.Add(30*time.Minute), false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.CreateBlock(ctx, b); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}

	got, err := repo.GetBlock(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if got.Category != "" {
		t.Errorf("expected empty category, got %q", got.Category)
	}
	if got.TaskID != nil {
		t.Errorf("expected nil TaskID, got %v", got.TaskID)
	}
}

func TestCreateBlocks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	blocks := make([]*block.Block, 0, 3)
	for i, clock := range []int{9, 11, 14} {
		start := day.Add(time.Duration(clock) * time.Hour)
		b, err := block.New("Batch "+string(rune('A'+i)), block.CategoryWork, start, start.Add(time.Hour), false)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		blocks = append(blocks, b)
	}

	if err := repo.CreateBlocks(ctx, blocks); err != nil {
		t.Fatalf("CreateBlocks failed: %v", err)
	}

	for i, b := range blocks {
		if b.ID == 0 {
			t.Errorf("block %d: expected ID to be set", i)
		}
	}

	if blocks[1].ID != blocks[0].ID+1 || blocks[2].ID != blocks[1].ID+1 {
		t.Errorf("expected sequential IDs, got %d, %d, %d", blocks[0].ID, blocks[1].ID, blocks[2].ID)
	}
}

func TestCreateBlocks_Empty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateBlocks(ctx, nil); err != nil {
		t.Fatalf("CreateBlocks with nil slice should succeed, got: %v", err)
	}
	if err := repo.CreateBlocks(ctx, []*block.Block{}); err != nil {
		t.Fatalf("CreateBlocks with empty slice should succeed, got: %v", err)
	}
}

func TestCreateTask_LinkedBlock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tsk := &block.Task{
		Title:           "Prepare presentation",
		Note:            "prepare presentation 2 stunden",
		Category:        block.CategoryWork,
		DurationMinutes: 120,
		Status:          block.StatusPlanned,
	}
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if tsk.ID == 0 {
		t.Fatal("expected task ID to be set after insert")
	}

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	b, err := block.New("Prepare presentation - step 1", block.CategoryWork, start, start.Add(time.Hour), false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b.TaskID = &tsk.ID

	if err := repo.CreateBlock(ctx, b); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}

	got, err := repo.GetBlock(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if got.TaskID == nil || *got.TaskID != tsk.ID {
		t.Errorf("TaskID: got %v, want %d", got.TaskID, tsk.ID)
	}
}

func TestListBlocksForDay(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mar10 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	mar11 := mar10.AddDate(0, 0, 1)

	entries := []struct {
		title string
		start time.Time
	}{
		{"Afternoon on the 10th", mar10.Add(14 * time.Hour)},
		{"Morning on the 10th", mar10.Add(9 * time.Hour)},
		{"Morning on the 11th", mar11.Add(9 * time.Hour)},
	}
	for _, e := range entries {
		b, err := block.New(e.title, "", e.start, e.start.Add(time.Hour), false)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if err := repo.CreateBlock(ctx, b); err != nil {
			t.Fatalf("CreateBlock failed: %v", err)
		}
	}

	got, err := repo.ListBlocksForDay(ctx, mar10)
	if err != nil {
		t.Fatalf("ListBlocksForDay failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(got))
	}
	if got[0].Title != "Morning on the 10th" {
		t.Errorf("expected first block to be the morning one, got %q", got[0].Title)
	}
	if got[1].Title != "Afternoon on the 10th" {
		t.Errorf("expected second block to be the afternoon one, got %q", got[1].Title)
	}
}

func TestListBlocksForDay_Empty(t *testing.T) {
	repo := newTestRepo(t)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	got, err := repo.ListBlocksForDay(context.Background(), day)
	if err != nil {
		t.Fatalf("ListBlocksForDay failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 blocks, got %d", len(got))
	}
}

func TestBatchUpdateBlockTimes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	first, err := block.New("First", block.CategoryWork, day.Add(9*time.Hour), day.Add(10*time.Hour), false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	second, err := block.New("Second", block.CategoryWork, day.Add(10*time.Hour), day.Add(11*time.Hour), false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.CreateBlocks(ctx, []*block.Block{first, second}); err != nil {
		t.Fatalf("CreateBlocks failed: %v", err)
	}

	updates := []block.TimeUpdate{
		{ID: first.ID, NewStart: block.FormatISO(day.Add(9 * time.Hour)), NewEnd: block.FormatISO(day.Add(10*time.Hour + 30*time.Minute))},
		{ID: second.ID, NewStart: block.FormatISO(day.Add(10*time.Hour + 30*time.Minute)), NewEnd: block.FormatISO(day.Add(11*time.Hour + 30*time.Minute))},
	}
	if err := repo.BatchUpdateBlockTimes(ctx, updates); err != nil {
		t.Fatalf("BatchUpdateBlockTimes failed: %v", err)
	}

	got, err := repo.GetBlock(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if got.End != updates[0].NewEnd {
		t.Errorf("End: got %q, want %q", got.End, updates[0].NewEnd)
	}
	if got.DurationMinutes != 90 {
		t.Errorf("DurationMinutes: got %d, want 90", got.DurationMinutes)
	}

	got, err = repo.GetBlock(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if got.Start != updates[1].NewStart {
		t.Errorf("Start: got %q, want %q", got.Start, updates[1].NewStart)
	}
	if got.DurationMinutes != 60 {
		t.Errorf("DurationMinutes: got %d, want 60", got.DurationMinutes)
	}
}

func TestBatchUpdateBlockTimes_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	b, err := block.New("Survivor", "", day.Add(9*time.Hour), day.Add(10*time.Hour), false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.CreateBlock(ctx, b); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}

	updates := []block.TimeUpdate{
		{ID: b.ID, NewStart: block.FormatISO(day.Add(11 * time.Hour)), NewEnd: block.FormatISO(day.Add(12 * time.Hour))},
		{ID: 9999, NewStart: block.FormatISO(day.Add(12 * time.Hour)), NewEnd: block.FormatISO(day.Add(13 * time.Hour))},
	}
	err = repo.BatchUpdateBlockTimes(ctx, updates)
	if !errors.Is(err, block.ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got: %v", err)
	}

	// Transaction rolled back, so the first block keeps its original times.
	got, err := repo.GetBlock(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if got.Start != b.Start {
		t.Errorf("block should be unchanged, got start %q", got.Start)
	}
}

func TestBatchUpdateBlockTimes_InvalidInterval(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	b, err := block.New("Block", "", day.Add(9*time.Hour), day.Add(10*time.Hour), false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.CreateBlock(ctx, b); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}

	updates := []block.TimeUpdate{
		{ID: b.ID, NewStart: block.FormatISO(day.Add(10 * time.Hour)), NewEnd: block.FormatISO(day.Add(9 * time.Hour))},
	}
	err = repo.BatchUpdateBlockTimes(ctx, updates)
	if !errors.Is(err, block.ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got: %v", err)
	}
}

func TestDeleteBlock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	b, err := block.New("Short lived", "", day.Add(9*time.Hour), day.Add(10*time.Hour), false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.CreateBlock(ctx, b); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}

	if err := repo.DeleteBlock(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBlock failed: %v", err)
	}

	_, err = repo.GetBlock(ctx, b.ID)
	if !errors.Is(err, block.ErrBlockNotFound) {
		t.Errorf("expected ErrBlockNotFound after delete, got: %v", err)
	}
}

func TestDeleteBlock_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.DeleteBlock(context.Background(), 9999)
	if !errors.Is(err, block.ErrBlockNotFound) {
		t.Errorf("expected ErrBlockNotFound, got: %v", err)
	}
}

// newTestRepo creates a temporary SQLite repository for testing.
func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
