package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func setupService(t *testing.T) *service {
	t.Helper()
	svc := NewService(testutil.SetupTestRepository(t), nil).(*service)
	return svc
}

func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New("group", "name", "Status", "Number", "Done")
	if err != nil {
		t.Fatalf("Failed to create frame: %v", err)
	}
	rows := [][]any{
		{"Todo", "Task 1", "Working on it", int64(3), true},
		{"Todo", "Task 2", nil, 2.5, false},
	}
	for _, r := range rows {
		if err := f.AppendRow(r...); err != nil {
			t.Fatalf("Failed to append row: %v", err)
		}
	}
	return f
}

// ============================================================================
// SAVE / LOAD
// ============================================================================

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	snap, err := svc.Save(ctx, SaveInput{BoardID: "123", BoardName: "Roadmap", Label: "before import"}, sampleFrame(t))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if snap.ID == "" {
		t.Fatal("Expected a generated snapshot ID")
	}
	if snap.RowCount != 2 {
		t.Errorf("Expected row count 2, got %d", snap.RowCount)
	}

	loaded, f, err := svc.Load(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Label != "before import" || loaded.BoardName != "Roadmap" {
		t.Errorf("Unexpected metadata: %+v", loaded)
	}

	want := sampleFrame(t).Records()
	if diff := cmp.Diff(want, f.Records()); diff != "" {
		t.Errorf("Loaded frame mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(sampleFrame(t).Columns(), f.Columns()); diff != "" {
		t.Errorf("Column order mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_TimesBecomeStrings(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	f, _ := frame.New("name", "Due")
	_ = f.AppendRow("Task", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	snap, err := svc.Save(ctx, SaveInput{BoardID: "1"}, f)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	_, loaded, err := svc.Load(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, _ := loaded.Value(0, "Due")
	if got != "2026-05-01T00:00:00Z" {
		t.Errorf("Expected RFC 3339 string, got %#v", got)
	}
}

func TestSave_Validation(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	if _, err := svc.Save(ctx, SaveInput{}, sampleFrame(t)); !errors.Is(err, ErrEmptyBoardID) {
		t.Errorf("Expected ErrEmptyBoardID, got %v", err)
	}
	if _, err := svc.Save(ctx, SaveInput{BoardID: "1"}, nil); !errors.Is(err, ErrNilFrame) {
		t.Errorf("Expected ErrNilFrame, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	if _, _, err := svc.Load(ctx, ""); !errors.Is(err, ErrInvalidSnapshotID) {
		t.Errorf("Expected ErrInvalidSnapshotID, got %v", err)
	}
	if _, _, err := svc.Load(ctx, "missing"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
}

// ============================================================================
// LIST / DELETE
// ============================================================================

func TestListAndDelete(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first, err := svc.Save(ctx, SaveInput{BoardID: "1"}, sampleFrame(t))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second, err := svc.Save(ctx, SaveInput{BoardID: "1"}, sampleFrame(t))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := svc.Save(ctx, SaveInput{BoardID: "2"}, sampleFrame(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	snaps, err := svc.List(ctx, "1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snaps) != 2 || snaps[0].ID != second.ID || snaps[1].ID != first.ID {
		t.Fatalf("Expected newest first for board 1, got %d snapshots", len(snaps))
	}

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, first.ID); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, ""); !errors.Is(err, ErrInvalidSnapshotID) {
		t.Errorf("Expected ErrInvalidSnapshotID, got %v", err)
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 snapshots after delete, got %d", len(all))
	}
}
