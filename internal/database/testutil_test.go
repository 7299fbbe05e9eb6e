package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/thenoetrevino/boardframe/internal/models"
	_ "modernc.org/sqlite"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database and runs migrations
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	// every connection to :memory: is a fresh database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// createTestSnapshot stores a snapshot with the given rows
func createTestSnapshot(t *testing.T, repo *SnapshotRepo, id, boardID string, created time.Time, rows ...string) *models.Snapshot {
	t.Helper()
	snap := &models.Snapshot{
		ID:        id,
		BoardID:   boardID,
		BoardName: "Board " + boardID,
		Columns:   []string{"name", "Status"},
		CreatedAt: created,
	}
	raw := make([]json.RawMessage, len(rows))
	for i, r := range rows {
		raw[i] = json.RawMessage(r)
	}
	if err := repo.CreateSnapshot(context.Background(), snap, raw); err != nil {
		t.Fatalf("Failed to create snapshot: %v", err)
	}
	return snap
}
