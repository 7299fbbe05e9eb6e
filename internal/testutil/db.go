package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/thenoetrevino/boardframe/internal/database"
	_ "modernc.org/sqlite"
)

// SetupTestDB creates an in-memory database with the full snapshot schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// SetupTestRepository returns a repository over a fresh in-memory database
func SetupTestRepository(t *testing.T) *database.SnapshotRepo {
	t.Helper()
	return database.NewSnapshotRepo(SetupTestDB(t))
}
