package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are single statements applied in order; index+1 is the schema version
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		board_id TEXT NOT NULL,
		board_name TEXT NOT NULL DEFAULT '',
		label TEXT NOT NULL DEFAULT '',
		columns TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_board ON snapshots(board_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS snapshot_rows (
		snapshot_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, position),
		FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
	)`,
}

// Migrate brings the schema up to date, tracking the version in PRAGMA user_version
func Migrate(ctx context.Context, db *sql.DB) error {
	version, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for i := version; i < len(migrations); i++ {
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
				return err
			}
			return setSchemaVersion(ctx, tx, i+1)
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
