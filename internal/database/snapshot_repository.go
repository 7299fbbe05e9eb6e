package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/boardframe/internal/models"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("not found")

// SnapshotRepo handles all snapshot-related database operations.
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo returns a repository over db. The schema must be migrated.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// CreateSnapshot stores a snapshot and its rows in one transaction. Each row
// is a JSON array aligned with the snapshot's columns.
func (r *SnapshotRepo) CreateSnapshot(ctx context.Context, snap *models.Snapshot, rows []json.RawMessage) error {
	columns, err := json.Marshal(snap.Columns)
	if err != nil {
		return fmt.Errorf("failed to encode columns: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (id, board_id, board_name, label, columns, row_count, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			snap.ID, snap.BoardID, snap.BoardName, snap.Label, string(columns), len(rows), snap.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot %s: %w", snap.ID, err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_rows (snapshot_id, position, data) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare row insert: %w", err)
		}
		defer stmt.Close()

		for i, row := range rows {
			if _, err := stmt.ExecContext(ctx, snap.ID, i, string(row)); err != nil {
				return fmt.Errorf("failed to insert row %d of snapshot %s: %w", i, snap.ID, err)
			}
		}
		return nil
	})
}

const snapshotColumns = `id, board_id, board_name, label, columns, row_count, created_at`

func scanSnapshot(scan func(dest ...any) error) (*models.Snapshot, error) {
	var (
		snap    models.Snapshot
		columns string
		created time.Time
	)
	if err := scan(&snap.ID, &snap.BoardID, &snap.BoardName, &snap.Label, &columns, &snap.RowCount, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(columns), &snap.Columns); err != nil {
		return nil, fmt.Errorf("failed to decode columns of snapshot %s: %w", snap.ID, err)
	}
	snap.CreatedAt = created
	return &snap, nil
}

// GetSnapshot retrieves a snapshot's metadata
func (r *SnapshotRepo) GetSnapshot(ctx context.Context, id string) (*models.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", id, err)
	}
	return snap, nil
}

// ListSnapshots returns snapshots newest first. An empty boardID lists every board.
func (r *SnapshotRepo) ListSnapshots(ctx context.Context, boardID string) ([]*models.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots`
	var args []any
	if boardID != "" {
		query += ` WHERE board_id = ?`
		args = append(args, boardID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*models.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// GetSnapshotRows returns a snapshot's rows in their original order
func (r *SnapshotRepo) GetSnapshotRows(ctx context.Context, id string) ([]json.RawMessage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM snapshot_rows WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of snapshot %s: %w", id, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		out = append(out, json.RawMessage(data))
	}
	return out, rows.Err()
}

// DeleteSnapshot removes a snapshot and, through the foreign key, its rows
func (r *SnapshotRepo) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	return requireAffected(result, "snapshot "+id)
}
