// Package snapshot keeps local copies of board frames in the sqlite store.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/thenoetrevino/boardframe/internal/database"
	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/models"
)

// Service defines snapshot operations
type Service interface {
	Save(ctx context.Context, in SaveInput, f *frame.Frame) (*models.Snapshot, error)
	List(ctx context.Context, boardID string) ([]*models.Snapshot, error)
	Load(ctx context.Context, id string) (*models.Snapshot, *frame.Frame, error)
	Delete(ctx context.Context, id string) error
}

// SaveInput describes where a frame came from
type SaveInput struct {
	BoardID   string
	BoardName string
	Label     string
}

// repository defines the data access needed by the snapshot service
// This interface is private to the service layer
type repository interface {
	CreateSnapshot(ctx context.Context, snap *models.Snapshot, rows []json.RawMessage) error
	GetSnapshot(ctx context.Context, id string) (*models.Snapshot, error)
	ListSnapshots(ctx context.Context, boardID string) ([]*models.Snapshot, error)
	GetSnapshotRows(ctx context.Context, id string) ([]json.RawMessage, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

type service struct {
	repo   repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new snapshot service. A nil logger uses slog.Default().
func NewService(repo repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Save stores a copy of f. Rows are kept as JSON arrays aligned with the
// frame's columns, so values come back as JSON types on Load: integers as
// int64, times as RFC 3339 strings.
func (s *service) Save(ctx context.Context, in SaveInput, f *frame.Frame) (*models.Snapshot, error) {
	if in.BoardID == "" {
		return nil, ErrEmptyBoardID
	}
	if f == nil {
		return nil, ErrNilFrame
	}

	columns := f.Columns()
	rows := make([]json.RawMessage, f.Len())
	for i := range rows {
		row := f.Row(i)
		values := make([]any, len(columns))
		for j, col := range columns {
			values[j] = row.Get(col)
		}
		data, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		rows[i] = data
	}

	snap := &models.Snapshot{
		ID:        uuid.NewString(),
		BoardID:   in.BoardID,
		BoardName: in.BoardName,
		Label:     in.Label,
		Columns:   columns,
		RowCount:  len(rows),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateSnapshot(ctx, snap, rows); err != nil {
		return nil, err
	}

	s.logger.Info("snapshot saved", "id", snap.ID, "board_id", snap.BoardID, "rows", snap.RowCount)
	return snap, nil
}

// List returns snapshots newest first. An empty boardID lists all boards.
func (s *service) List(ctx context.Context, boardID string) ([]*models.Snapshot, error) {
	return s.repo.ListSnapshots(ctx, boardID)
}

// Load returns a snapshot and its rebuilt frame
func (s *service) Load(ctx context.Context, id string) (*models.Snapshot, *frame.Frame, error) {
	if id == "" {
		return nil, nil, ErrInvalidSnapshotID
	}

	snap, err := s.repo.GetSnapshot(ctx, id)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}

	rows, err := s.repo.GetSnapshotRows(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	f, err := frame.New(snap.Columns...)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot %s has invalid columns: %w", id, err)
	}
	for i, data := range rows {
		values, err := frame.DecodeRow(data)
		if err != nil {
			return nil, nil, fmt.Errorf("snapshot %s row %d: %w", id, i, err)
		}
		if err := f.AppendRow(values...); err != nil {
			return nil, nil, fmt.Errorf("snapshot %s row %d: %w", id, i, err)
		}
	}
	return snap, f, nil
}

// Delete removes a snapshot
func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidSnapshotID
	}
	if err := s.repo.DeleteSnapshot(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.logger.Info("snapshot deleted", "id", id)
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrSnapshotNotFound, err)
	}
	return err
}
