package board

import (
	"context"
	"log/slog"

	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/models"
	"github.com/thenoetrevino/boardframe/internal/monday"
)

// Service defines the board operations: reading a board into a frame and
// writing a frame back to a board
type Service interface {
	// Read operations
	ReadBoard(ctx context.Context, opts ReadOptions) (*frame.Frame, error)
	DescribeBoard(ctx context.Context, boardID string) (*models.Board, error)

	// Write operations
	WriteBoard(ctx context.Context, f *frame.Frame, opts WriteOptions) (*WriteResult, error)
}

// Progress reports how far a read or write has got. Total is zero when unknown.
type Progress struct {
	Stage string
	Done  int
	Total int
}

// ProgressFunc receives progress updates. It may be called from several goroutines
// but never concurrently.
type ProgressFunc func(Progress)

// Progress stages
const (
	StageFetch  = "fetch"
	StageRemove = "remove"
	StageWrite  = "write"
)

// api defines the Monday.com calls needed by the board service
// This interface is private to the service layer
type api interface {
	GetBoard(ctx context.Context, boardID string) (*models.Board, error)
	ItemsPage(ctx context.Context, boardID string, limit int, withSubitems bool) (*monday.ItemsPage, error)
	NextItemsPage(ctx context.Context, cursor string, limit int, withSubitems bool) (*monday.ItemsPage, error)

	CreateItem(ctx context.Context, in monday.CreateItemInput) (string, error)
	CreateSubitem(ctx context.Context, parentID, name string, columnValues map[string]any, createLabels bool) (string, error)
	ChangeColumnValues(ctx context.Context, boardID, itemID string, columnValues map[string]any, createLabels bool) error
	DeleteItem(ctx context.Context, itemID string) error
	ArchiveItem(ctx context.Context, itemID string) error

	CreateBoard(ctx context.Context, name, kind, workspaceID string) (*models.Board, error)
	CreateColumn(ctx context.Context, boardID, title string, colType models.ColumnType) (*models.Column, error)
	CreateGroup(ctx context.Context, boardID, name string) (*models.Group, error)
}

// service implements Service interface with a private API client
type service struct {
	client api
	logger *slog.Logger
}

// NewService creates a new board service. A nil logger uses slog.Default().
func NewService(client api, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		client: client,
		logger: logger,
	}
}

// DescribeBoard returns a board's columns and groups
func (s *service) DescribeBoard(ctx context.Context, boardID string) (*models.Board, error) {
	if boardID == "" {
		return nil, ErrEmptyBoardID
	}
	return s.client.GetBoard(ctx, boardID)
}

// fetchItems pages through a board's items. maxItems limits the number of
// top-level items fetched; zero means all.
func (s *service) fetchItems(ctx context.Context, boardID string, pageSize, maxItems int, withSubitems bool, progress ProgressFunc) ([]*models.Item, error) {
	limitFor := func(fetched int) int {
		if maxItems > 0 {
			return min(pageSize, maxItems-fetched)
		}
		return pageSize
	}

	page, err := s.client.ItemsPage(ctx, boardID, limitFor(0), withSubitems)
	if err != nil {
		return nil, err
	}

	var items []*models.Item
	for {
		items = append(items, page.Items...)
		if progress != nil {
			progress(Progress{Stage: StageFetch, Done: len(items)})
		}
		s.logger.Debug("fetched items page", "board_id", boardID, "items", len(page.Items), "total", len(items))

		if page.Cursor == "" || len(page.Items) == 0 || (maxItems > 0 && len(items) >= maxItems) {
			break
		}
		page, err = s.client.NextItemsPage(ctx, page.Cursor, limitFor(len(items)), withSubitems)
		if err != nil {
			return nil, err
		}
	}

	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, nil
}

func normalizePageSize(n int) int {
	switch {
	case n <= 0:
		return models.DefaultPageSize
	case n > models.MaxPageSize:
		return models.MaxPageSize
	}
	return n
}
