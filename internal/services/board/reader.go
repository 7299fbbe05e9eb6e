package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thenoetrevino/boardframe/internal/converters"
	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/models"
)

// ReadOptions configures ReadBoard
type ReadOptions struct {
	BoardID string

	// Columns selects and orders the result columns. Empty keeps all.
	Columns []string

	IncludeSubitems bool

	// Filter keeps rows whose cell text equals every value (AND). Applied
	// before Columns, so it may name columns that are not selected.
	Filter map[string]string

	// MaxResults caps the number of items fetched. Zero means all.
	MaxResults int

	// PageSize is the items_page limit, 1..500. Zero means 100.
	PageSize int

	// Typed decodes numbers, checkboxes, ratings and dates into Go values
	// instead of keeping Monday's display text
	Typed bool

	Progress ProgressFunc
}

// ReadBoard fetches a board's items and returns them as a frame, one row per
// item and, when requested, one row per subitem right after its parent
func (s *service) ReadBoard(ctx context.Context, opts ReadOptions) (*frame.Frame, error) {
	if opts.BoardID == "" {
		return nil, ErrEmptyBoardID
	}

	board, err := s.client.GetBoard(ctx, opts.BoardID)
	if err != nil {
		return nil, err
	}

	items, err := s.fetchItems(ctx, board.ID, normalizePageSize(opts.PageSize), opts.MaxResults, opts.IncludeSubitems, opts.Progress)
	if err != nil {
		return nil, fmt.Errorf("error fetching board data: %w", err)
	}

	b := newRowBuilder(board, opts.IncludeSubitems, opts.Typed)
	for _, item := range items {
		if err := b.addItem(item); err != nil {
			return nil, err
		}
	}
	f := b.frame
	if opts.MaxResults > 0 && f.Len() > opts.MaxResults {
		f = f.Head(opts.MaxResults)
	}

	s.logger.Info("read board", "board_id", board.ID, "items", len(items), "rows", f.Len())

	if len(opts.Filter) > 0 {
		f, err = f.Where(opts.Filter)
		if err != nil {
			return nil, invalidColumnError(err)
		}
	}
	if len(opts.Columns) > 0 {
		f, err = f.Select(opts.Columns...)
		if err != nil {
			return nil, invalidColumnError(err)
		}
	}
	return f, nil
}

func invalidColumnError(err error) error {
	var mc *frame.MissingColumnsError
	if errors.As(err, &mc) {
		return fmt.Errorf("%w: columns not found: %s", ErrInvalidColumn, strings.Join(mc.Columns, ", "))
	}
	return err
}

// rowBuilder turns items into frame rows
type rowBuilder struct {
	board    *models.Board
	titles   map[string]string
	subitems bool
	typed    bool
	frame    *frame.Frame
}

func newRowBuilder(board *models.Board, subitems, typed bool) *rowBuilder {
	cols := []string{models.FieldItemID, models.FieldBoardName, models.FieldGroup, models.FieldName}
	if subitems {
		cols = append(cols, models.FieldIsSubitem, models.FieldSubitemName)
	}
	f, _ := frame.New(cols...)

	titles := make(map[string]string, len(board.Columns))
	for _, c := range board.Columns {
		if skipColumn(c.Type, c.Title) {
			continue
		}
		titles[c.ID] = c.Title
		if f.HasColumn(c.Title) {
			continue
		}
		_ = f.AddColumn(c.Title)
	}
	return &rowBuilder{board: board, titles: titles, subitems: subitems, typed: typed, frame: f}
}

// skipColumn reports whether a board column never becomes a frame column:
// the name column is the name field and subitems are rows, not cells
func skipColumn(t models.ColumnType, title string) bool {
	return t == models.ColumnTypeName || t == models.ColumnTypeSubtasks || title == models.SubitemsColumnTitle
}

func (b *rowBuilder) addItem(item *models.Item) error {
	group := ""
	if item.Group != nil {
		group = item.Group.Title
	}

	keys := []string{models.FieldItemID, models.FieldBoardName, models.FieldGroup, models.FieldName}
	values := []any{item.ID, b.board.Name, group, item.Name}
	if b.subitems {
		keys = append(keys, models.FieldIsSubitem, models.FieldSubitemName)
		values = append(values, false, nil)
	}
	if err := b.appendCells(&keys, &values, item.ColumnValues, true); err != nil {
		return err
	}
	b.frame.AppendOrderedRecord(keys, values)

	if !b.subitems {
		return nil
	}
	for _, sub := range item.Subitems {
		keys := []string{models.FieldItemID, models.FieldBoardName, models.FieldGroup, models.FieldName, models.FieldIsSubitem, models.FieldSubitemName}
		values := []any{sub.ID, b.board.Name, group, item.Name, true, sub.Name}
		if err := b.appendCells(&keys, &values, sub.ColumnValues, false); err != nil {
			return err
		}
		b.frame.AppendOrderedRecord(keys, values)
	}
	return nil
}

// appendCells adds one key/value per column value. Board columns are titled
// from the board metadata; subitem columns carry their own titles. Columns
// whose title collides with a reserved field are left out.
func (b *rowBuilder) appendCells(keys *[]string, values *[]any, cvs []*models.ColumnValue, onBoard bool) error {
	for _, cv := range cvs {
		if skipColumn(cv.Type, "") {
			continue
		}
		title := ""
		if onBoard {
			title = b.titles[cv.ID]
		}
		if title == "" && cv.Column != nil {
			title = cv.Column.Title
		}
		if title == "" {
			title = cv.ID
		}
		if title == models.SubitemsColumnTitle || models.IsReservedField(title) {
			continue
		}

		v, err := b.cellValue(cv)
		if err != nil {
			return fmt.Errorf("column %q: %w", title, err)
		}
		*keys = append(*keys, title)
		*values = append(*values, v)
	}
	return nil
}

func (b *rowBuilder) cellValue(cv *models.ColumnValue) (any, error) {
	if b.typed {
		return converters.Decode(cv.Type, cv.DisplayText(), cv.Value)
	}
	if text := cv.DisplayText(); text != "" {
		return text, nil
	}
	return nil, nil
}
