package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/thenoetrevino/boardframe/internal/converters"
	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/models"
	"github.com/thenoetrevino/boardframe/internal/monday"
	"golang.org/x/sync/errgroup"
)

// Mode decides what happens to the items already on the board
type Mode string

const (
	ModeAppend  Mode = "append"
	ModeReplace Mode = "replace"
	ModeUpsert  Mode = "upsert"
)

// OverwriteType decides how replace mode removes existing items
type OverwriteType string

const (
	OverwriteDelete  OverwriteType = "delete"
	OverwriteArchive OverwriteType = "archive"
)

// UpdateMethod decides how upsert mode matches rows to existing items
type UpdateMethod string

const (
	UpdateByName UpdateMethod = "name"
	UpdateByID   UpdateMethod = "id"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case ModeAppend, ModeReplace, ModeUpsert:
		return m, nil
	}
	return "", fmt.Errorf("%w, got %q", ErrInvalidMode, s)
}

// ParseOverwriteType validates an overwrite type name
func ParseOverwriteType(s string) (OverwriteType, error) {
	switch o := OverwriteType(strings.ToLower(s)); o {
	case OverwriteDelete, OverwriteArchive:
		return o, nil
	}
	return "", fmt.Errorf("%w, got %q", ErrInvalidOverwriteType, s)
}

// ParseUpdateMethod validates an update method name
func ParseUpdateMethod(s string) (UpdateMethod, error) {
	switch u := UpdateMethod(strings.ToLower(s)); u {
	case UpdateByName, UpdateByID:
		return u, nil
	}
	return "", fmt.Errorf("%w, got %q", ErrInvalidUpdateMethod, s)
}

// WriteOptions configures WriteBoard
type WriteOptions struct {
	// Exactly one of BoardID and BoardName. BoardName creates a new board.
	BoardID     string
	BoardName   string
	WorkspaceID string
	BoardKind   string

	Mode          Mode
	OverwriteType OverwriteType
	UpdateMethod  UpdateMethod

	// GroupID puts every new item in this group, ignoring the group field
	GroupID string

	// NameColumn is the frame column holding item names. Defaults to "name".
	NameColumn string

	// ColumnTypes overrides type inference when a new board's columns are created
	ColumnTypes map[string]models.ColumnType

	CreateLabelsIfMissing bool
	CreateMissingGroups   bool

	// ChunkSize is the number of rows written per batch. Zero writes all rows as one batch.
	ChunkSize int

	// Concurrency is the number of mutations in flight within a batch. Defaults to 1.
	Concurrency int

	DryRun   bool
	Progress ProgressFunc
}

// OperationKind names a planned mutation
type OperationKind string

const (
	OpCreate        OperationKind = "create"
	OpCreateSubitem OperationKind = "create_subitem"
	OpUpdate        OperationKind = "update"
	OpRemove        OperationKind = "remove"
)

// Operation is one mutation WriteBoard performs or, in a dry run, would perform.
// Row is -1 for removals of existing items.
type Operation struct {
	Kind         OperationKind  `json:"kind"`
	Row          int            `json:"row"`
	Name         string         `json:"name,omitempty"`
	ItemID       string         `json:"item_id,omitempty"`
	GroupID      string         `json:"group_id,omitempty"`
	ColumnValues map[string]any `json:"column_values,omitempty"`
}

// WriteResult summarises a write
type WriteResult struct {
	RunID   string   `json:"run_id"`
	BoardID string   `json:"board_id"`
	Created []string `json:"created"`
	Updated []string `json:"updated"`
	Removed []string `json:"removed"`

	// Skipped lists frame columns that were not written (read-only board columns)
	Skipped []string `json:"skipped"`

	// Unsupported lists frame columns whose board column type boardframe cannot write
	Unsupported []string `json:"unsupported"`

	// SkippedCells lists cells holding display text the API cannot accept
	// back, such as people names or tag labels. Their rows are still written.
	SkippedCells []SkippedCell `json:"skipped_cells"`

	// ItemIDs holds the item written for each frame row, in row order
	ItemIDs []string `json:"item_ids"`

	DryRun  bool        `json:"dry_run"`
	Planned []Operation `json:"planned,omitempty"`
}

// SkippedCell is a single frame cell left out of a write
type SkippedCell struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// plan is the validated, encoded form of a frame
type plan struct {
	rows        []*plannedRow
	skipped     []string
	unsupported []string
	cells       []SkippedCell
}

// plannedRow is a validated, encoded frame row
type plannedRow struct {
	index      int
	name       string
	values     map[string]any
	groupID    string
	groupTitle string
	subitem    bool
	parent     int
	itemID     string
	rename     bool

	op     OperationKind
	target string
}

// WriteBoard writes the frame's rows to a board. Every row is validated and
// encoded before the first mutation is sent.
func (s *service) WriteBoard(ctx context.Context, f *frame.Frame, opts WriteOptions) (*WriteResult, error) {
	explicitName := opts.NameColumn != ""
	opts, err := normalizeWriteOptions(opts)
	if err != nil {
		return nil, err
	}
	if f == nil || f.Width() == 0 {
		return nil, ErrEmptyFrame
	}

	result := &WriteResult{RunID: uuid.NewString(), DryRun: opts.DryRun}
	logger := s.logger.With("run_id", result.RunID)

	board, created, err := s.resolveBoard(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	result.BoardID = board.ID

	var subBoard *models.Board
	if hasSubitemRows(f) && !created {
		subBoard = s.subitemBoard(ctx, board, logger)
	}

	p, err := buildPlan(board, subBoard, f, opts, explicitName)
	if err != nil {
		return nil, err
	}
	rows := p.rows
	result.Skipped = p.skipped
	result.Unsupported = p.unsupported
	result.SkippedCells = p.cells
	for _, col := range p.skipped {
		logger.Warn("skipping read-only column", "column", col)
	}
	for _, col := range p.unsupported {
		logger.Warn("skipping column of unsupported type", "column", col)
	}
	for _, c := range p.cells {
		logger.Warn("skipping display-text cell", "row", c.Row, "column", c.Column, "reason", c.Reason)
	}

	var existing []*models.Item
	if opts.Mode != ModeAppend && !created && board.ID != "" {
		existing, err = s.fetchItems(ctx, board.ID, models.MaxPageSize, 0, opts.Mode == ModeUpsert && subBoard != nil, opts.Progress)
		if err != nil {
			return nil, fmt.Errorf("error fetching board data: %w", err)
		}
	}

	switch opts.Mode {
	case ModeUpsert:
		matchExisting(rows, existing, opts.UpdateMethod)
	case ModeReplace:
		if err := s.removeItems(ctx, existing, opts, result); err != nil {
			return result, err
		}
	}

	if opts.DryRun {
		for _, r := range rows {
			result.Planned = append(result.Planned, r.operation())
		}
		result.ItemIDs = make([]string, len(rows))
		for i, r := range rows {
			result.ItemIDs[i] = r.target
		}
		logger.Info("dry run", "board_id", board.ID, "operations", len(result.Planned))
		return result, nil
	}

	if err := s.createMissingGroups(ctx, board, rows, opts); err != nil {
		return result, err
	}

	ids := make([]string, len(rows))
	err = s.executeRows(ctx, board, subBoard, rows, ids, opts)
	collectResult(result, rows, ids)
	if err != nil {
		return result, err
	}

	logger.Info("wrote board",
		"board_id", board.ID,
		"mode", opts.Mode,
		"created", len(result.Created),
		"updated", len(result.Updated),
		"removed", len(result.Removed),
	)
	return result, nil
}

func normalizeWriteOptions(opts WriteOptions) (WriteOptions, error) {
	var err error
	if opts.Mode == "" {
		opts.Mode = ModeAppend
	}
	if opts.Mode, err = ParseMode(string(opts.Mode)); err != nil {
		return opts, err
	}
	if opts.OverwriteType == "" {
		opts.OverwriteType = OverwriteDelete
	}
	if opts.OverwriteType, err = ParseOverwriteType(string(opts.OverwriteType)); err != nil {
		return opts, err
	}
	if opts.UpdateMethod == "" {
		opts.UpdateMethod = UpdateByName
	}
	if opts.UpdateMethod, err = ParseUpdateMethod(string(opts.UpdateMethod)); err != nil {
		return opts, err
	}

	switch {
	case opts.BoardID == "" && opts.BoardName == "":
		return opts, ErrNoBoardTarget
	case opts.BoardID != "" && opts.BoardName != "":
		return opts, fmt.Errorf("%w: set either a board ID or a board name, not both", ErrNoBoardTarget)
	}

	if opts.NameColumn == "" {
		opts.NameColumn = models.FieldName
	}
	if opts.BoardKind == "" {
		opts.BoardKind = "public"
	}
	if opts.ChunkSize < 0 {
		opts.ChunkSize = 0
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return opts, nil
}

// resolveBoard loads the target board, creating it first when a name is given.
// The second result reports whether the board is new.
func (s *service) resolveBoard(ctx context.Context, f *frame.Frame, opts WriteOptions) (*models.Board, bool, error) {
	if opts.BoardID != "" {
		board, err := s.client.GetBoard(ctx, opts.BoardID)
		return board, false, err
	}

	type newColumn struct {
		title   string
		colType models.ColumnType
	}
	var cols []newColumn
	for _, title := range f.Columns() {
		if models.IsReservedField(title) || title == opts.NameColumn {
			continue
		}
		colType, ok := opts.ColumnTypes[title]
		if ok {
			if !colType.Writable() {
				return nil, false, fmt.Errorf("%w: column %q cannot be created as %s", converters.ErrUnsupportedType, title, colType)
			}
		} else {
			values, _ := f.Column(title)
			colType = converters.Infer(values)
		}
		cols = append(cols, newColumn{title: title, colType: colType})
	}

	if opts.DryRun {
		board := &models.Board{
			Name:    opts.BoardName,
			Kind:    opts.BoardKind,
			Columns: []*models.Column{{ID: "name", Title: "Name", Type: models.ColumnTypeName}},
		}
		for _, c := range cols {
			board.Columns = append(board.Columns, &models.Column{ID: c.title, Title: c.title, Type: c.colType})
		}
		return board, true, nil
	}

	created, err := s.client.CreateBoard(ctx, opts.BoardName, opts.BoardKind, opts.WorkspaceID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create board %q: %w", opts.BoardName, err)
	}
	s.logger.Info("created board", "board_id", created.ID, "name", opts.BoardName)

	for _, c := range cols {
		if _, err := s.client.CreateColumn(ctx, created.ID, c.title, c.colType); err != nil {
			return nil, false, fmt.Errorf("failed to create column %q: %w", c.title, err)
		}
	}

	board, err := s.client.GetBoard(ctx, created.ID)
	return board, true, err
}

// subitemBoard loads the board holding the subitems' columns, found through
// the settings of the board's subitems column. Nil when it cannot be found.
func (s *service) subitemBoard(ctx context.Context, board *models.Board, logger *slog.Logger) *models.Board {
	for _, c := range board.Columns {
		if c.Type != models.ColumnTypeSubtasks {
			continue
		}
		var settings struct {
			BoardIDs []json.Number `json:"boardIds"`
		}
		if err := json.Unmarshal([]byte(c.Settings), &settings); err != nil || len(settings.BoardIDs) == 0 {
			break
		}
		sub, err := s.client.GetBoard(ctx, settings.BoardIDs[0].String())
		if err != nil {
			logger.Warn("failed to load subitem board", "board_id", settings.BoardIDs[0].String(), "error", err)
			return nil
		}
		return sub
	}
	logger.Warn("board has no subitems column; subitem values will not be written", "board_id", board.ID)
	return nil
}

func hasSubitemRows(f *frame.Frame) bool {
	if !f.HasColumn(models.FieldIsSubitem) {
		return false
	}
	for i := 0; i < f.Len(); i++ {
		if isSubitemRow(f.Row(i)) {
			return true
		}
	}
	return false
}

func isSubitemRow(r frame.Row) bool {
	switch v := r.Get(models.FieldIsSubitem).(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		b, _ := converters.ParseBool(frame.FormatValue(v))
		return b
	}
}

// buildPlan validates the frame against the board and encodes every row
func buildPlan(board, subBoard *models.Board, f *frame.Frame, opts WriteOptions, explicitName bool) (*plan, error) {
	nameCol := opts.NameColumn
	if !f.HasColumn(nameCol) {
		if explicitName {
			return nil, fmt.Errorf("%w: name column %q not in frame", ErrInvalidColumn, nameCol)
		}
		nameCol = ""
		for _, c := range board.Columns {
			if c.Type == models.ColumnTypeName && f.HasColumn(c.Title) {
				nameCol = c.Title
			}
		}
	}

	var (
		p         = &plan{}
		boardCols []*models.Column
		subCols   []*models.Column
		missing   []string
	)
	for _, title := range f.Columns() {
		if models.IsReservedField(title) || title == nameCol {
			continue
		}
		col, onBoard := board.ColumnByTitle(title)
		var subCol *models.Column
		onSub := false
		if subBoard != nil {
			subCol, onSub = subBoard.ColumnByTitle(title)
		}
		switch {
		case onBoard && col.Type == models.ColumnTypeName:
		case onBoard && col.Writable():
			boardCols = append(boardCols, col)
		case onBoard:
			p.skipColumn(title, col.Type)
		case onSub && subCol.Writable():
			subCols = append(subCols, subCol)
		case onSub:
			p.skipColumn(title, subCol.Type)
		default:
			missing = append(missing, title)
		}
		if onBoard && onSub && subCol.Writable() {
			subCols = append(subCols, subCol)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: columns not found on board: %s", ErrInvalidColumn, strings.Join(missing, ", "))
	}

	p.rows = make([]*plannedRow, 0, f.Len())
	lastParent := -1
	for i := 0; i < f.Len(); i++ {
		r := f.Row(i)
		pr := &plannedRow{index: i, parent: -1, itemID: strings.TrimSpace(r.String(models.FieldItemID))}
		pr.subitem = isSubitemRow(r)

		cols := boardCols
		if pr.subitem {
			if lastParent < 0 {
				return nil, fmt.Errorf("%w: row %d", ErrOrphanSubitem, i)
			}
			pr.parent = lastParent
			pr.name = strings.TrimSpace(r.String(models.FieldSubitemName))
			pr.op = OpCreateSubitem
			cols = subCols
		} else {
			lastParent = i
			if nameCol != "" {
				pr.name = strings.TrimSpace(r.String(nameCol))
				pr.rename = pr.name != ""
			}
			pr.op = OpCreate
			pr.groupID, pr.groupTitle = resolveGroup(board, r, opts.GroupID)
		}
		if pr.name == "" {
			pr.name = models.DefaultItemName
		}

		pr.values = make(map[string]any, len(cols))
		for _, col := range cols {
			enc, err := converters.Encode(col.Type, r.Get(col.Title))
			if errors.Is(err, converters.ErrDisplayText) {
				p.cells = append(p.cells, SkippedCell{Row: i, Column: col.Title, Reason: err.Error()})
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("%w: row %d, column %q: %v", ErrInvalidValue, i, col.Title, err)
			}
			if enc != nil {
				pr.values[col.ID] = enc
			}
		}
		p.rows = append(p.rows, pr)
	}
	return p, nil
}

// skipColumn records a frame column whose board column cannot be written
func (p *plan) skipColumn(title string, t models.ColumnType) {
	if t.ReadOnly() {
		p.skipped = append(p.skipped, title)
		return
	}
	p.unsupported = append(p.unsupported, title)
}

// resolveGroup returns the group ID for a row, or the unmatched group title
func resolveGroup(board *models.Board, r frame.Row, groupID string) (string, string) {
	if groupID != "" {
		return groupID, ""
	}
	title := strings.TrimSpace(r.String(models.FieldGroup))
	if title == "" {
		return "", ""
	}
	if g, ok := board.GroupByTitle(title); ok {
		return g.ID, ""
	}
	return "", title
}

// matchExisting turns creates into updates for rows that match an existing item
func matchExisting(rows []*plannedRow, existing []*models.Item, method UpdateMethod) {
	byKey := make(map[string]*models.Item, len(existing))
	subByID := make(map[string]*models.Item)
	for _, item := range existing {
		key := item.Name
		if method == UpdateByID {
			key = item.ID
		}
		if _, dup := byKey[key]; !dup {
			byKey[key] = item
		}
		for _, sub := range item.Subitems {
			subByID[sub.ID] = sub
		}
	}

	matched := make(map[int]*models.Item)
	for _, r := range rows {
		if r.subitem {
			if method == UpdateByID && r.itemID != "" {
				if sub, ok := subByID[r.itemID]; ok {
					r.op, r.target = OpUpdate, sub.ID
				}
				continue
			}
			if parent, ok := matched[r.parent]; ok {
				for _, sub := range parent.Subitems {
					if sub.Name == r.name {
						r.op, r.target = OpUpdate, sub.ID
						break
					}
				}
			}
			continue
		}

		key := r.name
		if method == UpdateByID {
			key = r.itemID
		}
		if key == "" {
			continue
		}
		if item, ok := byKey[key]; ok {
			r.op, r.target = OpUpdate, item.ID
			matched[r.index] = item
			if method == UpdateByName {
				r.rename = false
			}
		}
	}
}

// removeItems deletes or archives existing items for replace mode
func (s *service) removeItems(ctx context.Context, existing []*models.Item, opts WriteOptions, result *WriteResult) error {
	if opts.DryRun {
		for _, item := range existing {
			result.Planned = append(result.Planned, Operation{Kind: OpRemove, Row: -1, Name: item.Name, ItemID: item.ID})
		}
		return nil
	}

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	removed := make([]string, len(existing))
	for i, item := range existing {
		g.Go(func() error {
			var err error
			if opts.OverwriteType == OverwriteArchive {
				err = s.client.ArchiveItem(gctx, item.ID)
			} else {
				err = s.client.DeleteItem(gctx, item.ID)
			}
			if err != nil {
				return fmt.Errorf("failed to remove item %s: %w", item.ID, err)
			}
			removed[i] = item.ID

			mu.Lock()
			done++
			if opts.Progress != nil {
				opts.Progress(Progress{Stage: StageRemove, Done: done, Total: len(existing)})
			}
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	for _, id := range removed {
		if id != "" {
			result.Removed = append(result.Removed, id)
		}
	}
	return err
}

// createMissingGroups creates groups for unmatched group titles when asked to
func (s *service) createMissingGroups(ctx context.Context, board *models.Board, rows []*plannedRow, opts WriteOptions) error {
	created := make(map[string]string)
	for _, r := range rows {
		if r.groupTitle == "" || r.op != OpCreate {
			continue
		}
		if !opts.CreateMissingGroups {
			s.logger.Debug("unknown group, using default group", "group", r.groupTitle)
			continue
		}
		id, ok := created[r.groupTitle]
		if !ok {
			g, err := s.client.CreateGroup(ctx, board.ID, r.groupTitle)
			if err != nil {
				return fmt.Errorf("failed to create group %q: %w", r.groupTitle, err)
			}
			id = g.ID
			created[r.groupTitle] = id
			board.Groups = append(board.Groups, g)
		}
		r.groupID = id
	}
	return nil
}

// executeRows sends the mutations in chunks. A parent row and its subitem rows
// form one unit that runs in order; units run concurrently within a chunk.
func (s *service) executeRows(ctx context.Context, board, subBoard *models.Board, rows []*plannedRow, ids []string, opts WriteOptions) error {
	var units [][]*plannedRow
	for _, r := range rows {
		if r.subitem && len(units) > 0 {
			units[len(units)-1] = append(units[len(units)-1], r)
			continue
		}
		units = append(units, []*plannedRow{r})
	}

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		if opts.Progress != nil {
			opts.Progress(Progress{Stage: StageWrite, Done: done, Total: len(rows)})
		}
	}

	for start := 0; start < len(units); {
		end, size := start, 0
		for end < len(units) && (opts.ChunkSize == 0 || size < opts.ChunkSize) {
			size += len(units[end])
			end++
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for _, unit := range units[start:end] {
			g.Go(func() error {
				for _, r := range unit {
					if err := s.executeRow(gctx, board, subBoard, r, ids, opts); err != nil {
						return fmt.Errorf("failed to write row %d: %w", r.index, err)
					}
					report()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		start = end
	}
	return nil
}

func (s *service) executeRow(ctx context.Context, board, subBoard *models.Board, r *plannedRow, ids []string, opts WriteOptions) error {
	switch r.op {
	case OpCreate:
		id, err := s.client.CreateItem(ctx, monday.CreateItemInput{
			BoardID:               board.ID,
			GroupID:               r.groupID,
			Name:                  r.name,
			ColumnValues:          r.values,
			CreateLabelsIfMissing: opts.CreateLabelsIfMissing,
		})
		if err != nil {
			return err
		}
		ids[r.index] = id

	case OpCreateSubitem:
		parentID := ids[r.parent]
		if parentID == "" {
			return ErrOrphanSubitem
		}
		id, err := s.client.CreateSubitem(ctx, parentID, r.name, r.values, opts.CreateLabelsIfMissing)
		if err != nil {
			return err
		}
		ids[r.index] = id

	case OpUpdate:
		values := r.values
		if r.rename {
			values = make(map[string]any, len(r.values)+1)
			for k, v := range r.values {
				values[k] = v
			}
			values["name"] = r.name
		}
		boardID := board.ID
		if r.subitem {
			if subBoard == nil {
				ids[r.index] = r.target
				return nil
			}
			boardID = subBoard.ID
		}
		if len(values) > 0 {
			if err := s.client.ChangeColumnValues(ctx, boardID, r.target, values, opts.CreateLabelsIfMissing); err != nil {
				return err
			}
		}
		ids[r.index] = r.target
	}
	return nil
}

func collectResult(result *WriteResult, rows []*plannedRow, ids []string) {
	result.ItemIDs = ids
	for _, r := range rows {
		id := ids[r.index]
		if id == "" {
			continue
		}
		if r.op == OpUpdate {
			result.Updated = append(result.Updated, id)
		} else {
			result.Created = append(result.Created, id)
		}
	}
}

func (r *plannedRow) operation() Operation {
	return Operation{
		Kind:         r.op,
		Row:          r.index,
		Name:         r.name,
		ItemID:       r.target,
		GroupID:      r.groupID,
		ColumnValues: r.values,
	}
}
