package board

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/models"
	"github.com/thenoetrevino/boardframe/internal/monday"
	"github.com/thenoetrevino/boardframe/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// setupBasicBoard seeds a board with two items in two groups
func setupBasicBoard(t *testing.T) (*testutil.MondayServer, Service) {
	t.Helper()
	srv := testutil.SetupMondayServer(t)
	srv.AddBoard(&models.Board{
		ID:   "123",
		Name: "Basic Board",
		Columns: []*models.Column{
			{ID: "name", Title: "Name", Type: models.ColumnTypeName},
			{ID: "status", Title: "Status", Type: models.ColumnTypeStatus},
			{ID: "number", Title: "Number", Type: models.ColumnTypeNumbers},
			{ID: "subitems", Title: "Subitems", Type: models.ColumnTypeSubtasks},
		},
		Groups: []*models.Group{{ID: "a", Title: "Group A"}, {ID: "b", Title: "Group B"}},
	})
	fb := srv.Board("123")
	srv.AddItem("123", &models.Item{
		ID: "1", Name: "Task 1", Group: fb.Board.Groups[0],
		ColumnValues: []*models.ColumnValue{testutil.Cell("status", "Done"), testutil.Cell("number", "42"), testutil.Cell("subitems", "")},
	})
	srv.AddItem("123", &models.Item{
		ID: "2", Name: "Task 2", Group: fb.Board.Groups[1],
		ColumnValues: []*models.ColumnValue{testutil.Cell("status", "Working"), testutil.Cell("number", "17"), testutil.Cell("subitems", "")},
	})
	return srv, NewService(srv.Client(t), nil)
}

// setupNestedBoard seeds a board with one parent item and two subitems
func setupNestedBoard(t *testing.T) (*testutil.MondayServer, Service) {
	t.Helper()
	srv := testutil.SetupMondayServer(t)
	srv.AddBoard(&models.Board{
		ID:   "456",
		Name: "Nested Board",
		Columns: []*models.Column{
			{ID: "name", Title: "Name", Type: models.ColumnTypeName},
			{ID: "priority", Title: "Priority", Type: models.ColumnTypeStatus},
			{ID: "subitems", Title: "Subitems", Type: models.ColumnTypeSubtasks, Settings: `{"boardIds":[789]}`},
		},
		Groups: []*models.Group{{ID: "a", Title: "Group A"}},
	})
	srv.AddBoard(&models.Board{
		ID:   "789",
		Name: "Subitems of Nested Board",
		Columns: []*models.Column{
			{ID: "name", Title: "Name", Type: models.ColumnTypeName},
			{ID: "priority0", Title: "Priority", Type: models.ColumnTypeStatus},
			{ID: "owner_note", Title: "Note", Type: models.ColumnTypeText},
		},
	})

	sub := func(id, name, priority string) *models.Item {
		text := priority
		return &models.Item{ID: id, Name: name, ColumnValues: []*models.ColumnValue{{
			ID: "priority0", Type: models.ColumnTypeStatus, Text: &text, Column: &models.ColumnRef{Title: "Priority"},
		}}}
	}
	srv.AddItem("456", &models.Item{
		ID:           "1",
		Name:         "Parent 1",
		ColumnValues: []*models.ColumnValue{testutil.Cell("priority", "High")},
		Subitems:     []*models.Item{sub("11", "Child 1", "Medium"), sub("12", "Child 2", "Low")},
	})
	return srv, NewService(srv.Client(t), nil)
}

// columnValues returns the cells of col
func columnValues(t *testing.T, f *frame.Frame, col string) []any {
	t.Helper()
	vals, err := f.Column(col)
	require.NoError(t, err)
	return vals
}

// ============================================================================
// TEST CASES - ReadBoard
// ============================================================================

func TestReadBoard_Basic(t *testing.T) {
	_, svc := setupBasicBoard(t)

	f, err := svc.ReadBoard(context.Background(), ReadOptions{BoardID: "123"})
	require.NoError(t, err)

	assert.Equal(t, []string{"item_id", "board_name", "group", "name", "Status", "Number"}, f.Columns())
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, []any{"1", "2"}, columnValues(t, f, "item_id"))
	assert.Equal(t, []any{"Basic Board", "Basic Board"}, columnValues(t, f, "board_name"))
	assert.Equal(t, []any{"Group A", "Group B"}, columnValues(t, f, "group"))
	assert.Equal(t, []any{"Done", "Working"}, columnValues(t, f, "Status"))
	assert.Equal(t, []any{"42", "17"}, columnValues(t, f, "Number"))
}

func TestReadBoard_ColumnSelection(t *testing.T) {
	_, svc := setupBasicBoard(t)

	f, err := svc.ReadBoard(context.Background(), ReadOptions{BoardID: "123", Columns: []string{"Number", "name"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Number", "name"}, f.Columns())
	assert.Equal(t, []any{"Task 1", "Task 2"}, columnValues(t, f, "name"))
}

func TestReadBoard_Subitems(t *testing.T) {
	_, svc := setupNestedBoard(t)

	f, err := svc.ReadBoard(context.Background(), ReadOptions{
		BoardID:         "456",
		Columns:         []string{"name", "subitem_name", "is_subitem", "Priority"},
		IncludeSubitems: true,
	})
	require.NoError(t, err)

	require.Equal(t, 3, f.Len())
	assert.Equal(t, []any{"Parent 1", "Parent 1", "Parent 1"}, columnValues(t, f, "name"))
	assert.Equal(t, []any{nil, "Child 1", "Child 2"}, columnValues(t, f, "subitem_name"))
	assert.Equal(t, []any{false, true, true}, columnValues(t, f, "is_subitem"))
	assert.Equal(t, []any{"High", "Medium", "Low"}, columnValues(t, f, "Priority"))
}

func TestReadBoard_SubitemsExcludedByDefault(t *testing.T) {
	_, svc := setupNestedBoard(t)

	f, err := svc.ReadBoard(context.Background(), ReadOptions{BoardID: "456"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.Len())
	assert.False(t, f.HasColumn("is_subitem"))
	assert.False(t, f.HasColumn("subitem_name"))
	assert.False(t, f.HasColumn("Subitems"))
}

func TestReadBoard_Filter(t *testing.T) {
	tests := []struct {
		name      string
		filter    map[string]string
		wantNames []any
	}{
		{"single criterion", map[string]string{"Status": "Done"}, []any{"Task 1"}},
		{"multiple criteria", map[string]string{"Status": "Done", "Number": "42"}, []any{"Task 1"}},
		{"criteria must all match", map[string]string{"Status": "Done", "Number": "17"}, []any{}},
		{"no matches", map[string]string{"Status": "NonexistentStatus"}, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc := setupBasicBoard(t)

			f, err := svc.ReadBoard(context.Background(), ReadOptions{
				BoardID: "123",
				Columns: []string{"name", "Status", "Number"},
				Filter:  tt.filter,
			})
			require.NoError(t, err)

			assert.Equal(t, []string{"name", "Status", "Number"}, f.Columns())
			assert.Equal(t, tt.wantNames, columnValues(t, f, "name"))
		})
	}
}

func TestReadBoard_FilterOnUnselectedColumn(t *testing.T) {
	_, svc := setupBasicBoard(t)

	f, err := svc.ReadBoard(context.Background(), ReadOptions{
		BoardID: "123",
		Columns: []string{"name"},
		Filter:  map[string]string{"Status": "Working"},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"Task 2"}, columnValues(t, f, "name"))
}

func TestReadBoard_InvalidColumns(t *testing.T) {
	_, svc := setupBasicBoard(t)

	_, err := svc.ReadBoard(context.Background(), ReadOptions{BoardID: "123", Filter: map[string]string{"NonexistentColumn": "Value"}})
	require.ErrorIs(t, err, ErrInvalidColumn)
	assert.Contains(t, err.Error(), "NonexistentColumn")

	_, err = svc.ReadBoard(context.Background(), ReadOptions{BoardID: "123", Columns: []string{"name", "Nope", "Also Nope"}})
	require.ErrorIs(t, err, ErrInvalidColumn)
	assert.Contains(t, err.Error(), "Also Nope, Nope")
}

func TestReadBoard_MaxResults(t *testing.T) {
	srv, svc := setupBasicBoard(t)

	f, err := svc.ReadBoard(context.Background(), ReadOptions{BoardID: "123", MaxResults: 1, Columns: []string{"name"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"Task 1"}, columnValues(t, f, "name"))

	calls := srv.Calls("items_page")
	require.Len(t, calls, 1)
	assert.Equal(t, float64(1), calls[0].Variables["limit"])
}

func TestReadBoard_Pagination(t *testing.T) {
	srv := testutil.SetupMondayServer(t)
	srv.AddBoard(&models.Board{
		ID:      "9",
		Name:    "Big",
		Columns: []*models.Column{{ID: "name", Title: "Name", Type: models.ColumnTypeName}},
	})
	for i := range 7 {
		srv.AddItem("9", &models.Item{ID: fmt.Sprint(i), Name: fmt.Sprintf("Item %d", i)})
	}
	svc := NewService(srv.Client(t), nil)

	var progress []int
	f, err := svc.ReadBoard(context.Background(), ReadOptions{
		BoardID:  "9",
		PageSize: 3,
		Progress: func(p Progress) { progress = append(progress, p.Done) },
	})
	require.NoError(t, err)

	assert.Equal(t, 7, f.Len())
	assert.Len(t, srv.Calls("items_page"), 1)
	assert.Len(t, srv.Calls("next_items_page"), 2)
	assert.Equal(t, []int{3, 6, 7}, progress)
}

func TestReadBoard_MaxResultsAcrossPages(t *testing.T) {
	srv := testutil.SetupMondayServer(t)
	srv.AddBoard(&models.Board{ID: "9", Name: "Big"})
	for i := range 10 {
		srv.AddItem("9", &models.Item{ID: fmt.Sprint(i), Name: fmt.Sprintf("Item %d", i)})
	}
	svc := NewService(srv.Client(t), nil)

	f, err := svc.ReadBoard(context.Background(), ReadOptions{BoardID: "9", PageSize: 4, MaxResults: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, f.Len())

	next := srv.Calls("next_items_page")
	require.Len(t, next, 1)
	assert.Equal(t, float64(2), next[0].Variables["limit"])
}

func TestReadBoard_Typed(t *testing.T) {
	_, svc := setupBasicBoard(t)

	f, err := svc.ReadBoard(context.Background(), ReadOptions{BoardID: "123", Typed: true})
	require.NoError(t, err)
	assert.Equal(t, []any{42.0, 17.0}, columnValues(t, f, "Number"))
	assert.Equal(t, []any{"Done", "Working"}, columnValues(t, f, "Status"))
}

func TestReadBoard_BoardNotFound(t *testing.T) {
	_, svc := setupBasicBoard(t)

	_, err := svc.ReadBoard(context.Background(), ReadOptions{BoardID: "999"})
	assert.ErrorIs(t, err, monday.ErrBoardNotFound)

	_, err = svc.ReadBoard(context.Background(), ReadOptions{})
	assert.ErrorIs(t, err, ErrEmptyBoardID)
}

func TestReadBoard_PageErrorIsWrapped(t *testing.T) {
	srv := testutil.SetupMondayServer(t)
	srv.AddBoard(&models.Board{ID: "9", Name: "Big"})
	svc := NewService(srv.Client(t, monday.WithMaxRetries(0)), nil)

	// metadata succeeds, the first page fails
	srv.FailNext(http.StatusOK, `{"data":{"boards":[{"id":"9","name":"Big","columns":[],"groups":[]}]}}`)
	srv.FailNext(http.StatusBadRequest, `{"errors":[{"message":"boom"}]}`)

	_, err := svc.ReadBoard(context.Background(), ReadOptions{BoardID: "9"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error fetching board data")
	assert.Contains(t, err.Error(), "boom")
}
