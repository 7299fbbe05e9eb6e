package board

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/models"
	"github.com/thenoetrevino/boardframe/internal/testutil"
	"go.uber.org/goleak"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// newFrame builds a frame from a header and rows
func newFrame(t *testing.T, cols []string, rows ...[]any) *frame.Frame {
	t.Helper()
	f, err := frame.New(cols...)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, f.AppendRow(r...))
	}
	return f
}

// decodeValues parses the column_values variable of a mutation request
func decodeValues(t *testing.T, req testutil.MondayRequest) map[string]any {
	t.Helper()
	raw, ok := req.Variables["values"].(string)
	require.True(t, ok, "column_values must be sent as a JSON string")
	var values map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &values))
	return values
}

// itemNames lists the names of the items on a fake board
func itemNames(fb *testutil.FakeBoard) []string {
	names := make([]string, 0, len(fb.Items))
	for _, item := range fb.Items {
		names = append(names, item.Name)
	}
	return names
}

// ============================================================================
// TEST CASES - option validation
// ============================================================================

func TestWriteBoard_InvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    WriteOptions
		wantErr error
	}{
		{"invalid mode", WriteOptions{BoardID: "123", Mode: "merge"}, ErrInvalidMode},
		{"invalid overwrite type", WriteOptions{BoardID: "123", Mode: ModeReplace, OverwriteType: "shred"}, ErrInvalidOverwriteType},
		{"invalid update method", WriteOptions{BoardID: "123", Mode: ModeUpsert, UpdateMethod: "email"}, ErrInvalidUpdateMethod},
		{"no board", WriteOptions{}, ErrNoBoardTarget},
		{"both board id and name", WriteOptions{BoardID: "123", BoardName: "x"}, ErrNoBoardTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, svc := setupBasicBoard(t)
			f := newFrame(t, []string{"name"}, []any{"x"})

			_, err := svc.WriteBoard(context.Background(), f, tt.opts)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, srv.Requests(), "no request may be sent for invalid options")
		})
	}
}

func TestWriteBoard_EmptyFrame(t *testing.T) {
	_, svc := setupBasicBoard(t)

	_, err := svc.WriteBoard(context.Background(), &frame.Frame{}, WriteOptions{BoardID: "123"})
	assert.ErrorIs(t, err, ErrEmptyFrame)
}

func TestWriteBoard_InvalidColumns(t *testing.T) {
	srv, svc := setupBasicBoard(t)
	f := newFrame(t, []string{"name", "Status", "Colour", "Budget"}, []any{"x", "Done", "red", 1.0})

	_, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "123"})
	require.ErrorIs(t, err, ErrInvalidColumn)
	assert.Contains(t, err.Error(), "Budget, Colour")
	assert.Zero(t, srv.MutationCount())
}

func TestWriteBoard_InvalidValueAbortsBeforeMutations(t *testing.T) {
	srv, svc := setupBasicBoard(t)
	f := newFrame(t, []string{"name", "Number"}, []any{"ok", 1.0}, []any{"bad", "many"})

	_, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "123"})
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), `row 1, column "Number"`)
	assert.Zero(t, srv.MutationCount())
}

func TestWriteBoard_ExplicitNameColumnMustExist(t *testing.T) {
	_, svc := setupBasicBoard(t)
	f := newFrame(t, []string{"name"}, []any{"x"})

	_, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "123", NameColumn: "Title"})
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

// ============================================================================
// TEST CASES - modes
// ============================================================================

func TestWriteBoard_Append(t *testing.T) {
	srv, svc := setupBasicBoard(t)
	f := newFrame(t, []string{"name", "group", "Status", "Number"},
		[]any{"Task 3", "Group B", "Done", 5.0},
		[]any{nil, "Unknown Group", nil, nil},
	)

	result, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "123"})
	require.NoError(t, err)

	assert.Equal(t, "123", result.BoardID)
	assert.Len(t, result.Created, 2)
	assert.Empty(t, result.Updated)
	assert.Equal(t, result.Created, result.ItemIDs)
	assert.NotEmpty(t, result.RunID)

	calls := srv.Calls("create_item")
	require.Len(t, calls, 2)
	assert.Equal(t, "Task 3", calls[0].Variables["name"])
	assert.Equal(t, "b", calls[0].Variables["group"])
	assert.Equal(t, map[string]any{
		"status": map[string]any{"label": "Done"},
		"number": "5",
	}, decodeValues(t, calls[0]))

	// empty name falls back, unknown group goes to the default group, nil cells are omitted
	assert.Equal(t, models.DefaultItemName, calls[1].Variables["name"])
	assert.NotContains(t, calls[1].Variables, "group")
	assert.Empty(t, decodeValues(t, calls[1]))

	assert.Equal(t, []string{"Task 1", "Task 2", "Task 3", "New Item"}, itemNames(srv.Board("123")))
}

func TestWriteBoard_GroupIDOverridesGroupField(t *testing.T) {
	srv, svc := setupBasicBoard(t)
	f := newFrame(t, []string{"name", "group"}, []any{"x", "Group B"})

	_, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "123", GroupID: "a"})
	require.NoError(t, err)
	assert.Equal(t, "a", srv.Calls("create_item")[0].Variables["group"])
}

func TestWriteBoard_CreateMissingGroups(t *testing.T) {
	srv, svc := setupBasicBoard(t)
	f := newFrame(t, []string{"name", "group"}, []any{"x", "Later"}, []any{"y", "Later"})

	_, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "123", CreateMissingGroups: true})
	require.NoError(t, err)

	require.Len(t, srv.Calls("create_group"), 1)
	fb := srv.Board("123")
	later, ok := fb.Board.GroupByTitle("Later")
	require.True(t, ok)
	for _, call := range srv.Calls("create_item") {
		assert.Equal(t, later.ID, call.Variables["group"])
	}
}

func TestWriteBoard_Replace(t *testing.T) {
	for _, overwrite := range []OverwriteType{OverwriteDelete, OverwriteArchive} {
		t.Run(string(overwrite), func(t *testing.T) {
			srv, svc := setupBasicBoard(t)
			f := newFrame(t, []string{"name", "Status"}, []any{"Fresh", "Done"})

			result, err := svc.WriteBoard(context.Background(), f, WriteOptions{
				BoardID:       "123",
				Mode:          ModeReplace,
				OverwriteType: overwrite,
			})
			require.NoError(t, err)

			assert.ElementsMatch(t, []string{"1", "2"}, result.Removed)
			assert.Len(t, result.Created, 1)

			fb := srv.Board("123")
			assert.Equal(t, []string{"Fresh"}, itemNames(fb))
			if overwrite == OverwriteArchive {
				assert.Len(t, srv.Calls("archive_item"), 2)
				assert.Len(t, fb.Archived, 2)
			} else {
				assert.Len(t, srv.Calls("delete_item"), 2)
				assert.Empty(t, fb.Archived)
			}
		})
	}
}

func TestWriteBoard_UpsertByName(t *testing.T) {
	srv, svc := setupBasicBoard(t)
	f := newFrame(t, []string{"name", "Status"},
		[]any{"Task 1", "Stuck"},
		[]any{"Task 3", "Done"},
	)

	result, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "123", Mode: ModeUpsert})
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, result.Updated)
	assert.Len(t, result.Created, 1)
	assert.Equal(t, "1", result.ItemIDs[0])

	updates := srv.Calls("change_multiple_column_values")
	require.Len(t, updates, 1)
	assert.Equal(t, "1", updates[0].Variables["item"])
	assert.Equal(t, map[string]any{"status": map[string]any{"label": "Stuck"}}, decodeValues(t, updates[0]))

	fb := srv.Board("123")
	assert.Equal(t, []string{"Task 1", "Task 2", "Task 3"}, itemNames(fb))
	assert.Equal(t, "Stuck", fb.Items[0].ColumnValues[0].DisplayText())
}

func TestWriteBoard_UpsertByID(t *testing.T) {
	srv, svc := setupBasicBoard(t)
	f := newFrame(t, []string{"item_id", "name", "Number"},
		[]any{"2", "Task 2 renamed", 99.0},
		[]any{"404", "Brand new", 1.0},
		[]any{nil, "Also new", nil},
	)

	result, err := svc.WriteBoard(context.Background(), f, WriteOptions{
		BoardID:      "123",
		Mode:         ModeUpsert,
		UpdateMethod: UpdateByID,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, result.Updated)
	assert.Len(t, result.Created, 2)

	updates := srv.Calls("change_multiple_column_values")
	require.Len(t, updates, 1)
	assert.Equal(t, map[string]any{"number": "99", "name": "Task 2 renamed"}, decodeValues(t, updates[0]))
	assert.Equal(t, []string{"Task 1", "Task 2 renamed", "Brand new", "Also new"}, itemNames(srv.Board("123")))
}

// ============================================================================
// TEST CASES - columns, boards and subitems
// ============================================================================

func TestWriteBoard_SkipsReadOnlyColumns(t *testing.T) {
	srv := testutil.SetupMondayServer(t)
	srv.AddBoard(&models.Board{
		ID:   "5",
		Name: "Budget",
		Columns: []*models.Column{
			{ID: "name", Title: "Name", Type: models.ColumnTypeName},
			{ID: "amount", Title: "Amount", Type: models.ColumnTypeNumbers},
			{ID: "total", Title: "Total", Type: models.ColumnTypeFormula},
			{ID: "files", Title: "Receipt", Type: models.ColumnType("file")},
		},
	})
	svc := NewService(srv.Client(t), nil)
	f := newFrame(t, []string{"Name", "Amount", "Total", "Receipt"}, []any{"Rent", 1200.0, "1200", "rent.pdf"})

	result, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "5"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Total"}, result.Skipped)
	assert.Equal(t, []string{"Receipt"}, result.Unsupported)
	call := srv.Calls("create_item")[0]
	// the board's name column is used when the frame has no "name" field
	assert.Equal(t, "Rent", call.Variables["name"])
	assert.Equal(t, map[string]any{"amount": "1200"}, decodeValues(t, call))
}

func TestWriteBoard_UpsertReadBackDisplayColumns(t *testing.T) {
	srv := testutil.SetupMondayServer(t)
	srv.AddBoard(&models.Board{
		ID:   "77",
		Name: "Offices",
		Columns: []*models.Column{
			{ID: "name", Title: "Name", Type: models.ColumnTypeName},
			{ID: "country", Title: "Country", Type: models.ColumnTypeCountry},
			{ID: "owner", Title: "Owner", Type: models.ColumnTypePeople},
			{ID: "labels", Title: "Labels", Type: models.ColumnTypeTags},
			{ID: "office", Title: "Office", Type: models.ColumnTypeLocation},
			{ID: "status", Title: "Status", Type: models.ColumnTypeStatus},
		},
	})
	srv.AddItem("77", &models.Item{
		ID: "1", Name: "HQ",
		ColumnValues: []*models.ColumnValue{
			testutil.Cell("country", "Israel"),
			testutil.Cell("owner", "Alice Smith, Bob Jones"),
			testutil.Cell("labels", "urgent"),
			testutil.Cell("office", "Tel Aviv, Israel"),
			testutil.Cell("status", "Open"),
		},
	})
	svc := NewService(srv.Client(t), nil)
	ctx := context.Background()

	f, err := svc.ReadBoard(ctx, ReadOptions{BoardID: "77"})
	require.NoError(t, err)

	result, err := svc.WriteBoard(ctx, f, WriteOptions{BoardID: "77", Mode: ModeUpsert})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, result.Updated)
	assert.Empty(t, result.Created)

	var skipped []string
	for _, c := range result.SkippedCells {
		assert.Equal(t, 0, c.Row)
		skipped = append(skipped, c.Column)
	}
	assert.ElementsMatch(t, []string{"Owner", "Labels", "Office"}, skipped)

	updates := srv.Calls("change_multiple_column_values")
	require.Len(t, updates, 1)
	values := decodeValues(t, updates[0])
	assert.Equal(t, map[string]any{"countryCode": "IL", "countryName": "Israel"}, values["country"])
	assert.Equal(t, map[string]any{"label": "Open"}, values["status"])
	assert.NotContains(t, values, "owner")
	assert.NotContains(t, values, "labels")
	assert.NotContains(t, values, "office")
}

func TestWriteBoard_CreatesBoard(t *testing.T) {
	srv := testutil.SetupMondayServer(t)
	svc := NewService(srv.Client(t), nil)
	f := newFrame(t, []string{"name", "Amount", "Paid", "Code"},
		[]any{"Invoice 1", 10.0, true, "0042"},
		[]any{"Invoice 2", 20.5, false, "0043"},
	)

	result, err := svc.WriteBoard(context.Background(), f, WriteOptions{
		BoardName:   "Invoices",
		ColumnTypes: map[string]models.ColumnType{"Code": models.ColumnTypeText},
	})
	require.NoError(t, err)

	fb := srv.BoardByName("Invoices")
	require.NotNil(t, fb)
	assert.Equal(t, fb.Board.ID, result.BoardID)
	assert.Equal(t, "public", fb.Board.Kind)

	types := map[string]models.ColumnType{}
	for _, c := range fb.Board.Columns {
		types[c.Title] = c.Type
	}
	assert.Equal(t, map[string]models.ColumnType{
		"Name":   models.ColumnTypeName,
		"Amount": models.ColumnTypeNumbers,
		"Paid":   models.ColumnTypeCheckbox,
		"Code":   models.ColumnTypeText,
	}, types)

	assert.Equal(t, []string{"Invoice 1", "Invoice 2"}, itemNames(fb))
	codeCol, ok := fb.Board.ColumnByTitle("Code")
	require.True(t, ok)
	var code string
	for _, cv := range fb.Items[0].ColumnValues {
		if cv.ID == codeCol.ID {
			code = cv.DisplayText()
		}
	}
	assert.Equal(t, "0042", code)
}

func TestWriteBoard_Subitems(t *testing.T) {
	srv, svc := setupNestedBoard(t)
	f := newFrame(t, []string{"name", "is_subitem", "subitem_name", "Priority"},
		[]any{"Parent 2", false, nil, "High"},
		[]any{"Parent 2", true, "Child A", "Low"},
		[]any{"Parent 2", true, "Child B", nil},
	)

	result, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "456"})
	require.NoError(t, err)
	require.Len(t, result.Created, 3)

	parentID := result.ItemIDs[0]
	subs := srv.Calls("create_subitem")
	require.Len(t, subs, 2)
	assert.Equal(t, parentID, subs[0].Variables["parent"])
	assert.Equal(t, "Child A", subs[0].Variables["name"])
	assert.Equal(t, map[string]any{"priority0": map[string]any{"label": "Low"}}, decodeValues(t, subs[0]))

	fb := srv.Board("456")
	parent := fb.Items[len(fb.Items)-1]
	assert.Equal(t, "Parent 2", parent.Name)
	require.Len(t, parent.Subitems, 2)
	assert.Equal(t, "Child B", parent.Subitems[1].Name)
}

func TestWriteBoard_OrphanSubitem(t *testing.T) {
	srv, svc := setupNestedBoard(t)
	f := newFrame(t, []string{"is_subitem", "subitem_name"}, []any{true, "lost"})

	_, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "456"})
	require.ErrorIs(t, err, ErrOrphanSubitem)
	assert.Zero(t, srv.MutationCount())
}

func TestWriteBoard_DryRun(t *testing.T) {
	srv, svc := setupBasicBoard(t)
	f := newFrame(t, []string{"name", "Status"}, []any{"Task 1", "Done"}, []any{"Task 9", "Stuck"})

	result, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardID: "123", Mode: ModeReplace, DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Zero(t, srv.MutationCount())
	require.Len(t, result.Planned, 4)
	assert.Equal(t, OpRemove, result.Planned[0].Kind)
	assert.Equal(t, OpCreate, result.Planned[3].Kind)
	assert.Equal(t, map[string]any{"status": map[string]any{"label": "Stuck"}}, result.Planned[3].ColumnValues)
}

func TestWriteBoard_DryRunNewBoard(t *testing.T) {
	srv := testutil.SetupMondayServer(t)
	svc := NewService(srv.Client(t), nil)
	f := newFrame(t, []string{"name", "Amount"}, []any{"a", 1.0})

	result, err := svc.WriteBoard(context.Background(), f, WriteOptions{BoardName: "Preview", DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, srv.Requests())
	require.Len(t, result.Planned, 1)
	assert.Equal(t, map[string]any{"Amount": "1"}, result.Planned[0].ColumnValues)
}

func TestWriteBoard_RoundTrip(t *testing.T) {
	_, svc := setupBasicBoard(t)
	ctx := context.Background()

	in := newFrame(t, []string{"name", "group", "Status", "Number"},
		[]any{"Alpha", "Group A", "Done", "3"},
		[]any{"Beta", "Group B", "Working", "4.5"},
	)
	_, err := svc.WriteBoard(ctx, in, WriteOptions{BoardID: "123", Mode: ModeReplace})
	require.NoError(t, err)

	out, err := svc.ReadBoard(ctx, ReadOptions{BoardID: "123", Columns: []string{"name", "group", "Status", "Number"}})
	require.NoError(t, err)
	assert.Equal(t, in.Records(), out.Records())
}

func TestWriteBoard_ConcurrentChunks(t *testing.T) {
	ignore := goleak.IgnoreCurrent()
	srv, svc := setupBasicBoard(t)

	f := newFrame(t, []string{"name", "Number"})
	for i := range 20 {
		require.NoError(t, f.AppendRow(fmt.Sprintf("Row %d", i), float64(i)))
	}

	var last Progress
	result, err := svc.WriteBoard(context.Background(), f, WriteOptions{
		BoardID:     "123",
		ChunkSize:   5,
		Concurrency: 4,
		Progress:    func(p Progress) { last = p },
	})
	require.NoError(t, err)

	require.Len(t, result.ItemIDs, 20)
	assert.Len(t, result.Created, 20)
	assert.Equal(t, Progress{Stage: StageWrite, Done: 20, Total: 20}, last)

	// every row got its own item, and each item carries the row's value
	byID := map[string]*models.Item{}
	for _, item := range srv.Board("123").Items {
		byID[item.ID] = item
	}
	for i, id := range result.ItemIDs {
		item := byID[id]
		require.NotNil(t, item, "row %d", i)
		assert.Equal(t, fmt.Sprintf("Row %d", i), item.Name)
	}

	srv.Close()
	goleak.VerifyNone(t, ignore,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}
