package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/models"
	"github.com/thenoetrevino/boardframe/internal/monday"
)

// TestToken is the token the fake Monday server accepts
const TestToken = "test-token"

// MondayRequest is one GraphQL request received by the fake server
type MondayRequest struct {
	Query     string
	Variables map[string]any
	Header    http.Header
}

// Operation returns the first root field the request calls (e.g. "create_item")
func (r MondayRequest) Operation() string {
	for _, op := range fakeOperations {
		if strings.Contains(r.Query, op) {
			return op
		}
	}
	return ""
}

// ordered so that longer names sharing a prefix match first
var fakeOperations = []string{
	"next_items_page", "items_page", "create_subitem", "create_item",
	"change_multiple_column_values", "delete_item", "archive_item",
	"create_board", "create_column", "create_group", "me {", "boards(",
}

type fakeFailure struct {
	status int
	body   string
}

// FakeBoard is a board held by the fake server
type FakeBoard struct {
	Board    *models.Board
	Items    []*models.Item
	Archived []*models.Item
}

// MondayServer is an in-memory stand-in for the Monday.com GraphQL API. It
// understands the queries and mutations the monday package sends.
type MondayServer struct {
	*httptest.Server

	mu       sync.Mutex
	boards   map[string]*FakeBoard
	order    []string
	cursors  map[string]fakeCursor
	requests []MondayRequest
	failures []fakeFailure
	nextID   int
	User     models.User
}

type fakeCursor struct {
	boardID string
	offset  int
}

// SetupMondayServer starts a fake Monday API. Cleanup is automatic via t.Cleanup().
func SetupMondayServer(t *testing.T) *MondayServer {
	t.Helper()

	s := &MondayServer{
		boards:  make(map[string]*FakeBoard),
		cursors: make(map[string]fakeCursor),
		nextID:  1000,
		User:    models.User{ID: "1", Name: "Test User", Email: "test@example.com"},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Client returns a monday client pointed at the fake server with pacing and
// backoff turned down for tests
func (s *MondayServer) Client(t *testing.T, opts ...monday.Option) *monday.Client {
	t.Helper()

	base := []monday.Option{
		monday.WithURL(s.URL),
		monday.WithRequestsPerSecond(0),
		monday.WithBackoff(time.Millisecond),
		monday.WithTimeout(5 * time.Second),
	}
	client, err := monday.New(TestToken, append(base, opts...)...)
	if err != nil {
		t.Fatalf("Failed to create monday client: %v", err)
	}
	return client
}

// AddBoard registers a board. Boards without groups get a default "Group Title" group.
func (s *MondayServer) AddBoard(board *models.Board) *FakeBoard {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(board.Groups) == 0 {
		board.Groups = []*models.Group{{ID: "topics", Title: "Group Title"}}
	}
	fb := &FakeBoard{Board: board}
	s.boards[board.ID] = fb
	s.order = append(s.order, board.ID)
	return fb
}

// AddItem appends an item to a board, filling in column types and titles from
// the board's columns
func (s *MondayServer) AddItem(boardID string, item *models.Item) *models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	fb := s.boards[boardID]
	if item.Group == nil {
		item.Group = fb.Board.Groups[0]
	}
	s.fillColumnMeta(fb.Board, item)
	for _, sub := range item.Subitems {
		s.fillColumnMeta(fb.Board, sub)
	}
	fb.Items = append(fb.Items, item)
	return item
}

func (s *MondayServer) fillColumnMeta(board *models.Board, item *models.Item) {
	for _, cv := range item.ColumnValues {
		if col, ok := board.ColumnByID(cv.ID); ok {
			if cv.Type == "" {
				cv.Type = col.Type
			}
			if cv.Column == nil {
				cv.Column = &models.ColumnRef{Title: col.Title}
			}
		}
		if len(cv.Value) == 0 {
			if cv.Text != nil && *cv.Text != "" {
				cv.Value, _ = json.Marshal(*cv.Text)
			} else {
				cv.Value = json.RawMessage("null")
			}
		}
	}
}

// Board returns the server's copy of a board
func (s *MondayServer) Board(id string) *FakeBoard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boards[id]
}

// BoardByName returns the most recently created board with the given name
func (s *MondayServer) BoardByName(name string) *FakeBoard {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		if fb := s.boards[s.order[i]]; fb.Board.Name == name {
			return fb
		}
	}
	return nil
}

// FailNext queues a raw HTTP response served before normal handling resumes
func (s *MondayServer) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, fakeFailure{status: status, body: body})
}

// Requests returns every request received so far
func (s *MondayServer) Requests() []MondayRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MondayRequest(nil), s.requests...)
}

// Calls returns the requests for one operation, e.g. "create_item"
func (s *MondayServer) Calls(op string) []MondayRequest {
	var out []MondayRequest
	for _, r := range s.Requests() {
		if r.Operation() == op {
			out = append(out, r)
		}
	}
	return out
}

// MutationCount counts requests that were mutations
func (s *MondayServer) MutationCount() int {
	n := 0
	for _, r := range s.Requests() {
		if strings.HasPrefix(strings.TrimSpace(r.Query), "mutation") {
			n++
		}
	}
	return n
}

func (s *MondayServer) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error_message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, MondayRequest{Query: req.Query, Variables: req.Variables, Header: r.Header.Clone()})

	if len(s.failures) > 0 {
		f := s.failures[0]
		s.failures = s.failures[1:]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
		return
	}
	if r.Header.Get("Authorization") != TestToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"errors": []map[string]any{{"message": "Not Authenticated"}}})
		return
	}

	data, err := s.dispatch(MondayRequest{Query: req.Query, Variables: req.Variables})
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"errors": []map[string]any{{"message": err.Error()}}})
		return
	}
	data["complexity"] = map[string]any{"query": 10}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *MondayServer) dispatch(req MondayRequest) (map[string]any, error) {
	vars := req.Variables
	withSubitems := strings.Contains(req.Query, "subitems {")

	switch req.Operation() {
	case "me {":
		return map[string]any{"me": s.User}, nil

	case "boards(":
		var boards []*models.Board
		for _, id := range stringList(vars["ids"]) {
			if fb, ok := s.boards[id]; ok {
				boards = append(boards, fb.Board)
			}
		}
		return map[string]any{"boards": nonNil(boards)}, nil

	case "items_page":
		var boards []map[string]any
		for _, id := range stringList(vars["ids"]) {
			if _, ok := s.boards[id]; ok {
				boards = append(boards, map[string]any{"items_page": s.page(id, 0, intVar(vars["limit"]), withSubitems)})
			}
		}
		return map[string]any{"boards": nonNil(boards)}, nil

	case "next_items_page":
		cur, ok := s.cursors[str(vars["cursor"])]
		if !ok {
			return nil, fmt.Errorf("CursorException: invalid cursor")
		}
		return map[string]any{"next_items_page": s.page(cur.boardID, cur.offset, intVar(vars["limit"]), withSubitems)}, nil

	case "create_item":
		fb, ok := s.boards[str(vars["board"])]
		if !ok {
			return nil, fmt.Errorf("Board not found")
		}
		group := fb.Board.Groups[0]
		if gid := str(vars["group"]); gid != "" {
			g, found := groupByID(fb.Board, gid)
			if !found {
				return nil, fmt.Errorf("Group not found")
			}
			group = g
		}
		item := &models.Item{ID: s.newID(), Name: str(vars["name"]), Group: group}
		if err := s.applyValues(fb.Board, item, str(vars["values"])); err != nil {
			return nil, err
		}
		fb.Items = append(fb.Items, item)
		return map[string]any{"create_item": map[string]any{"id": item.ID}}, nil

	case "create_subitem":
		fb, parent := s.findItem(str(vars["parent"]))
		if parent == nil {
			return nil, fmt.Errorf("Item not found")
		}
		sub := &models.Item{ID: s.newID(), Name: str(vars["name"]), Group: parent.Group}
		if err := s.applyValues(s.subitemBoard(fb.Board), sub, str(vars["values"])); err != nil {
			return nil, err
		}
		parent.Subitems = append(parent.Subitems, sub)
		return map[string]any{"create_subitem": map[string]any{"id": sub.ID}}, nil

	case "change_multiple_column_values":
		fb, item := s.findItem(str(vars["item"]))
		if item == nil {
			return nil, fmt.Errorf("Item not found")
		}
		target := fb.Board
		if b, ok := s.boards[str(vars["board"])]; ok {
			target = b.Board
		}
		if err := s.applyValues(target, item, str(vars["values"])); err != nil {
			return nil, err
		}
		return map[string]any{"change_multiple_column_values": map[string]any{"id": item.ID}}, nil

	case "delete_item", "archive_item":
		id := str(vars["item"])
		for _, fb := range s.boards {
			for i, item := range fb.Items {
				if item.ID == id {
					fb.Items = append(fb.Items[:i], fb.Items[i+1:]...)
					if req.Operation() == "archive_item" {
						fb.Archived = append(fb.Archived, item)
					}
					return map[string]any{req.Operation(): map[string]any{"id": id}}, nil
				}
			}
		}
		return nil, fmt.Errorf("Item not found")

	case "create_board":
		board := &models.Board{
			ID:      s.newID(),
			Name:    str(vars["name"]),
			Kind:    str(vars["kind"]),
			Columns: []*models.Column{{ID: "name", Title: "Name", Type: models.ColumnTypeName}},
			Groups:  []*models.Group{{ID: "topics", Title: "Group Title"}},
		}
		s.boards[board.ID] = &FakeBoard{Board: board}
		s.order = append(s.order, board.ID)
		return map[string]any{"create_board": map[string]any{"id": board.ID, "name": board.Name, "board_kind": board.Kind}}, nil

	case "create_column":
		fb, ok := s.boards[str(vars["board"])]
		if !ok {
			return nil, fmt.Errorf("Board not found")
		}
		col := &models.Column{
			ID:    fmt.Sprintf("%s_%d", strings.ToLower(strings.ReplaceAll(str(vars["title"]), " ", "_")), len(fb.Board.Columns)),
			Title: str(vars["title"]),
			Type:  models.ColumnType(str(vars["type"])),
		}
		fb.Board.Columns = append(fb.Board.Columns, col)
		return map[string]any{"create_column": col}, nil

	case "create_group":
		fb, ok := s.boards[str(vars["board"])]
		if !ok {
			return nil, fmt.Errorf("Board not found")
		}
		g := &models.Group{ID: "group_" + s.newID(), Title: str(vars["name"])}
		fb.Board.Groups = append(fb.Board.Groups, g)
		return map[string]any{"create_group": g}, nil
	}
	return nil, fmt.Errorf("unsupported operation")
}

func (s *MondayServer) page(boardID string, offset, limit int, withSubitems bool) map[string]any {
	fb := s.boards[boardID]
	if limit <= 0 {
		limit = models.DefaultPageSize
	}
	end := min(offset+limit, len(fb.Items))
	items := make([]*models.Item, 0, end-offset)
	for _, item := range fb.Items[offset:end] {
		cp := *item
		if !withSubitems {
			cp.Subitems = nil
		}
		items = append(items, &cp)
	}
	var cursor any
	if end < len(fb.Items) {
		key := fmt.Sprintf("cursor-%s-%d", boardID, end)
		s.cursors[key] = fakeCursor{boardID: boardID, offset: end}
		cursor = key
	}
	return map[string]any{"cursor": cursor, "items": items}
}

// subitemBoard returns the board named by a board's subitems column settings,
// or the board itself when there is none
func (s *MondayServer) subitemBoard(board *models.Board) *models.Board {
	for _, c := range board.Columns {
		if c.Type != models.ColumnTypeSubtasks {
			continue
		}
		var settings struct {
			BoardIDs []json.Number `json:"boardIds"`
		}
		if json.Unmarshal([]byte(c.Settings), &settings) == nil && len(settings.BoardIDs) > 0 {
			if fb, ok := s.boards[settings.BoardIDs[0].String()]; ok {
				return fb.Board
			}
		}
	}
	return board
}

func (s *MondayServer) newID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func (s *MondayServer) findItem(id string) (*FakeBoard, *models.Item) {
	for _, fb := range s.boards {
		for _, item := range fb.Items {
			if item.ID == id {
				return fb, item
			}
			for _, sub := range item.Subitems {
				if sub.ID == id {
					return fb, sub
				}
			}
		}
	}
	return nil, nil
}

// applyValues stores a column_values payload on an item, deriving display
// text the way Monday renders it
func (s *MondayServer) applyValues(board *models.Board, item *models.Item, payload string) error {
	if payload == "" {
		return nil
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(payload), &values); err != nil {
		return fmt.Errorf("invalid column_values: %v", err)
	}
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		v := values[id]
		if id == "name" {
			item.Name = fmt.Sprint(v)
			continue
		}
		col, ok := board.ColumnByID(id)
		if !ok {
			return fmt.Errorf("This column ID doesn't exist for the board: %s", id)
		}
		raw, _ := json.Marshal(v)
		text := FakeDisplayText(v)
		cv := &models.ColumnValue{ID: id, Type: col.Type, Text: &text, Value: raw, Column: &models.ColumnRef{Title: col.Title}}

		replaced := false
		for i, existing := range item.ColumnValues {
			if existing.ID == id {
				item.ColumnValues[i] = cv
				replaced = true
			}
		}
		if !replaced {
			item.ColumnValues = append(item.ColumnValues, cv)
		}
	}
	return nil
}

// FakeDisplayText renders a column value payload as Monday's text field would
func FakeDisplayText(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return frame.FormatValue(v)
	}
	switch {
	case m["label"] != nil:
		return fmt.Sprint(m["label"])
	case m["labels"] != nil:
		var parts []string
		for _, l := range m["labels"].([]any) {
			parts = append(parts, fmt.Sprint(l))
		}
		return strings.Join(parts, ", ")
	case m["date"] != nil:
		if t, ok := m["time"].(string); ok && len(t) >= 5 {
			return fmt.Sprintf("%s %s", m["date"], t[:5])
		}
		return fmt.Sprint(m["date"])
	case m["from"] != nil:
		return fmt.Sprintf("%s - %s", m["from"], m["to"])
	case m["checked"] != nil:
		return "v"
	case m["url"] != nil:
		if m["text"] != nil && m["text"] != m["url"] {
			return fmt.Sprintf("%s - %s", m["text"], m["url"])
		}
		return fmt.Sprint(m["url"])
	case m["email"] != nil:
		return fmt.Sprint(m["email"])
	case m["phone"] != nil:
		return fmt.Sprint(m["phone"])
	case m["rating"] != nil:
		return frame.FormatValue(m["rating"])
	case m["hour"] != nil:
		return fmt.Sprintf("%02d:%02d", int(m["hour"].(float64)), int(m["minute"].(float64)))
	case m["countryName"] != nil:
		return fmt.Sprint(m["countryName"])
	case m["text"] != nil:
		return fmt.Sprint(m["text"])
	}
	return ""
}

func groupByID(b *models.Board, id string) (*models.Group, bool) {
	for _, g := range b.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

func stringList(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, x := range list {
		out = append(out, fmt.Sprint(x))
	}
	return out
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func intVar(v any) int {
	f, _ := v.(float64)
	return int(f)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Cell builds a column value for seeding fake items
func Cell(columnID, text string) *models.ColumnValue {
	if text == "" {
		return &models.ColumnValue{ID: columnID}
	}
	return &models.ColumnValue{ID: columnID, Text: &text}
}
