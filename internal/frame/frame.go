// Package frame provides the in-memory table boards are read into and written
// from. A frame has ordered, uniquely named columns and positional rows. Cells
// hold nil, string, float64, int64, bool or time.Time.
package frame

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrRowLength       = errors.New("row length does not match column count")
	ErrRowOutOfRange   = errors.New("row index out of range")
)

// MissingColumnsError lists every requested column a frame does not have
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("columns not found: %s", strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrColumnNotFound
}

// Frame is a table of rows with named columns
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New creates an empty frame with the given columns
func New(columns ...string) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if err := f.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// AddColumn appends a column, filling existing rows with nil
func (f *Frame) AddColumn(name string) error {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if _, ok := f.index[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
	}
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, name)
	for i := range f.rows {
		f.rows[i] = append(f.rows[i], nil)
	}
	return nil
}

// AppendRow adds a row whose values are in column order
func (f *Frame) AppendRow(values ...any) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("%w: got %d values for %d columns", ErrRowLength, len(values), len(f.columns))
	}
	row := make([]any, len(values))
	copy(row, values)
	f.rows = append(f.rows, row)
	return nil
}

// AppendRecord adds a row from a map. Keys that are not columns yet become
// new columns, in sorted order so the result is deterministic; use
// AppendOrderedRecord when key order matters.
func (f *Frame) AppendRecord(rec map[string]any) {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		if _, ok := f.index[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		_ = f.AddColumn(k)
	}
	f.appendFromMap(rec)
}

// AppendOrderedRecord adds a row from parallel key/value slices. Unknown keys
// become columns in the order given.
func (f *Frame) AppendOrderedRecord(keys []string, values []any) {
	rec := make(map[string]any, len(keys))
	for i, k := range keys {
		if _, ok := f.index[k]; !ok {
			_ = f.AddColumn(k)
		}
		if i < len(values) {
			rec[k] = values[i]
		}
	}
	f.appendFromMap(rec)
}

func (f *Frame) appendFromMap(rec map[string]any) {
	row := make([]any, len(f.columns))
	for k, v := range rec {
		row[f.index[k]] = v
	}
	f.rows = append(f.rows, row)
}

// Columns returns a copy of the column names in order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// HasColumn reports whether the frame has a column named name
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return len(f.rows)
}

// Width returns the number of columns
func (f *Frame) Width() int {
	return len(f.columns)
}

// Row returns a view of row i
func (f *Frame) Row(i int) Row {
	return Row{frame: f, index: i}
}

// Value returns the cell at row i, column col
func (f *Frame) Value(i int, col string) (any, error) {
	c, ok := f.index[col]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, col)
	}
	if i < 0 || i >= len(f.rows) {
		return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, i)
	}
	return f.rows[i][c], nil
}

// Set replaces the cell at row i, column col
func (f *Frame) Set(i int, col string, v any) error {
	c, ok := f.index[col]
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, col)
	}
	if i < 0 || i >= len(f.rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, i)
	}
	f.rows[i][c] = v
	return nil
}

// Column returns a copy of every value in a column
func (f *Frame) Column(col string) ([]any, error) {
	c, ok := f.index[col]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, col)
	}
	out := make([]any, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[c]
	}
	return out, nil
}

// Missing returns the names in cols that are not columns of the frame, sorted
func (f *Frame) Missing(cols ...string) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, c := range cols {
		if _, ok := f.index[c]; !ok && !seen[c] {
			missing = append(missing, c)
			seen[c] = true
		}
	}
	sort.Strings(missing)
	return missing
}

// Select returns a new frame with only cols, in that order
func (f *Frame) Select(cols ...string) (*Frame, error) {
	if missing := f.Missing(cols...); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	for _, row := range f.rows {
		vals := make([]any, len(cols))
		for j, c := range cols {
			vals[j] = row[f.index[c]]
		}
		out.rows = append(out.rows, vals)
	}
	return out, nil
}

// Drop returns a new frame without cols. Names that are not columns are ignored.
func (f *Frame) Drop(cols ...string) *Frame {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}
	var keep []string
	for _, c := range f.columns {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	out, _ := f.Select(keep...)
	return out
}

// Filter returns a new frame holding the rows keep returns true for
func (f *Frame) Filter(keep func(Row) bool) *Frame {
	out := f.emptyCopy()
	for i, row := range f.rows {
		if keep(f.Row(i)) {
			out.rows = append(out.rows, cloneRow(row))
		}
	}
	return out
}

// Where keeps rows whose cells equal every criteria value, compared as text
func (f *Frame) Where(criteria map[string]string) (*Frame, error) {
	cols := make([]string, 0, len(criteria))
	for c := range criteria {
		cols = append(cols, c)
	}
	if missing := f.Missing(cols...); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return f.Filter(func(r Row) bool {
		for col, want := range criteria {
			if r.String(col) != want {
				return false
			}
		}
		return true
	}), nil
}

// Head returns a new frame with at most the first n rows
func (f *Frame) Head(n int) *Frame {
	out := f.emptyCopy()
	if n > len(f.rows) {
		n = len(f.rows)
	}
	for i := 0; i < n; i++ {
		out.rows = append(out.rows, cloneRow(f.rows[i]))
	}
	return out
}

// Slice returns a new frame with rows [start, end)
func (f *Frame) Slice(start, end int) *Frame {
	out := f.emptyCopy()
	if start < 0 {
		start = 0
	}
	if end > len(f.rows) {
		end = len(f.rows)
	}
	for i := start; i < end; i++ {
		out.rows = append(out.rows, cloneRow(f.rows[i]))
	}
	return out
}

// Records returns every row as a map keyed by column name
func (f *Frame) Records() []map[string]any {
	out := make([]map[string]any, len(f.rows))
	for i := range f.rows {
		out[i] = f.Row(i).Map()
	}
	return out
}

func (f *Frame) emptyCopy() *Frame {
	out, _ := New(f.columns...)
	return out
}

func cloneRow(row []any) []any {
	out := make([]any, len(row))
	copy(out, row)
	return out
}

// Row is a read-only view of one frame row
type Row struct {
	frame *Frame
	index int
}

// Index returns the row's position in its frame
func (r Row) Index() int {
	return r.index
}

// Get returns the cell for col, or nil if the column does not exist
func (r Row) Get(col string) any {
	c, ok := r.frame.index[col]
	if !ok {
		return nil
	}
	return r.frame.rows[r.index][c]
}

// String returns the cell for col formatted as text
func (r Row) String(col string) string {
	return FormatValue(r.Get(col))
}

// IsNull reports whether the cell for col is nil or an empty string
func (r Row) IsNull(col string) bool {
	v := r.Get(col)
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

// Map returns the row keyed by column name
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.frame.columns))
	for i, c := range r.frame.columns {
		m[c] = r.frame.rows[r.index][i]
	}
	return m
}

// FormatValue renders a cell as text. Dates at midnight UTC render without a
// time component.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
