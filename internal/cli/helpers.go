package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
	"github.com/thenoetrevino/boardframe/internal/cli/styles"
	"github.com/thenoetrevino/boardframe/internal/converters"
	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/models"
)

// Output formats for frames
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// maxCellWidth is where table cells wrap
const maxCellWidth = 40

// ParseAssignments parses repeated Key=Value flags. Keys keep their case;
// the value is everything after the first '='.
func ParseAssignments(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, Usagef("expected Column=Value, got %q", p)
		}
		out[k] = v
	}
	return out, nil
}

// ParseColumnTypes parses repeated Column=type flags into column types
func ParseColumnTypes(pairs []string) (map[string]models.ColumnType, error) {
	raw, err := ParseAssignments(pairs)
	if err != nil || raw == nil {
		return nil, err
	}
	out := make(map[string]models.ColumnType, len(raw))
	for col, name := range raw {
		t, err := converters.ParseColumnType(name)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		out[col] = t
	}
	return out, nil
}

// SplitList splits a comma separated flag value, dropping blanks
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ReadFrameFile reads a CSV or JSON file into a frame. "-" reads CSV from
// stdin. Format is taken from the extension unless format is set.
func ReadFrameFile(path, format string, stdin io.Reader) (*frame.Frame, error) {
	if format == "" {
		format = FormatFromPath(path)
	}

	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		defer file.Close()
		r = file
	}

	var (
		f   *frame.Frame
		err error
	)
	switch format {
	case FormatJSON:
		f, err = frame.ReadJSON(r)
	case FormatCSV:
		// cells stay text so values like "007" keep their leading zeros; the
		// board column type decides how each one is encoded
		f, err = frame.ReadCSV(r, frame.CSVOptions{})
	default:
		return nil, Usagef("unsupported input format %q (must be csv or json)", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return f, nil
}

// FormatFromPath picks csv or json from a file extension, csv by default
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatCSV
	}
}

// WriteFrame renders f in the given format
func WriteFrame(w io.Writer, f *frame.Frame, format string) error {
	switch format {
	case FormatCSV:
		return frame.WriteCSV(w, f)
	case FormatJSON:
		return frame.WriteJSON(w, f)
	case FormatTable, "":
		_, err := lipgloss.Fprintln(w, RenderFrameTable(f))
		return err
	default:
		return Usagef("unsupported format %q (must be table, csv or json)", format)
	}
}

// RenderFrameTable renders f as a styled table. Long cells wrap at word
// boundaries.
func RenderFrameTable(f *frame.Frame) string {
	headers := f.Columns()
	rows := make([][]string, f.Len())
	for i := range rows {
		row := f.Row(i)
		cells := make([]string, len(headers))
		for j, col := range headers {
			cells[j] = wordwrap.String(row.String(col), maxCellWidth)
		}
		rows[i] = cells
	}
	return styles.Table(headers, rows)
}

// SortedKeys returns the keys of m in order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RenderMarkdown renders md for w: styled for a terminal, plain otherwise
func RenderMarkdown(w io.Writer, md string, width int) (string, error) {
	styleOpt := glamour.WithStandardStyle("notty")
	if IsTerminal(w) {
		styleOpt = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
