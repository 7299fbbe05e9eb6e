package frame

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var quoteRegexp = regexp.MustCompile(`["'][\s\S]+?["']`)

// CSVOptions controls ReadCSV
type CSVOptions struct {
	// Delimiter is the field separator; 0 guesses it from the first lines
	Delimiter rune
	// InferTypes parses numeric cells into float64 and true/false into bool
	InferTypes bool
}

// ReadCSV reads a frame from CSV. The first record is the header. Empty cells
// become nil.
func ReadCSV(r io.Reader, opts CSVOptions) (*Frame, error) {
	var rd *csv.Reader
	if opts.Delimiter == 0 {
		var err error
		rd, err = createReaderAndGuessDelimiter(r)
		if err != nil {
			return nil, err
		}
	} else {
		rd = createReader(r, opts.Delimiter)
	}

	header, err := rd.Read()
	if err == io.EOF {
		return New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", formatCSVError(err))
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	f, err := New(header...)
	if err != nil {
		return nil, err
	}

	for {
		record, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", formatCSVError(err))
		}
		values := make([]any, len(record))
		for i, cell := range record {
			values[i] = parseCell(cell, opts.InferTypes)
		}
		if err := f.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteCSV writes the frame as CSV with a header row
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.columns); err != nil {
		return err
	}
	record := make([]string, len(f.columns))
	for _, row := range f.rows {
		for i, v := range row {
			record[i] = FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseCell(cell string, infer bool) any {
	if cell == "" {
		return nil
	}
	if !infer {
		return cell
	}
	if n, err := strconv.ParseFloat(cell, 64); err == nil {
		return n
	}
	switch strings.ToLower(cell) {
	case "true":
		return true
	case "false":
		return false
	}
	return cell
}

func createReader(input io.Reader, delimiter rune) *csv.Reader {
	rd := csv.NewReader(input)
	rd.Comma = delimiter
	rd.TrimLeadingSpace = true
	return rd
}

// createReaderAndGuessDelimiter peeks at the first 10k bytes to pick a delimiter
func createReaderAndGuessDelimiter(rd io.Reader) (*csv.Reader, error) {
	data := make([]byte, 1e4)
	size, err := io.ReadFull(rd, data)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if size == 0 {
		return createReader(bytes.NewReader(nil), ','), nil
	}

	delimiter := guessDelimiter(data[:size])

	var input io.Reader
	if size < len(data) {
		input = bytes.NewReader(data[:size])
	} else {
		input = io.MultiReader(bytes.NewReader(data), rd)
	}
	return createReader(input, delimiter), nil
}

// guessDelimiter scores candidate delimiters over at most 10 lines
func guessDelimiter(data []byte) rune {
	const maxLines = 10
	text := quoteRegexp.ReplaceAllLiteralString(string(data), "")
	lines := strings.SplitN(text, "\n", maxLines+1)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	delimiters := []rune{',', ';', '\t', '|'}
	best := delimiters[0]
	bestScore := 0.0
	for _, d := range delimiters {
		if score := scoreDelimiter(lines, d); score > bestScore {
			bestScore = score
			best = d
		}
	}
	return best
}

// scoreDelimiter rewards delimiters that appear often and the same number of
// times on every line
func scoreDelimiter(lines []string, delim rune) float64 {
	countTotal := 0
	countLineMax := 0
	linesNotEqual := 0

	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		countLine := strings.Count(line, string(delim))
		countTotal += countLine
		if countLine != countLineMax {
			if countLineMax != 0 {
				linesNotEqual++
			}
			countLineMax = max(countLine, countLineMax)
		}
	}
	return float64(countTotal) * (1 - float64(linesNotEqual)/float64(len(lines)))
}

func formatCSVError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		if errors.Is(perr.Err, csv.ErrFieldCount) {
			return fmt.Errorf("line %d: wrong number of fields: %w", perr.Line, ErrRowLength)
		}
		return fmt.Errorf("line %d, column %d: %w", perr.Line, perr.Column, perr.Err)
	}
	return err
}
