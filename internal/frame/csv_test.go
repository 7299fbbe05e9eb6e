package frame

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadCSV(t *testing.T) {
	input := "name,Status,Estimate\nTask 1,Done,42\nTask 2,,17\n"

	f, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	want := []map[string]any{
		{"name": "Task 1", "Status": "Done", "Estimate": "42"},
		{"name": "Task 2", "Status": nil, "Estimate": "17"},
	}
	if diff := cmp.Diff(want, f.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV_InferTypes(t *testing.T) {
	input := "name,Estimate,Done\nTask 1,4.5,true\n"

	f, err := ReadCSV(strings.NewReader(input), CSVOptions{InferTypes: true})
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	r := f.Row(0)
	if r.Get("Estimate") != 4.5 {
		t.Errorf("Estimate = %#v, want 4.5", r.Get("Estimate"))
	}
	if r.Get("Done") != true {
		t.Errorf("Done = %#v, want true", r.Get("Done"))
	}
	if r.Get("name") != "Task 1" {
		t.Errorf("name = %#v", r.Get("name"))
	}
}

func TestReadCSV_GuessDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"semicolon", "name;Status\nA;Done\nB;Working\n"},
		{"tab", "name\tStatus\nA\tDone\nB\tWorking\n"},
		{"pipe", "name|Status\nA|Done\nB|Working\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ReadCSV(strings.NewReader(tt.input), CSVOptions{})
			if err != nil {
				t.Fatalf("ReadCSV() error: %v", err)
			}
			if diff := cmp.Diff([]string{"name", "Status"}, f.Columns()); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			if f.Len() != 2 {
				t.Errorf("Len() = %d, want 2", f.Len())
			}
		})
	}
}

func TestReadCSV_Empty(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(""), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if f.Len() != 0 || f.Width() != 0 {
		t.Errorf("expected empty frame, got %dx%d", f.Len(), f.Width())
	}
}

func TestReadCSV_FieldCount(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"), CSVOptions{Delimiter: ','})
	if !errors.Is(err, ErrRowLength) {
		t.Fatalf("expected ErrRowLength, got %v", err)
	}
}

func TestReadCSV_DuplicateHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,a\n1,2\n"), CSVOptions{Delimiter: ','})
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("expected ErrDuplicateColumn, got %v", err)
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	f, _ := New("name", "Notes", "Estimate")
	_ = f.AppendRow("Task 1", "has, comma", 42.0)
	_ = f.AppendRow("Task 2", nil, 1.5)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, f); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	want := "name,Notes,Estimate\nTask 1,\"has, comma\",42\nTask 2,,1.5\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}

	back, err := ReadCSV(&buf, CSVOptions{Delimiter: ','})
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if got := back.Row(0).String("Notes"); got != "has, comma" {
		t.Errorf("Notes = %q", got)
	}
}
