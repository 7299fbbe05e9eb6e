package frame

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ReadJSON reads a frame from a JSON array of objects. Columns appear in the
// order keys are first seen. Integral numbers decode to int64, others to float64.
func ReadJSON(r io.Reader) (*Frame, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	f, _ := New()
	tok, err := dec.Token()
	if err == io.EOF {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("expected JSON array of objects")
	}

	for dec.More() {
		keys, values, err := readObject(dec)
		if err != nil {
			return nil, err
		}
		f.AppendOrderedRecord(keys, values)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}
	return f, nil
}

func readObject(dec *json.Decoder) ([]string, []any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var keys []string
	var values []any
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read JSON: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("failed to read value for %q: %w", key, err)
		}
		keys = append(keys, key)
		values = append(values, normalizeJSON(raw))
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("failed to read JSON: %w", err)
	}
	return keys, values, nil
}

// DecodeRow decodes a JSON array into row values with the same number
// handling as ReadJSON
func DecodeRow(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode row: %w", err)
	}
	for i, v := range raw {
		raw[i] = normalizeJSON(v)
	}
	return raw, nil
}

func normalizeJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if fl, err := x.Float64(); err == nil {
			return fl
		}
		return x.String()
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return x
	}
}

// WriteJSON writes the frame as a JSON array of objects with keys in column order
func WriteJSON(w io.Writer, f *Frame) error {
	b, err := f.MarshalJSON()
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// MarshalJSON encodes the frame as an array of objects in column order
func (f *Frame) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range f.rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, c := range f.columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(c)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			v := row[j]
			if t, ok := v.(time.Time); ok {
				v = FormatValue(t)
			}
			val, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %q: %w", c, err)
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
