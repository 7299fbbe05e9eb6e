package converters

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/thenoetrevino/boardframe/internal/models"
)

// Decode converts a column value into a typed frame cell. Empty cells decode
// to nil, except checkboxes which decode to false. Types without a natural Go
// representation keep Monday's text.
func Decode(colType models.ColumnType, text string, raw json.RawMessage) (any, error) {
	empty := text == "" && (len(raw) == 0 || string(raw) == "null")

	if colType == models.ColumnTypeCheckbox {
		return decodeCheckbox(text, raw), nil
	}
	if empty {
		return nil, nil
	}

	switch colType {
	case models.ColumnTypeNumbers:
		if n, ok := decodeNumber(text, raw); ok {
			return n, nil
		}
		return text, nil
	case models.ColumnTypeRating:
		var v struct {
			Rating *int64 `json:"rating"`
		}
		if err := json.Unmarshal(raw, &v); err == nil && v.Rating != nil {
			return *v.Rating, nil
		}
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n, nil
		}
		return text, nil
	case models.ColumnTypeDate:
		if t, ok := decodeDate(raw); ok {
			return t, nil
		}
		if t, err := ParseDate(text); err == nil {
			return t, nil
		}
		return text, nil
	}
	return text, nil
}

func decodeNumber(text string, raw json.RawMessage) (float64, bool) {
	if n, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64); err == nil {
		return n, true
	}
	// numbers columns store their value as a JSON string
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func decodeCheckbox(text string, raw json.RawMessage) bool {
	var v struct {
		Checked any `json:"checked"`
	}
	if len(raw) > 0 && json.Unmarshal(raw, &v) == nil {
		switch c := v.Checked.(type) {
		case bool:
			return c
		case string:
			return c == "true"
		}
	}
	b, _ := ParseBool(text)
	return b
}

func decodeDate(raw json.RawMessage) (time.Time, bool) {
	var v struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil || v.Date == "" {
		return time.Time{}, false
	}
	if v.Time != "" {
		if t, err := time.Parse(time.DateTime, v.Date+" "+v.Time); err == nil {
			return t, true
		}
	}
	t, err := time.Parse(time.DateOnly, v.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
