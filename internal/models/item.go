package models

import "encoding/json"

// Item is a row on a board
type Item struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Group        *Group         `json:"group,omitempty"`
	ColumnValues []*ColumnValue `json:"column_values"`
	Subitems     []*Item        `json:"subitems,omitempty"`
}

// ColumnValue is one cell of an item. Text is Monday's display rendering and
// Value is the raw JSON the column stores (null for empty cells).
type ColumnValue struct {
	ID     string          `json:"id"`
	Type   ColumnType      `json:"type"`
	Text   *string         `json:"text"`
	Value  json.RawMessage `json:"value"`
	Column *ColumnRef      `json:"column,omitempty"`
}

// ColumnRef is the column metadata embedded in a column value.
// Subitems live on their own board so their values carry their own titles.
type ColumnRef struct {
	Title string `json:"title"`
}

// DisplayText returns the cell text or "" for empty cells
func (v *ColumnValue) DisplayText() string {
	if v == nil || v.Text == nil {
		return ""
	}
	return *v.Text
}

// IsEmpty reports whether the cell holds no value
func (v *ColumnValue) IsEmpty() bool {
	if v == nil {
		return true
	}
	if v.Text != nil && *v.Text != "" {
		return false
	}
	return len(v.Value) == 0 || string(v.Value) == "null"
}

// User is the account that owns the API token
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
