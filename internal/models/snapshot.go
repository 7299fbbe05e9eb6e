package models

import "time"

// Snapshot is a frame saved locally together with the board it came from
type Snapshot struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	BoardName string    `json:"board_name,omitempty"`
	Label     string    `json:"label,omitempty"`
	Columns   []string  `json:"columns"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}
