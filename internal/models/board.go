package models

// Board is a Monday.com board with its column and group metadata.
// Items are fetched separately in pages and are not held here.
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Kind        string    `json:"board_kind,omitempty"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	Columns     []*Column `json:"columns"`
	Groups      []*Group  `json:"groups"`
}

// Group is a named section of a board that items belong to
type Group struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ColumnByTitle returns the first column with the given title
func (b *Board) ColumnByTitle(title string) (*Column, bool) {
	for _, c := range b.Columns {
		if c.Title == title {
			return c, true
		}
	}
	return nil, false
}

// ColumnByID returns the column with the given ID
func (b *Board) ColumnByID(id string) (*Column, bool) {
	for _, c := range b.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// GroupByTitle returns the first group with the given title
func (b *Board) GroupByTitle(title string) (*Group, bool) {
	for _, g := range b.Groups {
		if g.Title == title {
			return g, true
		}
	}
	return nil, false
}

// TitleByID maps column IDs to titles
func (b *Board) TitleByID() map[string]string {
	m := make(map[string]string, len(b.Columns))
	for _, c := range b.Columns {
		m[c.ID] = c.Title
	}
	return m
}
