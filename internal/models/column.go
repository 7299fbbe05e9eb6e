package models

// Column is a typed field on a board. Titles are what users see, IDs are what
// the API expects in column_values payloads.
type Column struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Type     ColumnType `json:"type"`
	Settings string     `json:"settings_str,omitempty"`
}

// Writable reports whether values can be set on the column through mutations.
func (c *Column) Writable() bool {
	return c.Type.Writable()
}

// ColumnType is the Monday.com column type tag (e.g. "status", "numbers").
type ColumnType string

// Writable column types
const (
	ColumnTypeName        ColumnType = "name"
	ColumnTypeText        ColumnType = "text"
	ColumnTypeLongText    ColumnType = "long_text"
	ColumnTypeNumbers     ColumnType = "numbers"
	ColumnTypeStatus      ColumnType = "status"
	ColumnTypeDropdown    ColumnType = "dropdown"
	ColumnTypeDate        ColumnType = "date"
	ColumnTypeTimeline    ColumnType = "timeline"
	ColumnTypeCheckbox    ColumnType = "checkbox"
	ColumnTypeEmail       ColumnType = "email"
	ColumnTypePhone       ColumnType = "phone"
	ColumnTypeLink        ColumnType = "link"
	ColumnTypeRating      ColumnType = "rating"
	ColumnTypeHour        ColumnType = "hour"
	ColumnTypeWeek        ColumnType = "week"
	ColumnTypePeople      ColumnType = "people"
	ColumnTypeTags        ColumnType = "tags"
	ColumnTypeCountry     ColumnType = "country"
	ColumnTypeLocation    ColumnType = "location"
	ColumnTypeColorPicker ColumnType = "color_picker"
)

// Read-only column types. Monday computes these; mutations reject them.
const (
	ColumnTypeFormula       ColumnType = "formula"
	ColumnTypeMirror        ColumnType = "mirror"
	ColumnTypeLookup        ColumnType = "lookup"
	ColumnTypeAutoNumber    ColumnType = "auto_number"
	ColumnTypeItemID        ColumnType = "item_id"
	ColumnTypeCreationLog   ColumnType = "creation_log"
	ColumnTypeLastUpdated   ColumnType = "last_updated"
	ColumnTypeSubtasks      ColumnType = "subtasks"
	ColumnTypeButton        ColumnType = "button"
	ColumnTypeProgress      ColumnType = "progress"
	ColumnTypeTimeTracking  ColumnType = "time_tracking"
	ColumnTypeVote          ColumnType = "vote"
	ColumnTypeDependency    ColumnType = "dependency"
	ColumnTypeBoardRelation ColumnType = "board_relation"
)

var writableTypes = map[ColumnType]bool{
	ColumnTypeText:        true,
	ColumnTypeLongText:    true,
	ColumnTypeNumbers:     true,
	ColumnTypeStatus:      true,
	ColumnTypeDropdown:    true,
	ColumnTypeDate:        true,
	ColumnTypeTimeline:    true,
	ColumnTypeCheckbox:    true,
	ColumnTypeEmail:       true,
	ColumnTypePhone:       true,
	ColumnTypeLink:        true,
	ColumnTypeRating:      true,
	ColumnTypeHour:        true,
	ColumnTypeWeek:        true,
	ColumnTypePeople:      true,
	ColumnTypeTags:        true,
	ColumnTypeCountry:     true,
	ColumnTypeLocation:    true,
	ColumnTypeColorPicker: true,
}

var readOnlyTypes = map[ColumnType]bool{
	ColumnTypeFormula:       true,
	ColumnTypeMirror:        true,
	ColumnTypeLookup:        true,
	ColumnTypeAutoNumber:    true,
	ColumnTypeItemID:        true,
	ColumnTypeCreationLog:   true,
	ColumnTypeLastUpdated:   true,
	ColumnTypeSubtasks:      true,
	ColumnTypeButton:        true,
	ColumnTypeProgress:      true,
	ColumnTypeTimeTracking:  true,
	ColumnTypeVote:          true,
	ColumnTypeDependency:    true,
	ColumnTypeBoardRelation: true,
}

// Writable reports whether the type accepts values through column_values.
// The name column is written through item_name instead and is not writable here.
func (t ColumnType) Writable() bool {
	return writableTypes[t]
}

// ReadOnly reports whether Monday computes the column's value.
func (t ColumnType) ReadOnly() bool {
	return readOnlyTypes[t]
}

// Known reports whether the type is one boardframe understands.
func (t ColumnType) Known() bool {
	return t == ColumnTypeName || writableTypes[t] || readOnlyTypes[t]
}

// String implements fmt.Stringer
func (t ColumnType) String() string {
	return string(t)
}
