package models

// ============================================================================
// FRAME FIELD NAMES
// ============================================================================

// Fields the reader adds to every row alongside the board's column titles
const (
	FieldItemID      = "item_id"
	FieldBoardName   = "board_name"
	FieldGroup       = "group"
	FieldName        = "name"
	FieldIsSubitem   = "is_subitem"
	FieldSubitemName = "subitem_name"
)

// ReservedFields lists the frame fields that are not board columns, in the
// order the reader emits them.
var ReservedFields = []string{
	FieldItemID,
	FieldBoardName,
	FieldGroup,
	FieldName,
	FieldIsSubitem,
	FieldSubitemName,
}

// IsReservedField reports whether name is one of ReservedFields
func IsReservedField(name string) bool {
	for _, f := range ReservedFields {
		if f == name {
			return true
		}
	}
	return false
}

// ============================================================================
// DEFAULTS
// ============================================================================

// DefaultItemName is used when a row has no name value
const DefaultItemName = "New Item"

// SubitemsColumnTitle is the title Monday gives the subitems column; it never
// appears in frames.
const SubitemsColumnTitle = "Subitems"

// Page size bounds accepted by items_page
const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)
