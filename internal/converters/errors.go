package converters

import "errors"

// Value conversion errors
var (
	// ErrInvalidValue indicates a frame value cannot be expressed in the column's type
	ErrInvalidValue = errors.New("invalid value for column type")

	// ErrUnsupportedType indicates a column type boardframe cannot write
	ErrUnsupportedType = errors.New("unsupported column type")

	// ErrDisplayText indicates a value is the column's rendered text (a
	// person's name, a tag label, an address) rather than the IDs or
	// coordinates the API accepts for writing
	ErrDisplayText = errors.New("display text cannot be written back")
)
