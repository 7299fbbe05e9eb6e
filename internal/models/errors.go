package models

import "errors"

// Domain errors shared by the client and the services
var (
	// ErrBoardNotFound indicates the board ID matched no board visible to the token
	ErrBoardNotFound = errors.New("board not found")

	// ErrItemNotFound indicates a mutation referenced an item that no longer exists
	ErrItemNotFound = errors.New("item not found")

	// ErrReadOnlyColumn indicates a value was written to a computed column
	ErrReadOnlyColumn = errors.New("column is read-only")
)
