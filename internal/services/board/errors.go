package board

import "errors"

// Domain errors for board service
var (
	// Validation errors
	ErrInvalidColumn        = errors.New("invalid column")
	ErrInvalidMode          = errors.New("invalid mode: must be append, replace or upsert")
	ErrInvalidOverwriteType = errors.New("invalid overwrite type: must be delete or archive")
	ErrInvalidUpdateMethod  = errors.New("invalid update method: must be name or id")
	ErrNoBoardTarget        = errors.New("either a board ID or a board name is required")
	ErrInvalidValue         = errors.New("invalid value")
	ErrEmptyFrame           = errors.New("frame has no columns")
	ErrEmptyBoardID         = errors.New("board ID cannot be empty")
	ErrOrphanSubitem        = errors.New("subitem row has no parent row")
)
