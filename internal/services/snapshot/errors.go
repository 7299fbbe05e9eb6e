package snapshot

import "errors"

// Domain errors for snapshot service
var (
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrInvalidSnapshotID = errors.New("snapshot ID cannot be empty")
	ErrEmptyBoardID      = errors.New("board ID cannot be empty")
	ErrNilFrame          = errors.New("frame cannot be nil")
)
