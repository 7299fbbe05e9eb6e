package cli

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/boardframe/internal/converters"
	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/models"
	"github.com/thenoetrevino/boardframe/internal/monday"
	boardservice "github.com/thenoetrevino/boardframe/internal/services/board"
	snapshotservice "github.com/thenoetrevino/boardframe/internal/services/snapshot"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a general error occurred.
	// Use for: network errors, API errors, unexpected failures.
	ExitFailure = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or invalid flag combinations.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Board not found, item not found, snapshot not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Unreadable CSV/JSON input or values a column cannot hold.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Unknown columns, invalid mode, overwrite type or update method.
	ExitValidation = 5

	// ExitAuth indicates a missing or rejected API token.
	ExitAuth = 6
)

// ExitError carries the process exit code for a failed command. The error
// has already been reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for err: the code of an *ExitError, or the
// code Classify assigns
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	_, code := Classify(err)
	return code
}

// Classify maps an error to an error code string and exit code
func Classify(err error) (string, int) {
	switch {
	case errors.Is(err, monday.ErrNoToken):
		return "NO_TOKEN", ExitAuth
	case errors.Is(err, monday.ErrInvalidToken), errors.Is(err, monday.ErrUnauthorized):
		return "AUTH_ERROR", ExitAuth
	case errors.Is(err, models.ErrBoardNotFound):
		return "BOARD_NOT_FOUND", ExitNotFound
	case errors.Is(err, models.ErrItemNotFound):
		return "ITEM_NOT_FOUND", ExitNotFound
	case errors.Is(err, snapshotservice.ErrSnapshotNotFound):
		return "SNAPSHOT_NOT_FOUND", ExitNotFound
	case errors.Is(err, boardservice.ErrInvalidColumn),
		errors.Is(err, frame.ErrColumnNotFound):
		return "INVALID_COLUMN", ExitValidation
	case errors.Is(err, boardservice.ErrInvalidMode),
		errors.Is(err, boardservice.ErrInvalidOverwriteType),
		errors.Is(err, boardservice.ErrInvalidUpdateMethod),
		errors.Is(err, boardservice.ErrNoBoardTarget),
		errors.Is(err, boardservice.ErrEmptyBoardID),
		errors.Is(err, boardservice.ErrOrphanSubitem),
		errors.Is(err, snapshotservice.ErrInvalidSnapshotID),
		errors.Is(err, snapshotservice.ErrEmptyBoardID),
		errors.Is(err, converters.ErrUnsupportedType),
		errors.Is(err, models.ErrReadOnlyColumn):
		return "VALIDATION_ERROR", ExitValidation
	case errors.Is(err, boardservice.ErrInvalidValue),
		errors.Is(err, boardservice.ErrEmptyFrame),
		errors.Is(err, converters.ErrInvalidValue),
		errors.Is(err, frame.ErrRowLength),
		errors.Is(err, frame.ErrDuplicateColumn),
		errors.Is(err, ErrInvalidInput):
		return "DATA_ERROR", ExitDataErr
	case errors.Is(err, ErrUsage):
		return "USAGE_ERROR", ExitUsage
	default:
		return "ERROR", ExitFailure
	}
}

// Usage errors
var (
	ErrUsage        = errors.New("usage error")
	ErrInvalidInput = errors.New("invalid input")
)

// Usagef returns an error classified as incorrect usage
func Usagef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}
