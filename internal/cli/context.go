package cli

import (
	"context"
	"os"
	"strings"

	"github.com/thenoetrevino/boardframe/internal/app"
)

// EnvBoard holds the board set with `boardframe use board`
const EnvBoard = "BOARDFRAME_BOARD"

type contextKey string

const appKey contextKey = "app"

// WithApp returns a context carrying a, used by GetCLIFromContext instead of
// building a new application
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// ResolveBoardID returns the --board flag value, falling back to BOARDFRAME_BOARD
func ResolveBoardID(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvBoard))
}
