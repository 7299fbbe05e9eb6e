package monday

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/thenoetrevino/boardframe/internal/models"
)

// Client errors
var (
	// ErrNoToken indicates no API token was given and none could be found
	ErrNoToken = errors.New("No API token. Provide param or set MONDAY_API_TOKEN.")

	// ErrInvalidToken indicates the API rejected the token during verification
	ErrInvalidToken = errors.New("invalid API token")

	// ErrUnauthorized indicates the API answered 401 or 403
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBoardNotFound indicates the board ID matched no board
	ErrBoardNotFound = models.ErrBoardNotFound
)

// APIError is a failed API call. StatusCode is set for HTTP failures; Code and
// Messages carry GraphQL level errors, which Monday reports with status 200.
type APIError struct {
	StatusCode int
	Code       string
	Messages   []string
	Body       string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("monday api error")
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	switch {
	case len(e.Messages) > 0:
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	case e.Body != "":
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	return b.String()
}

// Unwrap maps authentication failures to ErrUnauthorized
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// Retryable reports whether the same request may succeed later: rate limits,
// exhausted complexity budgets and server errors.
func (e *APIError) Retryable() bool {
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500 {
		return true
	}
	switch e.Code {
	case "ComplexityException", "RATE_LIMIT_EXCEEDED", "RateLimitExceeded", "maxConcurrencyExceeded":
		return true
	}
	for _, m := range e.Messages {
		lower := strings.ToLower(m)
		if strings.Contains(lower, "rate limit exceeded") || strings.Contains(lower, "complexity budget exhausted") {
			return true
		}
	}
	return false
}
