package monday

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/thenoetrevino/boardframe/internal/models"
)

// DefaultTokenEnv is the environment variable read when no token is passed
const DefaultTokenEnv = "MONDAY_API_TOKEN"

// TokenSource describes where a resolved token came from
type TokenSource string

const (
	TokenSourceFlag   TokenSource = "flag"
	TokenSourceEnv    TokenSource = "env"
	TokenSourceConfig TokenSource = "config"
)

// ResolveToken picks the API token: the explicit value first, then the
// environment variable envName (DefaultTokenEnv when empty), then the token
// stored in the config file.
func ResolveToken(explicit, envName, configToken string) (string, TokenSource, error) {
	if t := strings.TrimSpace(explicit); t != "" {
		return t, TokenSourceFlag, nil
	}
	if envName == "" {
		envName = DefaultTokenEnv
	}
	if t := strings.TrimSpace(os.Getenv(envName)); t != "" {
		return t, TokenSourceEnv, nil
	}
	if t := strings.TrimSpace(configToken); t != "" {
		return t, TokenSourceConfig, nil
	}
	return "", "", ErrNoToken
}

// Me returns the account that owns the token
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		Me *models.User `json:"me"`
	}
	if err := c.Execute(ctx, meQuery, nil, &out); err != nil {
		return nil, err
	}
	if out.Me == nil {
		return nil, ErrInvalidToken
	}
	return out.Me, nil
}

// VerifyToken checks the token against the API and returns its owner.
// A rejected token is reported as ErrInvalidToken.
func (c *Client) VerifyToken(ctx context.Context) (*models.User, error) {
	user, err := c.Me(ctx)
	if errors.Is(err, ErrUnauthorized) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return user, err
}
