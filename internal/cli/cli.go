// Package cli holds the pieces shared by every boardframe command: the
// application bootstrap, output formatting, exit codes and board context.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/app"
	"github.com/thenoetrevino/boardframe/internal/config"
	"github.com/thenoetrevino/boardframe/internal/database"
	"github.com/thenoetrevino/boardframe/internal/logging"
	"github.com/thenoetrevino/boardframe/internal/monday"
)

// CLI represents the CLI application context
type CLI struct {
	App     *app.App
	Options GlobalOptions

	// tokenErr is why App.Client is nil
	tokenErr error
	owned    bool
}

// GlobalOptions are the persistent root flags
type GlobalOptions struct {
	Token      string
	ConfigPath string
	Verbose    bool
	NoProgress bool
}

// GlobalFlags reads the persistent root flags. Missing flags read as zero
// values so subcommands can run on their own in tests.
func GlobalFlags(cmd *cobra.Command) GlobalOptions {
	token, _ := cmd.Flags().GetString("token")
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	return GlobalOptions{
		Token:      token,
		ConfigPath: configPath,
		Verbose:    verbose,
		NoProgress: noProgress,
	}
}

// NewCLI loads the config, resolves the API token and opens the snapshot
// database. A missing token is not an error here; commands that talk to
// Monday.com call RequireAPI.
func NewCLI(ctx context.Context, opts GlobalOptions) (*CLI, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.Default()

	var client *monday.Client
	token, source, tokenErr := monday.ResolveToken(opts.Token, cfg.API.TokenEnv, cfg.API.Token)
	if tokenErr == nil {
		clientOpts := append(cfg.API.ClientOptions(), monday.WithLogger(logger))
		client, tokenErr = monday.New(token, clientOpts...)
		logger.Debug("resolved api token", "source", source)
	}

	if tokenErr == nil && cfg.API.VerifyToken {
		if _, err := client.VerifyToken(ctx); err != nil {
			return nil, err
		}
	}

	db, err := database.InitDB(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &CLI{
		App:      app.New(cfg, client, db, app.WithLogger(logger)),
		Options:  opts,
		tokenErr: tokenErr,
		owned:    true,
	}, nil
}

// GetCLIFromContext returns the CLI for a command. An App placed in the
// context with WithApp is used as is; otherwise a new CLI is built from the
// global flags.
func GetCLIFromContext(ctx context.Context, cmd *cobra.Command) (*CLI, error) {
	opts := GlobalFlags(cmd)
	if a, ok := ctx.Value(appKey).(*app.App); ok && a != nil {
		c := &CLI{App: a, Options: opts}
		if a.Client == nil {
			c.tokenErr = monday.ErrNoToken
		}
		return c, nil
	}
	return NewCLI(ctx, opts)
}

// RequireAPI returns the token error when no Monday.com client is available
func (c *CLI) RequireAPI() error {
	if c.App.Client == nil {
		if c.tokenErr != nil {
			return c.tokenErr
		}
		return monday.ErrNoToken
	}
	return nil
}

// RequireStore returns an error when the snapshot database is unavailable
func (c *CLI) RequireStore() error {
	if c.App.SnapshotService == nil {
		return errors.New("snapshot store is not available")
	}
	return nil
}

// Close cleans up CLI resources. An injected App is left open.
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	return c.App.Close()
}

// SetupLogging installs the file logger. --verbose lowers the level to debug
// and mirrors records to stderr.
func SetupLogging(opts GlobalOptions, stderr io.Writer) error {
	level := slog.LevelInfo
	var mirror io.Writer
	if opts.Verbose {
		level = slog.LevelDebug
		mirror = stderr
	}
	return logging.Init(level, mirror)
}

// closeCLI closes c and logs any error
func closeCLI(c *CLI) {
	if err := c.Close(); err != nil {
		slog.Error("error closing cli", "error", err)
	}
}

// Run opens the CLI for cmd, passes it to fn and closes it afterwards.
// Errors are reported through formatter and returned as *ExitError.
func Run(cmd *cobra.Command, formatter *OutputFormatter, fn func(ctx context.Context, c *CLI) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := GetCLIFromContext(ctx, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	defer closeCLI(c)

	if err := fn(ctx, c); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		return formatter.Fail(err)
	}
	return nil
}

// ShowProgress reports whether a spinner should be drawn for cmd
func (c *CLI) ShowProgress(cmd *cobra.Command, formatter *OutputFormatter) bool {
	return !c.Options.NoProgress && formatter.Human() && IsTerminal(cmd.ErrOrStderr())
}

// IsTerminal reports whether v is a file attached to an interactive terminal
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
