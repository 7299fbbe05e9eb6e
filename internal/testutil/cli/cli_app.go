// Package cli provides helpers for command tests. It lives apart from
// testutil so that service tests importing testutil do not pull in the CLI.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/app"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/config"
	"github.com/thenoetrevino/boardframe/internal/logging"
	"github.com/thenoetrevino/boardframe/internal/testutil"
)

// Result holds what a command wrote
type Result struct {
	Stdout string
	Stderr string
}

// SetupCLITest starts a fake Monday.com server and an in-memory snapshot
// store and returns an App wired to both. The config lives in a temp dir.
func SetupCLITest(t *testing.T) (*testutil.MondayServer, *app.App) {
	t.Helper()
	srv := testutil.SetupMondayServer(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	cfg.API.URL = srv.URL

	appInstance := app.New(cfg, srv.Client(t), testutil.SetupTestDB(t), app.WithLogger(logging.Discard()))
	return srv, appInstance
}

// SetupCLITestWithoutToken returns an App with no API client
func SetupCLITestWithoutToken(t *testing.T) *app.App {
	t.Helper()
	return app.New(config.Default(), nil, testutil.SetupTestDB(t), app.WithLogger(logging.Discard()))
}

// ExecuteCLICommand executes a CLI command with a test app instance and
// returns its standard output
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()
	res, err := ExecuteCLICommandWithInput(t, testApp, cmd, args, nil)
	return res.Stdout, err
}

// ExecuteCLICommandWithInput executes a CLI command with stdin set to in
func ExecuteCLICommandWithInput(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string, in io.Reader) (Result, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if in != nil {
		cmd.SetIn(in)
	}

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(cli.WithApp(context.Background(), testApp))
	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, err
}

// ParseJSON decodes a command's --json output into a map
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}
