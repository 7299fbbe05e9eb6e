package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	Out io.Writer
	Err io.Writer
}

// NewFormatter builds a formatter from a command's --json and --quiet flags,
// writing to the command's output streams
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quiet,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

// Human reports whether human-readable output should be written
func (f *OutputFormatter) Human() bool {
	return !f.JSON && !f.Quiet
}

// Success outputs a successful operation result. In JSON mode fields are
// merged into the {"success": true} envelope.
func (f *OutputFormatter) Success(fields map[string]any) error {
	if !f.JSON {
		return nil
	}
	envelope := map[string]any{"success": true}
	for k, v := range fields {
		envelope[k] = v
	}
	return json.NewEncoder(f.out()).Encode(envelope)
}

// Printf writes human-readable output; it is silent in JSON and quiet modes
func (f *OutputFormatter) Printf(format string, args ...any) {
	if f.Human() {
		lipgloss.Fprintf(f.out(), format, args...)
	}
}

// Println writes s with a newline in any mode. Used for quiet-mode IDs and
// for rendered tables. Colors are dropped when the output is not a terminal.
func (f *OutputFormatter) Println(s string) {
	lipgloss.Fprintln(f.out(), s)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	fmt.Fprintf(f.errOut(), "Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(f.errOut(), "Suggestion: %s\n", suggestion)
	}
	return nil
}

// Fail reports err and returns an *ExitError with the matching exit code
func (f *OutputFormatter) Fail(err error) error {
	code, exit := Classify(err)
	if fmtErr := f.ErrorWithSuggestion(code, err.Error(), suggestionFor(code)); fmtErr != nil {
		fmt.Fprintf(f.errOut(), "error formatting error message: %v\n", fmtErr)
	}
	return &ExitError{Code: exit, Err: err}
}

func suggestionFor(code string) string {
	switch code {
	case "NO_TOKEN":
		return "Run 'boardframe auth login' or export MONDAY_API_TOKEN"
	case "AUTH_ERROR":
		return "Check the token with 'boardframe auth verify'"
	case "BOARD_NOT_FOUND":
		return "Check the board ID, or set one with 'boardframe use board <id>'"
	case "SNAPSHOT_NOT_FOUND":
		return "Use 'boardframe snapshot list' to see saved snapshots"
	case "INVALID_COLUMN":
		return "Use 'boardframe board columns --board <id>' to list column titles"
	default:
		return ""
	}
}
