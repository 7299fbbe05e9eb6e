package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/thenoetrevino/boardframe/cmd"
	"github.com/thenoetrevino/boardframe/internal/cli"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Command errors have already been reported by the formatter
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
