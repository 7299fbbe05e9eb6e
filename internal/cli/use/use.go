// Package use holds the command that sets a default board for the current shell
package use

import (
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
)

// UseCmd returns the use parent command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Set a default board for the current shell session",
		Long: `Commands that take --board fall back to $` + cli.EnvBoard + `.
"use board" prints the export line to eval in your shell.`,
	}

	cmd.AddCommand(BoardCmd())

	return cmd
}
