package use

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
)

// BoardCmd returns the use board subcommand
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board [board-id]",
		Short: "Set board context for current shell session",
		Long: `Set the current board context using environment variables.
This command outputs shell commands that should be evaluated:

  eval $(boardframe use board 1234567890)    # Use board 1234567890
  eval $(boardframe use board --clear)       # Clear board context
  boardframe use board --show                # Show current board

The BOARDFRAME_BOARD environment variable will be set in your current shell
session only. The --board flag on other commands takes precedence over
this environment variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUseBoard,
	}

	cmd.Flags().Bool("clear", false, "Clear the current board context")
	cmd.Flags().Bool("show", false, "Show the current board context")
	cmd.Flags().Bool("no-check", false, "Do not check that the board exists")

	return cmd
}

func runUseBoard(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	clearFlag, _ := cmd.Flags().GetBool("clear")
	showFlag, _ := cmd.Flags().GetBool("show")
	noCheck, _ := cmd.Flags().GetBool("no-check")

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if showFlag {
		current := os.Getenv(cli.EnvBoard)
		if current == "" {
			fmt.Fprintln(out, "No board context set")
			fmt.Fprintln(out, "Use 'eval $(boardframe use board <board-id>)' to set one")
			return nil
		}
		fmt.Fprintf(out, "Current board: %s\n", current)
		return nil
	}

	if clearFlag {
		fmt.Fprintf(out, "unset %s\n", cli.EnvBoard)
		fmt.Fprintln(errOut, "Cleared board context")
		return nil
	}

	if len(args) == 0 {
		return formatter.Fail(cli.Usagef("board ID required\nUsage: eval $(boardframe use board <board-id>)"))
	}
	boardID := args[0]

	if noCheck {
		fmt.Fprintf(out, "export %s=%s\n", cli.EnvBoard, boardID)
		return nil
	}

	return cli.Run(cmd, formatter, func(ctx context.Context, c *cli.CLI) error {
		name := ""
		if c.RequireAPI() == nil {
			board, err := c.App.BoardService.DescribeBoard(ctx, boardID)
			if err != nil {
				return err
			}
			name = board.Name
		}

		// Output shell export command (to stdout for eval)
		fmt.Fprintf(out, "export %s=%s\n", cli.EnvBoard, boardID)
		if name != "" {
			fmt.Fprintf(errOut, "Now using board %s: %s\n", boardID, name)
		} else {
			fmt.Fprintf(errOut, "Now using board %s\n", boardID)
		}
		return nil
	})
}
