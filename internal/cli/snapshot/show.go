package snapshot

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
)

// ShowCmd returns the snapshot show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <snapshot-id>",
		Short: "Print a saved snapshot",
		Long: `Print the rows of a saved snapshot.

Examples:
  boardframe snapshot show 0b6f... --format csv > board.csv
  boardframe snapshot show 0b6f... --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().String("format", cli.FormatTable, "Output format: table, csv or json")
	cmd.Flags().Bool("json", false, "Output in JSON format")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	format, _ := cmd.Flags().GetString("format")

	return cli.Run(cmd, formatter, func(ctx context.Context, c *cli.CLI) error {
		if err := c.RequireStore(); err != nil {
			return err
		}
		snap, f, err := c.App.SnapshotService.Load(ctx, args[0])
		if err != nil {
			return err
		}

		if formatter.JSON {
			return formatter.Success(map[string]any{"snapshot": snap, "data": f})
		}
		return cli.WriteFrame(formatter.Out, f, format)
	})
}
