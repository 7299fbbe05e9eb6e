package snapshot

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/cli/styles"
)

// DeleteCmd returns the snapshot delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <snapshot-id>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "No output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	id := args[0]

	return cli.Run(cmd, formatter, func(ctx context.Context, c *cli.CLI) error {
		if err := c.RequireStore(); err != nil {
			return err
		}
		if err := c.App.SnapshotService.Delete(ctx, id); err != nil {
			return err
		}
		if formatter.JSON {
			return formatter.Success(map[string]any{"deleted": id})
		}
		formatter.Printf("%s\n", styles.SuccessStyle.Render("✓ Snapshot "+id+" deleted"))
		return nil
	})
}
