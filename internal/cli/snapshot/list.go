package snapshot

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/cli/styles"
	"github.com/thenoetrevino/boardframe/internal/models"
)

// ListCmd returns the snapshot list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		RunE:  runList,
	}

	cmd.Flags().String("board", "", "Only snapshots of this board")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	boardID, _ := cmd.Flags().GetString("board")

	return cli.Run(cmd, formatter, func(ctx context.Context, c *cli.CLI) error {
		if err := c.RequireStore(); err != nil {
			return err
		}
		snaps, err := c.App.SnapshotService.List(ctx, boardID)
		if err != nil {
			return err
		}

		if formatter.Quiet {
			for _, s := range snaps {
				formatter.Println(s.ID)
			}
			return nil
		}
		if formatter.JSON {
			if snaps == nil {
				snaps = []*models.Snapshot{}
			}
			return formatter.Success(map[string]any{"snapshots": snaps})
		}

		if len(snaps) == 0 {
			formatter.Printf("No snapshots found\n")
			return nil
		}
		rows := make([][]string, len(snaps))
		for i, s := range snaps {
			rows[i] = []string{s.ID, s.BoardID, s.BoardName, s.Label, humanize.Comma(int64(s.RowCount)), humanize.Time(s.CreatedAt)}
		}
		formatter.Println(styles.Table([]string{"ID", "Board", "Name", "Label", "Rows", "Created"}, rows))
		return nil
	})
}
