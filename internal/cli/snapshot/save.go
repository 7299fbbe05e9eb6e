package snapshot

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/cli/progress"
	"github.com/thenoetrevino/boardframe/internal/cli/styles"
	"github.com/thenoetrevino/boardframe/internal/frame"
	boardservice "github.com/thenoetrevino/boardframe/internal/services/board"
	snapshotservice "github.com/thenoetrevino/boardframe/internal/services/snapshot"
)

// SaveCmd returns the snapshot save subcommand
func SaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Read a board and store a local copy",
		Long: `Read a board and store the result in the local snapshot database.

Examples:
  boardframe snapshot save --board 1234567890 --label "before import"
  SNAP=$(boardframe snapshot save --board 1234567890 --quiet)
`,
		RunE: runSave,
	}

	cmd.Flags().String("board", "", "Board ID (defaults to $"+cli.EnvBoard+")")
	cmd.Flags().String("label", "", "Label to remember the snapshot by")
	cmd.Flags().Bool("subitems", false, "Include subitems")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (snapshot ID only)")

	return cmd
}

func runSave(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	boardFlag, _ := cmd.Flags().GetString("board")
	label, _ := cmd.Flags().GetString("label")
	subitems, _ := cmd.Flags().GetBool("subitems")

	boardID := cli.ResolveBoardID(boardFlag)
	if boardID == "" {
		return formatter.Fail(cli.Usagef("--board is required (or set %s)", cli.EnvBoard))
	}

	return cli.Run(cmd, formatter, func(ctx context.Context, c *cli.CLI) error {
		if err := c.RequireAPI(); err != nil {
			return err
		}
		if err := c.RequireStore(); err != nil {
			return err
		}

		board, err := c.App.BoardService.DescribeBoard(ctx, boardID)
		if err != nil {
			return err
		}

		var f *frame.Frame
		err = progress.Run(ctx, cmd.ErrOrStderr(), "Reading board "+boardID, c.ShowProgress(cmd, formatter),
			func(report boardservice.ProgressFunc) error {
				var err error
				f, err = c.App.BoardService.ReadBoard(ctx, boardservice.ReadOptions{
					BoardID:         boardID,
					IncludeSubitems: subitems,
					PageSize:        c.App.Config.Read.PageSize,
					Progress:        report,
				})
				return err
			})
		if err != nil {
			return err
		}

		snap, err := c.App.SnapshotService.Save(ctx, snapshotservice.SaveInput{
			BoardID:   board.ID,
			BoardName: board.Name,
			Label:     label,
		}, f)
		if err != nil {
			return err
		}

		if formatter.Quiet {
			formatter.Println(snap.ID)
			return nil
		}
		if formatter.JSON {
			return formatter.Success(map[string]any{"snapshot": snap})
		}
		formatter.Printf("%s\n", styles.SuccessStyle.Render("✓ Snapshot "+snap.ID+" saved"))
		formatter.Printf("%s\n", styles.Field("Board", board.Name+" ("+board.ID+")"))
		formatter.Printf("%s\n", styles.Field("Rows", humanize.Comma(int64(snap.RowCount))))
		return nil
	})
}
