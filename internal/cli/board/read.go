package board

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/cli/progress"
	"github.com/thenoetrevino/boardframe/internal/frame"
	boardservice "github.com/thenoetrevino/boardframe/internal/services/board"
)

// ReadCmd returns the board read subcommand
func ReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read a board into a table",
		Long: `Read every item of a board into a table, one row per item.

Examples:
  # Print a board as a table
  boardframe board read --board 1234567890

  # Only some columns, items in group "Todo" with Status "Done"
  boardframe board read --board 1234567890 --columns name,Status --where group=Todo --where Status=Done

  # Include subitems and save as CSV
  boardframe board read --board 1234567890 --subitems --output items.csv

  # JSON records for agents
  boardframe board read --board 1234567890 --json
`,
		RunE: runRead,
	}

	cmd.Flags().String("board", "", "Board ID (defaults to $"+cli.EnvBoard+")")
	cmd.Flags().String("columns", "", "Comma separated columns to keep, in order")
	cmd.Flags().Bool("subitems", false, "Include subitems as rows after their parent")
	cmd.Flags().StringArray("where", nil, "Keep rows where Column=Value (repeatable, all must match)")
	cmd.Flags().Int("max", 0, "Maximum number of items to fetch (0 = all)")
	cmd.Flags().Int("page-size", 0, "Items per API page, 1-500 (default from config)")
	cmd.Flags().Bool("typed", false, "Decode numbers, checkboxes, ratings and dates instead of display text")
	cmd.Flags().String("format", cli.FormatTable, "Output format: table, csv or json")
	cmd.Flags().StringP("output", "o", "", "Write the result to a file instead of stdout")

	addOutputFlags(cmd)

	return cmd
}

func runRead(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)

	boardFlag, _ := cmd.Flags().GetString("board")
	columns, _ := cmd.Flags().GetString("columns")
	subitems, _ := cmd.Flags().GetBool("subitems")
	where, _ := cmd.Flags().GetStringArray("where")
	maxResults, _ := cmd.Flags().GetInt("max")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	typed, _ := cmd.Flags().GetBool("typed")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	boardID := cli.ResolveBoardID(boardFlag)
	if boardID == "" {
		return formatter.Fail(cli.Usagef("--board is required (or set %s)", cli.EnvBoard))
	}
	filter, err := cli.ParseAssignments(where)
	if err != nil {
		return formatter.Fail(err)
	}

	return cli.Run(cmd, formatter, func(ctx context.Context, c *cli.CLI) error {
		if err := c.RequireAPI(); err != nil {
			return err
		}
		if pageSize == 0 {
			pageSize = c.App.Config.Read.PageSize
		}

		opts := boardservice.ReadOptions{
			BoardID:         boardID,
			Columns:         cli.SplitList(columns),
			IncludeSubitems: subitems,
			Filter:          filter,
			MaxResults:      maxResults,
			PageSize:        pageSize,
			Typed:           typed,
		}

		var f *frame.Frame
		err := progress.Run(ctx, cmd.ErrOrStderr(), "Reading board "+boardID, c.ShowProgress(cmd, formatter),
			func(report boardservice.ProgressFunc) error {
				opts.Progress = report
				var err error
				f, err = c.App.BoardService.ReadBoard(ctx, opts)
				return err
			})
		if err != nil {
			return err
		}

		if output != "" {
			if err := writeFile(output, f, format); err != nil {
				return err
			}
			formatter.Printf("✓ Wrote %d rows to %s\n", f.Len(), output)
			return formatter.Success(map[string]any{"board_id": boardID, "rows": f.Len(), "output": output})
		}

		if formatter.JSON {
			return formatter.Success(map[string]any{
				"board_id": boardID,
				"rows":     f.Len(),
				"columns":  f.Columns(),
				"data":     f,
			})
		}
		return cli.WriteFrame(formatter.Out, f, format)
	})
}

func writeFile(path string, f *frame.Frame, format string) error {
	if format == cli.FormatTable {
		format = cli.FormatFromPath(path)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := cli.WriteFrame(file, f, format); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
