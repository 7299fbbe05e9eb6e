package board

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/cli/styles"
)

// ColumnsCmd returns the board columns subcommand
func ColumnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List a board's columns",
		Long: `List a board's column titles, IDs and types.

Examples:
  boardframe board columns --board 1234567890
  boardframe board columns --board 1234567890 --quiet   # titles only
`,
		RunE: runColumns,
	}

	cmd.Flags().String("board", "", "Board ID (defaults to $"+cli.EnvBoard+")")
	addOutputFlags(cmd)

	return cmd
}

func runColumns(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	boardFlag, _ := cmd.Flags().GetString("board")

	boardID := cli.ResolveBoardID(boardFlag)
	if boardID == "" {
		return formatter.Fail(cli.Usagef("--board is required (or set %s)", cli.EnvBoard))
	}

	return cli.Run(cmd, formatter, func(ctx context.Context, c *cli.CLI) error {
		if err := c.RequireAPI(); err != nil {
			return err
		}
		board, err := c.App.BoardService.DescribeBoard(ctx, boardID)
		if err != nil {
			return err
		}

		if formatter.Quiet {
			for _, col := range board.Columns {
				formatter.Println(col.Title)
			}
			return nil
		}
		if formatter.JSON {
			return formatter.Success(map[string]any{"board_id": board.ID, "columns": board.Columns})
		}

		rows := make([][]string, len(board.Columns))
		for i, col := range board.Columns {
			rows[i] = []string{col.Title, col.ID, string(col.Type)}
		}
		formatter.Println(styles.TitleStyle.Render(board.Name))
		formatter.Println(styles.Table([]string{"Title", "ID", "Type"}, rows))
		return nil
	})
}
