package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/models"
)

// DescribeCmd returns the board describe subcommand
func DescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show a board's columns and groups",
		Long: `Show a board's name, columns (with their types) and groups.

Examples:
  boardframe board describe --board 1234567890
  boardframe board describe --board 1234567890 --json
`,
		RunE: runDescribe,
	}

	cmd.Flags().String("board", "", "Board ID (defaults to $"+cli.EnvBoard+")")
	cmd.Flags().Int("width", 100, "Wrap width for the rendered description")
	addOutputFlags(cmd)

	return cmd
}

func runDescribe(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	boardFlag, _ := cmd.Flags().GetString("board")
	width, _ := cmd.Flags().GetInt("width")

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

		if formatter.JSON {
			return formatter.Success(map[string]any{"board": board})
		}
		if formatter.Quiet {
			formatter.Println(board.ID)
			return nil
		}

		out, err := cli.RenderMarkdown(formatter.Out, describeMarkdown(board), width)
		if err != nil {
			return err
		}
		fmt.Fprint(formatter.Out, out)
		return nil
	})
}

// describeMarkdown renders board metadata as a markdown document
func describeMarkdown(b *models.Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", b.Name)
	fmt.Fprintf(&sb, "**ID:** %s", b.ID)
	if b.Kind != "" {
		fmt.Fprintf(&sb, " · **Kind:** %s", b.Kind)
	}
	if b.WorkspaceID != "" {
		fmt.Fprintf(&sb, " · **Workspace:** %s", b.WorkspaceID)
	}
	sb.WriteString("\n\n## Columns\n\n")
	sb.WriteString("| Title | ID | Type | Writable |\n|---|---|---|---|\n")
	for _, col := range b.Columns {
		writable := "yes"
		if !col.Writable() {
			writable = "no"
		}
		fmt.Fprintf(&sb, "| %s | `%s` | %s | %s |\n", escapeCell(col.Title), col.ID, col.Type, writable)
	}
	sb.WriteString("\n## Groups\n\n")
	if len(b.Groups) == 0 {
		sb.WriteString("_No groups_\n")
	}
	for _, g := range b.Groups {
		fmt.Fprintf(&sb, "- **%s** (`%s`)\n", g.Title, g.ID)
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
