package board

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/cli/progress"
	"github.com/thenoetrevino/boardframe/internal/cli/styles"
	boardservice "github.com/thenoetrevino/boardframe/internal/services/board"
)

// ErrAborted is returned when the user declines the replace confirmation
var ErrAborted = errors.New("aborted by user")

// WriteCmd returns the board write subcommand
func WriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write a CSV or JSON table to a board",
		Long: `Write each row of a CSV or JSON file as a board item.

Column headers are board column titles. The "name" column holds item names,
"group" picks the group by title, and rows with is_subitem=true become
subitems of the row before them.

Examples:
  # Append rows to an existing board
  boardframe board write --input tasks.csv --board 1234567890

  # Create a new board from the file
  boardframe board write --input tasks.csv --board-name "Q3 Tasks" --type Due=date

  # Replace every item, archiving instead of deleting
  boardframe board write --input tasks.csv --board 1234567890 --mode replace --overwrite-type archive --yes

  # Update items matched by name, create the rest
  boardframe board write --input tasks.json --board 1234567890 --mode upsert

  # Show what would change without touching the board
  boardframe board write --input tasks.csv --board 1234567890 --mode upsert --dry-run --json
`,
		RunE: runWrite,
	}

	cmd.Flags().StringP("input", "i", "", "CSV or JSON file to write (- reads CSV from stdin) (required)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().String("input-format", "", "Input format: csv or json (default from the file extension)")

	cmd.Flags().String("board", "", "Board ID (defaults to $"+cli.EnvBoard+")")
	cmd.Flags().String("board-name", "", "Create a new board with this name")
	cmd.Flags().String("workspace", "", "Workspace ID for a new board")
	cmd.Flags().String("board-kind", "public", "Kind of a new board: public, private or share")

	cmd.Flags().String("mode", string(boardservice.ModeAppend), "Write mode: append, replace or upsert")
	cmd.Flags().String("overwrite-type", string(boardservice.OverwriteDelete), "How replace removes items: delete or archive")
	cmd.Flags().String("update-method", string(boardservice.UpdateByName), "How upsert matches items: name or id")

	cmd.Flags().String("group", "", "Group ID for every new item")
	cmd.Flags().String("name-column", "", "Column holding item names (default \"name\")")
	cmd.Flags().StringArray("type", nil, "Column type for a new board column, Column=type (repeatable)")
	cmd.Flags().Bool("create-labels", false, "Create status and dropdown labels that do not exist")
	cmd.Flags().Bool("create-groups", false, "Create groups named in the group column that do not exist")

	cmd.Flags().Int("chunk-size", 0, "Rows written per batch (default from config)")
	cmd.Flags().Int("concurrency", 0, "Mutations in flight per batch (default from config)")

	cmd.Flags().Bool("dry-run", false, "Plan the write without changing the board")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask before replacing items")

	addOutputFlags(cmd)

	return cmd
}

func runWrite(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	flags := cmd.Flags()

	input, _ := flags.GetString("input")
	inputFormat, _ := flags.GetString("input-format")
	boardFlag, _ := flags.GetString("board")
	boardName, _ := flags.GetString("board-name")
	workspace, _ := flags.GetString("workspace")
	boardKind, _ := flags.GetString("board-kind")
	modeFlag, _ := flags.GetString("mode")
	overwriteFlag, _ := flags.GetString("overwrite-type")
	updateFlag, _ := flags.GetString("update-method")
	group, _ := flags.GetString("group")
	nameColumn, _ := flags.GetString("name-column")
	types, _ := flags.GetStringArray("type")
	createLabels, _ := flags.GetBool("create-labels")
	createGroups, _ := flags.GetBool("create-groups")
	chunkSize, _ := flags.GetInt("chunk-size")
	concurrency, _ := flags.GetInt("concurrency")
	dryRun, _ := flags.GetBool("dry-run")
	yes, _ := flags.GetBool("yes")

	mode, err := boardservice.ParseMode(modeFlag)
	if err != nil {
		return formatter.Fail(err)
	}
	overwrite, err := boardservice.ParseOverwriteType(overwriteFlag)
	if err != nil {
		return formatter.Fail(err)
	}
	update, err := boardservice.ParseUpdateMethod(updateFlag)
	if err != nil {
		return formatter.Fail(err)
	}
	columnTypes, err := cli.ParseColumnTypes(types)
	if err != nil {
		return formatter.Fail(err)
	}

	var boardID string
	if boardName == "" {
		boardID = cli.ResolveBoardID(boardFlag)
	} else if boardFlag != "" {
		return formatter.Fail(cli.Usagef("--board and --board-name cannot be used together"))
	}
	if boardID == "" && boardName == "" {
		return formatter.Fail(boardservice.ErrNoBoardTarget)
	}

	f, err := cli.ReadFrameFile(input, inputFormat, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(err)
	}

	return cli.Run(cmd, formatter, func(ctx context.Context, c *cli.CLI) error {
		if err := c.RequireAPI(); err != nil {
			return err
		}
		cfg := c.App.Config.Write
		if chunkSize == 0 {
			chunkSize = cfg.ChunkSize
		}
		if concurrency == 0 {
			concurrency = cfg.Concurrency
		}

		if mode == boardservice.ModeReplace && boardID != "" && !dryRun && !yes {
			ok, err := cli.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
				fmt.Sprintf("Replace every item on board %s?", boardID),
				fmt.Sprintf("Existing items will be %sd before %d rows are written.", overwrite, f.Len()))
			if err != nil {
				return err
			}
			if !ok {
				return ErrAborted
			}
		}

		opts := boardservice.WriteOptions{
			BoardID:               boardID,
			BoardName:             boardName,
			WorkspaceID:           workspace,
			BoardKind:             boardKind,
			Mode:                  mode,
			OverwriteType:         overwrite,
			UpdateMethod:          update,
			GroupID:               group,
			NameColumn:            nameColumn,
			ColumnTypes:           columnTypes,
			CreateLabelsIfMissing: createLabels || cfg.CreateLabelsIfMissing,
			CreateMissingGroups:   createGroups,
			ChunkSize:             chunkSize,
			Concurrency:           concurrency,
			DryRun:                dryRun,
		}

		var result *boardservice.WriteResult
		title := "Writing " + humanize.Comma(int64(f.Len())) + " rows"
		err := progress.Run(ctx, cmd.ErrOrStderr(), title, c.ShowProgress(cmd, formatter),
			func(report boardservice.ProgressFunc) error {
				opts.Progress = report
				var err error
				result, err = c.App.BoardService.WriteBoard(ctx, f, opts)
				return err
			})
		if err != nil {
			return err
		}

		if formatter.Quiet {
			for _, id := range result.ItemIDs {
				if id != "" {
					formatter.Println(id)
				}
			}
			return nil
		}
		if formatter.JSON {
			return formatter.Success(map[string]any{"result": result})
		}

		printWriteResult(formatter, result)
		return nil
	})
}

func printWriteResult(formatter *cli.OutputFormatter, result *boardservice.WriteResult) {
	if result.DryRun {
		formatter.Printf("%s\n", styles.WarningStyle.Render("Dry run: no changes made"))
		formatter.Printf("%s\n", styles.Field("Board", orNew(result.BoardID)))
		if len(result.Planned) > 0 {
			rows := make([][]string, len(result.Planned))
			for i, op := range result.Planned {
				row := ""
				if op.Row >= 0 {
					row = strconv.Itoa(op.Row)
				}
				rows[i] = []string{string(op.Kind), row, op.Name, op.ItemID, op.GroupID}
			}
			formatter.Println(styles.Table([]string{"Operation", "Row", "Name", "Item", "Group"}, rows))
		}
	} else {
		formatter.Printf("%s\n", styles.SuccessStyle.Render("✓ Board "+result.BoardID+" written"))
	}

	formatter.Printf("%s\n", styles.Field("Created", humanize.Comma(int64(len(result.Created)))))
	formatter.Printf("%s\n", styles.Field("Updated", humanize.Comma(int64(len(result.Updated)))))
	formatter.Printf("%s\n", styles.Field("Removed", humanize.Comma(int64(len(result.Removed)))))
	if len(result.Skipped) > 0 {
		formatter.Printf("%s\n", styles.Field("Skipped read-only columns", fmt.Sprint(result.Skipped)))
	}
	if len(result.Unsupported) > 0 {
		formatter.Printf("%s\n", styles.Field("Skipped unsupported columns", fmt.Sprint(result.Unsupported)))
	}
	if len(result.SkippedCells) > 0 {
		formatter.Printf("%s\n", styles.Field("Skipped display-text cells", humanize.Comma(int64(len(result.SkippedCells)))))
	}
	formatter.Printf("%s\n", styles.SubtitleStyle.Render("Run "+result.RunID))
}

func orNew(boardID string) string {
	if boardID == "" {
		return "(new board)"
	}
	return boardID
}
