// Package cmd wires the boardframe command tree
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/cli/auth"
	"github.com/thenoetrevino/boardframe/internal/cli/board"
	"github.com/thenoetrevino/boardframe/internal/cli/snapshot"
	"github.com/thenoetrevino/boardframe/internal/cli/styles"
	"github.com/thenoetrevino/boardframe/internal/cli/tutorial"
	"github.com/thenoetrevino/boardframe/internal/cli/use"
	"github.com/thenoetrevino/boardframe/internal/config"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "dev"

// NewRootCmd builds the boardframe command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "boardframe",
		Short: "Move tabular data between Monday.com boards and CSV/JSON",
		Long: `boardframe reads Monday.com boards into tables and writes tables back
to boards. Tables are read from and written to CSV or JSON files.

Examples:
  boardframe auth login
  boardframe board read --board 1234567890 --format csv > board.csv
  boardframe board write --board 1234567890 --input board.csv --mode upsert
`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GlobalFlags(cmd)
			if err := cli.SetupLogging(opts, cmd.ErrOrStderr()); err != nil {
				return err
			}
			// A broken config is reported by the command that loads it
			if cfg, err := config.Load(opts.ConfigPath); err == nil {
				styles.Init(cfg.Theme)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("token", "", "Monday.com API token (overrides $MONDAY_API_TOKEN and the config file)")
	flags.String("config", "", "Config file path (defaults to $"+config.EnvConfigPath+" or ~/.config/boardframe/config.yaml)")
	flags.BoolP("verbose", "v", false, "Log debug output to stderr")
	flags.Bool("no-progress", false, "Disable progress spinners")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cli.Usagef("%v", err)
	})

	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(snapshot.SnapshotCmd())
	rootCmd.AddCommand(auth.AuthCmd())
	rootCmd.AddCommand(use.UseCmd())
	rootCmd.AddCommand(tutorial.TutorialCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
