// Package tutorial holds the command that prints the boardframe workflow guide
package tutorial

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
)

//go:embed tutorial.md
var tutorialContent string

// TutorialCmd returns the tutorial command
func TutorialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tutorial",
		Short: "Show the boardframe workflow guide",
		Long: `Show a short guide to authenticating, reading, writing and
snapshotting boards. Piped output is the raw markdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetBool("raw")
			width, _ := cmd.Flags().GetInt("width")
			return outputTutorial(cmd, raw, width)
		},
	}

	cmd.Flags().Bool("raw", false, "Print the markdown source")
	cmd.Flags().Int("width", 100, "Wrap width")

	return cmd
}

func outputTutorial(cmd *cobra.Command, raw bool, width int) error {
	out := cmd.OutOrStdout()
	if raw || !cli.IsTerminal(out) {
		_, err := fmt.Fprint(out, tutorialContent)
		return err
	}
	rendered, err := cli.RenderMarkdown(out, tutorialContent, width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}
