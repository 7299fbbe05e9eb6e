// Package board holds the board read, write, describe and columns commands
package board

import (
	"github.com/spf13/cobra"
)

// BoardCmd returns the board parent command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Read, write and inspect Monday.com boards",
	}

	cmd.AddCommand(ReadCmd())
	cmd.AddCommand(WriteCmd())
	cmd.AddCommand(DescribeCmd())
	cmd.AddCommand(ColumnsCmd())

	return cmd
}

// addOutputFlags adds the agent-friendly flags every command carries
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")
}
