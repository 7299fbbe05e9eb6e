// Package snapshot holds the commands that save and inspect local copies of boards
package snapshot

import (
	"github.com/spf13/cobra"
)

// SnapshotCmd returns the snapshot parent command
func SnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and inspect local copies of boards",
	}

	cmd.AddCommand(SaveCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}
