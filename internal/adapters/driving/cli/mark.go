package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var markCmd = &cobra.Command{
	Use:   "mark <file-id>...",
	Short: "Mark files for merging",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setMergeMarks(cmd, args, true)
	},
}

var unmarkCmd = &cobra.Command{
	Use:   "unmark <file-id>...",
	Short: "Unmark files for merging",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setMergeMarks(cmd, args, false)
	},
}

func init() {
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(unmarkCmd)
}

func setMergeMarks(cmd *cobra.Command, ids []string, selected bool) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	for _, id := range ids {
		if err := workspaceService.SetMergeSelected(cmd.Context(), id, selected); err != nil {
			return err
		}
		if selected {
			cmd.Printf("Marked %s for merge\n", id)
		} else {
			cmd.Printf("Unmarked %s\n", id)
		}
	}
	return nil
}
