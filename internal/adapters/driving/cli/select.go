package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select <file-id>",
	Short: "Select a file to work on",
	Long: `Select a file to work on.

Commands that take an optional file ID (reorder, export, render) act on
the selected file when the ID is omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	if err := workspaceService.Select(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Selected %s\n", args[0])
	return nil
}
