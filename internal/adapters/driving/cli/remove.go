package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <file-id>",
	Short: "Remove a file from the workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the whole workspace",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	if err := workspaceService.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	if err := workspaceService.Clear(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Workspace cleared")
	return nil
}
