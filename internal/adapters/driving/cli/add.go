package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// addRender renders previews immediately after adding.
var addRender bool

var addCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Add PDF files to the workspace",
	Long: `Add one or more PDF files to the workspace.

Each file is validated independently: unreadable or corrupted files are
reported and skipped while the rest of the batch is added. The first
file added to an empty workspace becomes the selection.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&addRender, "render", false, "Render page previews after adding")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	result, err := workspaceService.AddFiles(cmd.Context(), args)
	if err != nil {
		return err
	}

	for i := range result.Added {
		rec := &result.Added[i]
		cmd.Printf("Added %s (%d pages) as %s\n", rec.Name, rec.TotalPages, rec.ID)
	}
	for _, skipped := range result.Skipped {
		cmd.Printf("Skipped %s: %v\n", skipped.Name, skipped.Err)
	}

	if addRender && renderService != nil {
		for i := range result.Added {
			if err := renderService.RenderFile(cmd.Context(), result.Added[i].ID); err != nil {
				cmd.Printf("Rendering %s failed: %v\n", result.Added[i].Name, err)
			}
		}
	}

	if len(result.Added) == 0 && len(result.Skipped) > 0 {
		return errors.New("no files added")
	}
	return nil
}
