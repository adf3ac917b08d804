package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspace files",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	records, err := workspaceService.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("Workspace is empty. Add files with: pagedeck add <file>...")
		return nil
	}

	selectedID := ""
	if selected, err := workspaceService.Selected(cmd.Context()); err == nil {
		selectedID = selected.ID
	}

	for i := range records {
		rec := &records[i]

		marker := " "
		if rec.ID == selectedID {
			marker = "*"
		}
		mergeFlag := ""
		if rec.MergeSelected {
			mergeFlag = "  [merge]"
		}
		state := ""
		if rec.Rendering {
			state = "  rendering..."
		}

		cmd.Printf("%s %s\n", marker, rec.ID)
		cmd.Printf("    Name:     %s%s%s\n", rec.Name, mergeFlag, state)
		cmd.Printf("    Pages:    %d (%d previews)\n", len(rec.Pages), rec.RenderedPages())
		cmd.Println()
	}

	cmd.Printf("Total: %d files\n", len(records))
	return nil
}
