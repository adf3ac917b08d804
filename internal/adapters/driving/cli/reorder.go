package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// reorderFileID targets a specific file instead of the selection.
var reorderFileID string

var reorderCmd = &cobra.Command{
	Use:   "reorder <from> <to>",
	Short: "Move a page to a new position",
	Long: `Move the page at position <from> to position <to> within the selected
file. Positions are 1-based and refer to the current display order.

The page is lifted out of the sequence and reinserted, shifting the
pages in between. Positions outside the sequence leave it unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: runReorder,
}

func init() {
	reorderCmd.Flags().StringVarP(&reorderFileID, "file", "f", "", "File ID (defaults to the selected file)")
	rootCmd.AddCommand(reorderCmd)
}

func runReorder(cmd *cobra.Command, args []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[0])
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[1])
	}
	if from < 1 || to < 1 {
		return errors.New("positions are 1-based")
	}

	rec, err := resolveFile(cmd.Context(), reorderFileID)
	if err != nil {
		return err
	}

	moved, err := workspaceService.MovePage(cmd.Context(), rec.ID, from-1, to-1)
	if err != nil {
		return err
	}

	cmd.Printf("Page order of %s:", moved.Name)
	for _, p := range moved.Pages {
		cmd.Printf(" %d", p.PageNumber)
	}
	cmd.Println()
	return nil
}
