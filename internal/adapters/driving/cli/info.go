package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file-id]",
	Short: "Show details of a file",
	Long: `Show details of a workspace file: its identifier, page count,
current page order, preview progress and merge flag. Without an
argument the selected file is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	rec, err := resolveFile(cmd.Context(), id)
	if err != nil {
		return err
	}

	order := make([]string, 0, len(rec.Pages))
	for _, p := range rec.Pages {
		order = append(order, strconv.Itoa(p.PageNumber))
	}

	cmd.Printf("ID:         %s\n", rec.ID)
	cmd.Printf("Name:       %s\n", rec.Name)
	cmd.Printf("Size:       %d bytes\n", len(rec.Data))
	cmd.Printf("Pages:      %d\n", rec.TotalPages)
	cmd.Printf("Order:      %s\n", strings.Join(order, " "))
	cmd.Printf("Previews:   %d/%d\n", rec.RenderedPages(), len(rec.Pages))
	cmd.Printf("Merge:      %t\n", rec.MergeSelected)
	cmd.Printf("Rendering:  %t\n", rec.Rendering)
	cmd.Printf("Added:      %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
