package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [file-id]",
	Short: "Render page previews",
	Long: `Render page previews for a file, lowest page first.

Previews are stored in the workspace, so the TUI shows them instantly.
Already rendered pages are skipped. A rendering failure keeps the
previews produced so far.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if workspaceService == nil || renderService == nil {
		return errors.New("render service not configured")
	}

	id := ""
	if len(args) == 1 {
		id = args[0]
	}
	rec, err := resolveFile(cmd.Context(), id)
	if err != nil {
		return err
	}

	if err := renderService.RenderFile(cmd.Context(), rec.ID); err != nil {
		return err
	}

	status, err := renderService.Status(cmd.Context(), rec.ID)
	if err != nil {
		return err
	}
	cmd.Printf("Rendered %d previews for %s\n", status.PagesRendered, rec.Name)
	return nil
}
