package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
)

var (
	// exportForce exports even while previews are rendering.
	exportForce bool

	// exportDir overrides the configured output directory.
	exportDir string
)

var exportCmd = &cobra.Command{
	Use:   "export [file-id]",
	Short: "Export a file with its current page order",
	Long: `Export a file as a new PDF with its pages in the current display order.

The output is written as customized-<name>. While previews are still
rendering the export asks for confirmation (the result is identical
either way, the previews just aren't done); --force skips the question.
If page assembly fails, the unmodified original is written as
original-<name> instead so the document is never lost.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "Export even while previews are rendering")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Output directory (defaults to configured output dir)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if workspaceService == nil || exportService == nil {
		return errors.New("export service not configured")
	}

	id := ""
	if len(args) == 1 {
		id = args[0]
	}
	rec, err := resolveFile(cmd.Context(), id)
	if err != nil {
		return err
	}

	result, err := exportService.ExportFile(cmd.Context(), rec.ID, exportForce)
	if errors.Is(err, domain.ErrRenderInProgress) {
		if !confirmExport(cmd) {
			return fmt.Errorf("%w (re-run with --force to export anyway)", err)
		}
		result, err = exportService.ExportFile(cmd.Context(), rec.ID, true)
	}
	if err != nil {
		return err
	}

	path, err := writeOutput(result.Filename, result.Data)
	if err != nil {
		return err
	}

	if result.Fallback {
		cmd.Printf("Export failed (%v), wrote original to %s\n", result.Reason, path)
		return nil
	}
	cmd.Printf("Exported %s\n", path)
	return nil
}

// confirmExport asks whether to export during rendering. Only possible
// on a terminal; piped input means no.
func confirmExport(cmd *cobra.Command) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	cmd.Print("Previews are still rendering; the exported pages are unaffected. Export now? [y/N] ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// writeOutput writes an export result under the output directory and
// returns the full path.
func writeOutput(filename string, data []byte) (string, error) {
	dir := exportDir
	if dir == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			dir = settings.Output.Dir
		}
	}

	path := filename
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
		path = filepath.Join(dir, filename)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
