package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the marked files into one PDF",
	Long: `Merge all files marked with "mark" into a single PDF.

Files are concatenated in workspace order, each with its current page
order. The merged document is written as merged-<timestamp>.pdf, added
to the workspace, and becomes the selection. At least two files must be
marked; one invalid file aborts the whole merge.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Output directory (defaults to configured output dir)")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, _ []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	result, err := exportService.Merge(cmd.Context())
	if err != nil {
		return err
	}

	path, err := writeOutput(result.Filename, result.Data)
	if err != nil {
		return err
	}

	cmd.Printf("Merged %d pages into %s\n", result.Record.TotalPages, path)
	cmd.Printf("Added to workspace as %s\n", result.Record.ID)
	return nil
}
