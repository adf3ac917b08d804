// Package cli implements the command line interface for pagedeck.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
	"github.com/pagedeck/pagedeck-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by the composition root.
var (
	workspaceService driving.WorkspaceService
	renderService    driving.RenderService
	exportService    driving.ExportService
	settingsService  driving.SettingsService
)

// verbose enables debug logging.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pagedeck",
	Short: "Reorder, export and merge PDF pages",
	Long: `Pagedeck is a workspace for rearranging PDF documents.

Load PDF files, reorder their pages, then export each document with its
new page order or merge several documents into one. The workspace is
shared between invocations, so you can build up a session command by
command or drive everything from the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services bundles everything the commands need.
type Services struct {
	Workspace driving.WorkspaceService
	Render    driving.RenderService
	Export    driving.ExportService
	Settings  driving.SettingsService
}

// SetServices wires core services into the commands.
func SetServices(s *Services) {
	workspaceService = s.Workspace
	renderService = s.Render
	exportService = s.Export
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
