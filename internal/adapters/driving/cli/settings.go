package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting.

Available keys:
  output.dir               Directory for exported files
  render.scale             Preview scale factor (1.0 = 72 dpi)
  render.pages_per_second  Preview rendering pace (0 = unpaced)
  ingest.max_file_bytes    Size ceiling for added files
  workspace.backend        Workspace storage: sqlite or memory`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	cmd.Println("Current settings:")
	cmd.Printf("  output.dir:               %s\n", orDefault(settings.Output.Dir, "(current directory)"))
	cmd.Printf("  render.scale:             %g\n", settings.Render.Scale)
	cmd.Printf("  render.pages_per_second:  %g\n", settings.Render.PagesPerSecond)
	cmd.Printf("  ingest.max_file_bytes:    %d\n", settings.Ingest.MaxFileBytes)
	cmd.Printf("  workspace.backend:        %s\n", settings.Workspace.Backend)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "output.dir":
		settings.Output.Dir = value
	case "render.scale":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid scale %q", value)
		}
		settings.Render.Scale = f
	case "render.pages_per_second":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid pace %q", value)
		}
		settings.Render.PagesPerSecond = f
	case "ingest.max_file_bytes":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid size %q", value)
		}
		settings.Ingest.MaxFileBytes = n
	case "workspace.backend":
		backend := domain.WorkspaceBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("invalid backend %q (sqlite or memory)", value)
		}
		settings.Workspace.Backend = backend
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	if err := settingsService.Save(settings); err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
