// Package tui provides an interactive terminal user interface for pagedeck.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Workspace manages the session workspace.
	Workspace driving.WorkspaceService

	// Render produces page previews in the background.
	Render driving.RenderService

	// Export assembles output documents.
	Export driving.ExportService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspaceService
	}
	if p.Render == nil {
		return ErrMissingRenderService
	}
	if p.Export == nil {
		return ErrMissingExportService
	}
	// Settings is optional; views fall back to defaults
	return nil
}
