// Package mcp exposes the pagedeck workspace to AI assistants through
// the Model Context Protocol. It implements a driving adapter following
// hexagonal architecture principles.
package mcp

import (
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Workspace manages the session workspace.
	Workspace driving.WorkspaceService

	// Render produces page previews.
	Render driving.RenderService

	// Export assembles output documents.
	Export driving.ExportService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspaceService
	}
	if p.Export == nil {
		return ErrMissingExportService
	}
	// Render is optional; tools degrade to exporting without previews
	return nil
}
