package mcp

import "errors"

// Errors returned when required ports are missing.
var (
	// ErrMissingWorkspaceService indicates the workspace service was not provided.
	ErrMissingWorkspaceService = errors.New("workspace service is required")

	// ErrMissingExportService indicates the export service was not provided.
	ErrMissingExportService = errors.New("export service is required")
)
