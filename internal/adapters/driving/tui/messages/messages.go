// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
)

// FilesLoaded carries the workspace file list back to the model.
type FilesLoaded struct {
	Records  []domain.FileRecord
	Selected string
	Err      error
}

// FileAdded is sent after an add attempt for one file.
type FileAdded struct {
	Record  *domain.FileRecord
	Skipped string
	Err     error
}

// FileRemoved is sent after a file was removed.
type FileRemoved struct {
	ID  string
	Err error
}

// FileOpened is sent when a file is opened in the pages view.
type FileOpened struct {
	Record *domain.FileRecord
}

// RenderTick polls rendering progress for a file.
type RenderTick struct {
	FileID string
}

// RenderProgressed carries rendering progress for a file.
type RenderProgressed struct {
	FileID        string
	Running       bool
	PagesRendered int
	Err           error
}

// PagesReordered carries the committed page sequence after a move.
type PagesReordered struct {
	Record *domain.FileRecord
	Err    error
}

// ExportCompleted is sent after an export attempt.
type ExportCompleted struct {
	Path     string
	Fallback bool
	Reason   error
	Err      error
}

// ExportBlocked is sent when an export needs confirmation because
// previews are still rendering.
type ExportBlocked struct {
	FileID string
}

// MergeCompleted is sent after a merge attempt.
type MergeCompleted struct {
	Path   string
	Record *domain.FileRecord
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewFiles is the workspace file list.
	ViewFiles ViewType = iota
	// ViewPages is the page strip of one file.
	ViewPages
	// ViewAddFile is the file picker for adding PDFs.
	ViewAddFile
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewFiles:
		return "files"
	case ViewPages:
		return "pages"
	case ViewAddFile:
		return "add_file"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
