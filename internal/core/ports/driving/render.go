package driving

import "context"

// RenderStatus reports progress of preview rendering for one file.
type RenderStatus struct {
	// FileID is the record being rendered.
	FileID string

	// Running reports whether rendering is still in progress.
	Running bool

	// PagesRendered counts pages with a finished preview.
	PagesRendered int

	// Err is the failure that stopped rendering, if any.
	// Previews rendered before the failure remain usable.
	Err error
}

// RenderService produces page previews progressively in the background.
type RenderService interface {
	// Start begins rendering previews for a record in a background
	// goroutine, lowest page first. Returns immediately. A second
	// Start for the same record while one is running is a no-op.
	Start(ctx context.Context, fileID string) error

	// RenderFile renders all previews for a record synchronously.
	RenderFile(ctx context.Context, fileID string) error

	// Status reports rendering progress for a record.
	Status(ctx context.Context, fileID string) (*RenderStatus, error)
}
