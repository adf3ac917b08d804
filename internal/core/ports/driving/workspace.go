package driving

import (
	"context"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
)

// SkippedFile reports one file that failed ingestion.
type SkippedFile struct {
	// Name is the filename as given.
	Name string

	// Err is the reason the file was skipped.
	Err error
}

// IngestResult reports the outcome of a batch ingestion. Failures are
// isolated per file: one bad file never blocks the rest of the batch.
type IngestResult struct {
	// Added holds the records created, in input order.
	Added []domain.FileRecord

	// Skipped holds the files that were rejected, with reasons.
	Skipped []SkippedFile
}

// WorkspaceService manages the session workspace: which files are
// loaded, their page order, and the current selection.
type WorkspaceService interface {
	// AddFiles ingests files from disk paths. Each file is validated
	// independently; the first successfully added file becomes the
	// selection when nothing was selected before.
	AddFiles(ctx context.Context, paths []string) (*IngestResult, error)

	// AddBytes ingests a single in-memory file under the given name.
	AddBytes(ctx context.Context, name string, data []byte) (*domain.FileRecord, error)

	// List returns all records in insertion order.
	List(ctx context.Context) ([]domain.FileRecord, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.FileRecord, error)

	// Remove deletes a record and moves the selection to its list
	// neighbour.
	Remove(ctx context.Context, id string) error

	// Select marks a record as the current selection.
	Select(ctx context.Context, id string) error

	// Selected returns the selected record.
	// Returns domain.ErrNoSelection when nothing is selected.
	Selected(ctx context.Context) (*domain.FileRecord, error)

	// MovePage moves the page at position from to position to within a
	// record's sequence (zero-based positions). The sequence is
	// replaced atomically; out-of-bounds positions are a no-op.
	MovePage(ctx context.Context, id string, from, to int) (*domain.FileRecord, error)

	// SetMergeSelected toggles a record's merge flag.
	SetMergeSelected(ctx context.Context, id string, selected bool) error

	// Clear discards the whole workspace.
	Clear(ctx context.Context) error
}
