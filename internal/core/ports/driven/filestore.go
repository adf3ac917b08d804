package driven

import (
	"context"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
)

// FileStore persists the session workspace: loaded files, their page
// sequences and the current selection.
type FileStore interface {
	// Save stores a new file record.
	Save(ctx context.Context, rec *domain.FileRecord) error

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.FileRecord, error)

	// List returns all records in insertion order.
	List(ctx context.Context) ([]domain.FileRecord, error)

	// Delete removes a record.
	Delete(ctx context.Context, id string) error

	// Selected returns the ID of the selected record, or empty when
	// nothing is selected.
	Selected(ctx context.Context) (string, error)

	// SetSelected marks a record as the current selection. An empty ID
	// clears the selection.
	SetSelected(ctx context.Context, id string) error

	// UpdatePages replaces a record's page sequence in one operation.
	UpdatePages(ctx context.Context, id string, pages []domain.PageRef) error

	// SetRendering updates a record's rendering flag.
	SetRendering(ctx context.Context, id string, rendering bool) error

	// SetThumb stores a rendered preview for one page of a record,
	// identified by its original page number. Returns
	// domain.ErrNotFound when the record no longer exists.
	SetThumb(ctx context.Context, id string, pageNumber int, thumb string) error

	// SetMergeSelected updates a record's merge flag.
	SetMergeSelected(ctx context.Context, id string, selected bool) error

	// Clear removes all records and the selection.
	Clear(ctx context.Context) error
}
