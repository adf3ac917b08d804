package driving

import (
	"context"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
)

// ExportResult is the outcome of a single-file export.
type ExportResult struct {
	// Filename is the suggested output name: customized-<name> on
	// success, original-<name> when Fallback is set.
	Filename string

	// Data is the document to write.
	Data []byte

	// Fallback reports that assembly failed and Data holds the
	// unmodified original bytes instead.
	Fallback bool

	// Reason is the assembly failure behind a fallback, nil otherwise.
	Reason error
}

// MergeResult is the outcome of a merge.
type MergeResult struct {
	// Record is the new workspace record holding the merged document.
	// It is appended to the workspace and becomes the selection.
	Record *domain.FileRecord

	// Filename is the suggested output name, merged-<timestamp>.pdf.
	Filename string

	// Data is the merged document.
	Data []byte
}

// ExportService assembles output documents from workspace records.
type ExportService interface {
	// ExportFile assembles a record's pages in their current order.
	// While previews are still rendering the export is blocked with
	// domain.ErrRenderInProgress unless force is set; the produced
	// document is identical either way. Assembly failures degrade to
	// a fallback result carrying the original bytes.
	ExportFile(ctx context.Context, id string, force bool) (*ExportResult, error)

	// Merge concatenates all merge-selected records, each with its
	// current page order, into a new record. Requires at least two
	// selected records and aborts on the first invalid source.
	Merge(ctx context.Context) (*MergeResult, error)
}
