package domain

import (
	"fmt"
	"time"
)

// PageRef references one page of a source document plus its optional
// cached preview image.
type PageRef struct {
	// PageNumber is the 1-based index into the ORIGINAL source document.
	// It is assigned at ingestion and never renumbered, no matter how
	// the sequence is reordered.
	PageNumber int

	// Thumb is the cached preview image as a PNG data URI.
	// Empty until rendering reaches this page.
	Thumb string
}

// FileRecord is the in-memory representation of one loaded PDF and its
// current page order and state.
type FileRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// Name is the original filename.
	Name string

	// Data holds the immutable original file content. Exports always
	// re-derive page counts from these bytes, never from cached state.
	Data []byte

	// Pages is the ordered sequence of page references. This is the
	// only mutable ordering; the sequence shown to the user is exactly
	// the sequence exported.
	Pages []PageRef

	// TotalPages is the page count of the source document.
	TotalPages int

	// Rendering reports whether preview rendering is in progress.
	Rendering bool

	// MergeSelected marks the record for inclusion in a merge.
	MergeSelected bool

	// CreatedAt is when the record was ingested.
	CreatedAt time.Time
}

// NewFileRecord creates a record with placeholder page references in
// natural order 1..totalPages.
func NewFileRecord(id, name string, data []byte, totalPages int) *FileRecord {
	pages := make([]PageRef, totalPages)
	for i := range pages {
		pages[i] = PageRef{PageNumber: i + 1}
	}
	return &FileRecord{
		ID:         id,
		Name:       name,
		Data:       data,
		Pages:      pages,
		TotalPages: totalPages,
		CreatedAt:  time.Now(),
	}
}

// PageIndices returns the zero-based page indices in current sequence
// order. This is the single correctness contract of the application:
// displayed order == exported order.
// Falls back to natural order 0..TotalPages-1 when no sequence is
// cached. Returns ErrInvalidPage for a non-positive page number.
func (f *FileRecord) PageIndices() ([]int, error) {
	if len(f.Pages) == 0 {
		indices := make([]int, f.TotalPages)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	indices := make([]int, len(f.Pages))
	for i, p := range f.Pages {
		if p.PageNumber < 1 {
			return nil, fmt.Errorf("%w: page number %d at position %d", ErrInvalidPage, p.PageNumber, i+1)
		}
		indices[i] = p.PageNumber - 1
	}
	return indices, nil
}

// MovePage removes the page at position from and reinserts it at
// position to (an array move, not a swap). The result is a fresh slice
// so callers can apply it as a single atomic replacement. Returns the
// current sequence unchanged when either position is out of bounds or
// the move is a no-op.
func (f *FileRecord) MovePage(from, to int) []PageRef {
	n := len(f.Pages)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return f.Pages
	}

	moved := make([]PageRef, 0, n)
	moved = append(moved, f.Pages[:from]...)
	moved = append(moved, f.Pages[from+1:]...)

	out := make([]PageRef, 0, n)
	out = append(out, moved[:to]...)
	out = append(out, f.Pages[from])
	out = append(out, moved[to:]...)
	return out
}

// RenderedPages counts pages with a cached preview.
func (f *FileRecord) RenderedPages() int {
	count := 0
	for _, p := range f.Pages {
		if p.Thumb != "" {
			count++
		}
	}
	return count
}

// NextSelection returns the index to select after removing the record
// at removedIndex from a list that now has newLen entries: the record
// that shifted into its position, the new last record, or -1 when the
// list is empty.
func NextSelection(removedIndex, newLen int) int {
	if newLen == 0 {
		return -1
	}
	if removedIndex >= newLen {
		return newLen - 1
	}
	return removedIndex
}

// ExportName returns the download name for a customized single-file
// export of name.
func ExportName(name string) string {
	return "customized-" + name
}

// FallbackName returns the download name offered when export fails and
// the unmodified original bytes are surfaced instead.
func FallbackName(name string) string {
	return "original-" + name
}

// MergeName returns the download name for a merged document produced
// at the given time.
func MergeName(ts time.Time) string {
	return fmt.Sprintf("merged-%d.pdf", ts.UnixMilli())
}
