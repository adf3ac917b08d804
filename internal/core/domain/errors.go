package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion errors.

	// ErrFileTooLarge indicates an uploaded file exceeds the size ceiling.
	ErrFileTooLarge = errors.New("file too large")

	// ErrRead indicates the file could not be read from disk.
	ErrRead = errors.New("file unreadable")

	// ErrLoad indicates the bytes are not an openable PDF document
	// (corrupted or encrypted).
	ErrLoad = errors.New("not a valid PDF document")

	// ErrEmptyDocument indicates a document with zero pages.
	ErrEmptyDocument = errors.New("document has no pages")

	// Export and merge errors.

	// ErrInvalidPage indicates malformed page-order data, such as a
	// non-positive page number.
	ErrInvalidPage = errors.New("invalid page number")

	// ErrOutOfRange indicates a page index beyond the source document's
	// actual page count.
	ErrOutOfRange = errors.New("page index out of range")

	// ErrCopy indicates the document engine failed to copy pages.
	ErrCopy = errors.New("page copy failed")

	// ErrEmptyOutput indicates serialization produced zero bytes.
	ErrEmptyOutput = errors.New("empty output document")

	// ErrNotEnoughFiles indicates a merge was requested with fewer than
	// two files selected.
	ErrNotEnoughFiles = errors.New("merge requires at least two files")

	// ErrRenderInProgress indicates an export was requested while the
	// file is still rendering previews. Export may proceed with an
	// explicit override; page order is unaffected by preview state.
	ErrRenderInProgress = errors.New("rendering in progress")

	// Rendering errors.

	// ErrRender indicates a page failed to rasterize. Non-fatal:
	// already-rendered previews remain usable.
	ErrRender = errors.New("page rendering failed")

	// Workspace errors.

	// ErrNoSelection indicates no file is currently selected.
	ErrNoSelection = errors.New("no file selected")
)
