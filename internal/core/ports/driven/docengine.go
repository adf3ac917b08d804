package driven

// DocumentInfo describes an opened PDF document.
type DocumentInfo struct {
	// PageCount is the document's page count.
	PageCount int
}

// DocumentEngine parses and assembles PDF documents. All operations are
// pure byte transforms; the engine holds no state between calls.
type DocumentEngine interface {
	// Open validates the bytes as a PDF and returns its metadata.
	// Returns an error for corrupted or encrypted documents.
	Open(data []byte) (*DocumentInfo, error)

	// CollectPages produces a new document containing the given
	// zero-based pages of data, in the given order. Duplicate indices
	// duplicate pages.
	CollectPages(data []byte, indices []int) ([]byte, error)

	// Merge concatenates the sources into one document, preserving
	// source order and the page order within each source.
	Merge(sources [][]byte) ([]byte, error)
}
