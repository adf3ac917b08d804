// Package pdfcpu implements the document engine port on top of the
// pdfcpu library. All operations work on in-memory bytes so the engine
// never touches the workspace's files on disk.
package pdfcpu

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.DocumentEngine = (*Engine)(nil)

// Engine is a pdfcpu-backed document engine.
type Engine struct {
	conf *model.Configuration
}

// NewEngine creates a new document engine. Validation is relaxed so
// slightly malformed real-world documents still open.
func NewEngine() *Engine {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Engine{conf: conf}
}

// Open validates the bytes as a PDF and returns its metadata.
func (e *Engine) Open(data []byte) (*driven.DocumentInfo, error) {
	ctx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(data), e.conf)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}
	return &driven.DocumentInfo{PageCount: ctx.PageCount}, nil
}

// CollectPages produces a new document containing the given zero-based
// pages of data, in the given order.
func (e *Engine) CollectPages(data []byte, indices []int) ([]byte, error) {
	// pdfcpu's collect preserves selection order and duplicates, which
	// is exactly the reorder contract.
	selected := make([]string, len(indices))
	for i, idx := range indices {
		selected[i] = strconv.Itoa(idx + 1)
	}

	var out bytes.Buffer
	if err := pdfapi.Collect(bytes.NewReader(data), &out, selected, e.conf); err != nil {
		return nil, fmt.Errorf("collecting pages: %w", err)
	}
	return out.Bytes(), nil
}

// Merge concatenates the sources into one document.
func (e *Engine) Merge(sources [][]byte) ([]byte, error) {
	readers := make([]io.ReadSeeker, len(sources))
	for i, src := range sources {
		readers[i] = bytes.NewReader(src)
	}

	var out bytes.Buffer
	if err := pdfapi.MergeRaw(readers, &out, false, e.conf); err != nil {
		return nil, fmt.Errorf("merging documents: %w", err)
	}
	return out.Bytes(), nil
}
