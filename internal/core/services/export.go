package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
	"github.com/pagedeck/pagedeck-cli/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// ExportService assembles output documents from workspace records.
type ExportService struct {
	store  driven.FileStore
	engine driven.DocumentEngine
	now    func() time.Time
}

// NewExportService creates a new export service.
func NewExportService(store driven.FileStore, engine driven.DocumentEngine) *ExportService {
	return &ExportService{
		store:  store,
		engine: engine,
		now:    time.Now,
	}
}

// ExportFile assembles a record's pages in their current order. The
// preview state never influences the output: a forced export during
// rendering produces the same bytes as one after it finishes. When
// assembly fails the original bytes are returned as a fallback so the
// user never loses access to their document.
func (s *ExportService) ExportFile(ctx context.Context, id string, force bool) (*driving.ExportResult, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.Rendering && !force {
		return nil, fmt.Errorf("%w: %s", domain.ErrRenderInProgress, rec.Name)
	}

	data, err := s.assemble(rec)
	if err != nil {
		logger.Warn("Export of %s failed, offering original: %v", rec.Name, err)
		return &driving.ExportResult{
			Filename: domain.FallbackName(rec.Name),
			Data:     rec.Data,
			Fallback: true,
			Reason:   err,
		}, nil
	}

	logger.Debug("Exported %s (%d bytes)", rec.Name, len(data))
	return &driving.ExportResult{
		Filename: domain.ExportName(rec.Name),
		Data:     data,
	}, nil
}

// Merge concatenates all merge-selected records into a new document.
// Selection is checked before any document work so an undersized
// selection fails fast. The first invalid source aborts the whole
// merge; the workspace is only touched after the merge succeeds.
func (s *ExportService) Merge(ctx context.Context) (*driving.MergeResult, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	selected := make([]domain.FileRecord, 0, len(records))
	for _, rec := range records {
		if rec.MergeSelected {
			selected = append(selected, rec)
		}
	}
	if len(selected) < 2 {
		return nil, fmt.Errorf("%w: %d selected", domain.ErrNotEnoughFiles, len(selected))
	}

	sources := make([][]byte, 0, len(selected))
	for i := range selected {
		part, err := s.assemble(&selected[i])
		if err != nil {
			return nil, fmt.Errorf("merge aborted at %s: %w", selected[i].Name, err)
		}
		sources = append(sources, part)
	}

	merged, err := s.engine.Merge(sources)
	if err != nil {
		return nil, fmt.Errorf("%w: merge: %v", domain.ErrCopy, err)
	}
	if len(merged) == 0 {
		return nil, fmt.Errorf("%w: merge", domain.ErrEmptyOutput)
	}

	info, err := s.engine.Open(merged)
	if err != nil {
		return nil, fmt.Errorf("%w: merged document: %v", domain.ErrLoad, err)
	}

	name := domain.MergeName(s.now())
	rec := domain.NewFileRecord(uuid.New().String(), name, merged, info.PageCount)
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save merged file: %w", err)
	}
	if err := s.store.SetSelected(ctx, rec.ID); err != nil {
		return nil, fmt.Errorf("failed to select merged file: %w", err)
	}
	logger.Info("Merged %d files into %s (%d pages)", len(selected), name, info.PageCount)

	return &driving.MergeResult{
		Record:   rec,
		Filename: name,
		Data:     merged,
	}, nil
}

// assemble builds the output document for one record: its source pages
// copied in the current display order. Page counts are re-derived from
// the original bytes, never taken from cached state.
func (s *ExportService) assemble(rec *domain.FileRecord) ([]byte, error) {
	indices, err := rec.PageIndices()
	if err != nil {
		return nil, err
	}

	info, err := s.engine.Open(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLoad, rec.Name, err)
	}
	for pos, idx := range indices {
		if idx >= info.PageCount {
			return nil, fmt.Errorf("%w: position %d refers to page %d but %s has %d pages",
				domain.ErrOutOfRange, pos+1, idx+1, rec.Name, info.PageCount)
		}
	}

	out, err := s.engine.CollectPages(rec.Data, indices)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCopy, rec.Name, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyOutput, rec.Name)
	}
	return out, nil
}
