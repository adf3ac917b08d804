package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
	"github.com/pagedeck/pagedeck-cli/internal/logger"
)

// Ensure WorkspaceService implements the interface.
var _ driving.WorkspaceService = (*WorkspaceService)(nil)

// WorkspaceService manages the session workspace.
type WorkspaceService struct {
	store        driven.FileStore
	engine       driven.DocumentEngine
	maxFileBytes int64
}

// NewWorkspaceService creates a new workspace service.
func NewWorkspaceService(store driven.FileStore, engine driven.DocumentEngine, maxFileBytes int64) *WorkspaceService {
	return &WorkspaceService{
		store:        store,
		engine:       engine,
		maxFileBytes: maxFileBytes,
	}
}

// AddFiles ingests files from disk paths. Each file is handled
// independently so one unreadable or corrupted file never blocks the
// rest of the batch.
func (s *WorkspaceService) AddFiles(ctx context.Context, paths []string) (*driving.IngestResult, error) {
	result := &driving.IngestResult{}

	for _, path := range paths {
		name := filepath.Base(path)

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping %s: %v", name, err)
			result.Skipped = append(result.Skipped, driving.SkippedFile{
				Name: name,
				Err:  fmt.Errorf("%w: %v", domain.ErrRead, err),
			})
			continue
		}

		rec, err := s.AddBytes(ctx, name, data)
		if err != nil {
			logger.Warn("Skipping %s: %v", name, err)
			result.Skipped = append(result.Skipped, driving.SkippedFile{Name: name, Err: err})
			continue
		}
		result.Added = append(result.Added, *rec)
	}

	return result, nil
}

// AddBytes ingests a single in-memory file. The first record added to
// an empty selection becomes the selection.
func (s *WorkspaceService) AddBytes(ctx context.Context, name string, data []byte) (*domain.FileRecord, error) {
	if s.maxFileBytes > 0 && int64(len(data)) > s.maxFileBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", domain.ErrFileTooLarge, name, len(data), s.maxFileBytes)
	}

	info, err := s.engine.Open(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLoad, name, err)
	}
	if info.PageCount == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, name)
	}

	rec := domain.NewFileRecord(uuid.New().String(), name, data, info.PageCount)
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	logger.Debug("Added %s (%d pages) as %s", name, info.PageCount, rec.ID)

	selected, err := s.store.Selected(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}
	if selected == "" {
		if err := s.store.SetSelected(ctx, rec.ID); err != nil {
			return nil, fmt.Errorf("failed to select file: %w", err)
		}
	}

	return rec, nil
}

// List returns all records in insertion order.
func (s *WorkspaceService) List(ctx context.Context) ([]domain.FileRecord, error) {
	return s.store.List(ctx)
}

// Get retrieves a record by ID.
func (s *WorkspaceService) Get(ctx context.Context, id string) (*domain.FileRecord, error) {
	return s.store.Get(ctx, id)
}

// Remove deletes a record. When the removed record was selected, the
// selection moves to the record now occupying its list position, or to
// the new last record.
func (s *WorkspaceService) Remove(ctx context.Context, id string) error {
	records, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	removedIndex := -1
	for i, rec := range records {
		if rec.ID == id {
			removedIndex = i
			break
		}
	}
	if removedIndex == -1 {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}

	selected, err := s.store.Selected(ctx)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if selected != id {
		return nil
	}

	next := domain.NextSelection(removedIndex, len(records)-1)
	if next == -1 {
		return s.store.SetSelected(ctx, "")
	}

	remaining := append(records[:removedIndex:removedIndex], records[removedIndex+1:]...)
	return s.store.SetSelected(ctx, remaining[next].ID)
}

// Select marks a record as the current selection.
func (s *WorkspaceService) Select(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.SetSelected(ctx, id)
}

// Selected returns the selected record.
func (s *WorkspaceService) Selected(ctx context.Context) (*domain.FileRecord, error) {
	id, err := s.store.Selected(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.ErrNoSelection
	}
	return s.store.Get(ctx, id)
}

// MovePage moves one page within a record's sequence. The new sequence
// replaces the old one atomically; a viewer never observes a sequence
// with a page missing or duplicated.
func (s *WorkspaceService) MovePage(ctx context.Context, id string, from, to int) (*domain.FileRecord, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	moved := rec.MovePage(from, to)
	if err := s.store.UpdatePages(ctx, id, moved); err != nil {
		return nil, fmt.Errorf("failed to update page order: %w", err)
	}
	logger.Debug("Moved page %d -> %d in %s", from, to, id)

	rec.Pages = moved
	return rec, nil
}

// SetMergeSelected toggles a record's merge flag.
func (s *WorkspaceService) SetMergeSelected(ctx context.Context, id string, selected bool) error {
	return s.store.SetMergeSelected(ctx, id, selected)
}

// Clear discards the whole workspace.
func (s *WorkspaceService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
