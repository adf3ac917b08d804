// Package memory provides in-memory implementations of storage ports.
// The workspace lives for the lifetime of the process, which suits the
// TUI where one run is one session.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.FileStore = (*FileStore)(nil)

// FileStore is an in-memory file store.
type FileStore struct {
	mu       sync.RWMutex
	files    map[string]*domain.FileRecord
	order    map[string]int
	seq      int
	selected string
}

// NewFileStore creates a new in-memory file store.
func NewFileStore() *FileStore {
	return &FileStore{
		files: make(map[string]*domain.FileRecord),
		order: make(map[string]int),
	}
}

// Save stores a new file record.
func (s *FileStore) Save(_ context.Context, rec *domain.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := cloneRecord(rec)
	if _, exists := s.files[rec.ID]; !exists {
		s.order[rec.ID] = s.seq
		s.seq++
	}
	s.files[rec.ID] = copied
	return nil
}

// Get retrieves a record by ID.
func (s *FileStore) Get(_ context.Context, id string) (*domain.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}
	return cloneRecord(rec), nil
}

// List returns all records in insertion order.
func (s *FileStore) List(_ context.Context) ([]domain.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.FileRecord, 0, len(s.files))
	for _, rec := range s.files {
		records = append(records, *cloneRecord(rec))
	}
	sort.Slice(records, func(i, j int) bool {
		return s.order[records[i].ID] < s.order[records[j].ID]
	})
	return records, nil
}

// Delete removes a record.
func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}
	delete(s.files, id)
	delete(s.order, id)
	if s.selected == id {
		s.selected = ""
	}
	return nil
}

// Selected returns the ID of the selected record.
func (s *FileStore) Selected(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, nil
}

// SetSelected marks a record as the current selection.
func (s *FileStore) SetSelected(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if _, ok := s.files[id]; !ok {
			return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
		}
	}
	s.selected = id
	return nil
}

// UpdatePages replaces a record's page sequence in one operation.
func (s *FileStore) UpdatePages(_ context.Context, id string, pages []domain.PageRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.files[id]
	if !ok {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}
	rec.Pages = append([]domain.PageRef(nil), pages...)
	return nil
}

// SetRendering updates a record's rendering flag.
func (s *FileStore) SetRendering(_ context.Context, id string, rendering bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.files[id]
	if !ok {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}
	rec.Rendering = rendering
	return nil
}

// SetThumb stores a rendered preview for one page, identified by its
// original page number so the write lands correctly after reorders.
func (s *FileStore) SetThumb(_ context.Context, id string, pageNumber int, thumb string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.files[id]
	if !ok {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}
	for i := range rec.Pages {
		if rec.Pages[i].PageNumber == pageNumber {
			rec.Pages[i].Thumb = thumb
			return nil
		}
	}
	return fmt.Errorf("%w: page %d of file %s", domain.ErrNotFound, pageNumber, id)
}

// SetMergeSelected updates a record's merge flag.
func (s *FileStore) SetMergeSelected(_ context.Context, id string, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.files[id]
	if !ok {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}
	rec.MergeSelected = selected
	return nil
}

// Clear removes all records and the selection.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = make(map[string]*domain.FileRecord)
	s.order = make(map[string]int)
	s.seq = 0
	s.selected = ""
	return nil
}

// cloneRecord copies a record so callers never share page slices with
// the store.
func cloneRecord(rec *domain.FileRecord) *domain.FileRecord {
	copied := *rec
	copied.Pages = append([]domain.PageRef(nil), rec.Pages...)
	return &copied
}
