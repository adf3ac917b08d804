package mcp

import (
	"context"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
)

// mockWorkspaceService is a mock implementation of driving.WorkspaceService.
type mockWorkspaceService struct {
	records  []domain.FileRecord
	record   *domain.FileRecord
	selected *domain.FileRecord
	marked   map[string]bool
	err      error
}

func (m *mockWorkspaceService) AddFiles(_ context.Context, _ []string) (*driving.IngestResult, error) {
	return &driving.IngestResult{}, m.err
}

func (m *mockWorkspaceService) AddBytes(_ context.Context, _ string, _ []byte) (*domain.FileRecord, error) {
	return m.record, m.err
}

func (m *mockWorkspaceService) List(_ context.Context) ([]domain.FileRecord, error) {
	return m.records, m.err
}

func (m *mockWorkspaceService) Get(_ context.Context, _ string) (*domain.FileRecord, error) {
	return m.record, m.err
}

func (m *mockWorkspaceService) Remove(_ context.Context, _ string) error {
	return m.err
}

func (m *mockWorkspaceService) Select(_ context.Context, _ string) error {
	return m.err
}

func (m *mockWorkspaceService) Selected(_ context.Context) (*domain.FileRecord, error) {
	if m.selected == nil {
		return nil, domain.ErrNoSelection
	}
	return m.selected, m.err
}

func (m *mockWorkspaceService) MovePage(_ context.Context, _ string, from, to int) (*domain.FileRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.record.Pages = m.record.MovePage(from, to)
	return m.record, nil
}

func (m *mockWorkspaceService) SetMergeSelected(_ context.Context, id string, selected bool) error {
	if m.err != nil {
		return m.err
	}
	if m.marked == nil {
		m.marked = make(map[string]bool)
	}
	m.marked[id] = selected
	return nil
}

func (m *mockWorkspaceService) Clear(_ context.Context) error {
	return m.err
}

// mockExportService is a mock implementation of driving.ExportService.
type mockExportService struct {
	exportResult *driving.ExportResult
	mergeResult  *driving.MergeResult
	err          error
}

func (m *mockExportService) ExportFile(_ context.Context, _ string, _ bool) (*driving.ExportResult, error) {
	return m.exportResult, m.err
}

func (m *mockExportService) Merge(_ context.Context) (*driving.MergeResult, error) {
	return m.mergeResult, m.err
}
