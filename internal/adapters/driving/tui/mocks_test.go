package tui

import (
	"context"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
)

// mockWorkspaceService is a configurable fake for tests.
type mockWorkspaceService struct {
	records   []domain.FileRecord
	selected  string
	err       error
	moveCalls int
	lastFrom  int
	lastTo    int
}

var _ driving.WorkspaceService = (*mockWorkspaceService)(nil)

func (m *mockWorkspaceService) AddFiles(_ context.Context, paths []string) (*driving.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := &driving.IngestResult{}
	for range paths {
		rec := domain.NewFileRecord("added", "added.pdf", []byte("%PDF"), 2)
		m.records = append(m.records, *rec)
		result.Added = append(result.Added, *rec)
	}
	return result, nil
}

func (m *mockWorkspaceService) AddBytes(_ context.Context, name string, data []byte) (*domain.FileRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	rec := domain.NewFileRecord("added", name, data, 2)
	m.records = append(m.records, *rec)
	return rec, nil
}

func (m *mockWorkspaceService) List(_ context.Context) ([]domain.FileRecord, error) {
	return m.records, m.err
}

func (m *mockWorkspaceService) Get(_ context.Context, id string) (*domain.FileRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockWorkspaceService) Remove(_ context.Context, id string) error {
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockWorkspaceService) Select(_ context.Context, id string) error {
	m.selected = id
	return nil
}

func (m *mockWorkspaceService) Selected(ctx context.Context) (*domain.FileRecord, error) {
	if m.selected == "" {
		return nil, domain.ErrNoSelection
	}
	return m.Get(ctx, m.selected)
}

func (m *mockWorkspaceService) MovePage(ctx context.Context, id string, from, to int) (*domain.FileRecord, error) {
	m.moveCalls++
	m.lastFrom = from
	m.lastTo = to
	rec, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Pages = rec.MovePage(from, to)
	return rec, nil
}

func (m *mockWorkspaceService) SetMergeSelected(ctx context.Context, id string, selected bool) error {
	rec, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	rec.MergeSelected = selected
	return nil
}

func (m *mockWorkspaceService) Clear(_ context.Context) error {
	m.records = nil
	m.selected = ""
	return nil
}

// mockRenderService is a configurable fake for tests.
type mockRenderService struct {
	started []string
	status  *driving.RenderStatus
	err     error
}

var _ driving.RenderService = (*mockRenderService)(nil)

func (m *mockRenderService) Start(_ context.Context, fileID string) error {
	m.started = append(m.started, fileID)
	return m.err
}

func (m *mockRenderService) RenderFile(_ context.Context, fileID string) error {
	m.started = append(m.started, fileID)
	return m.err
}

func (m *mockRenderService) Status(_ context.Context, fileID string) (*driving.RenderStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.status != nil {
		return m.status, nil
	}
	return &driving.RenderStatus{FileID: fileID}, nil
}

// mockExportService is a configurable fake for tests.
type mockExportService struct {
	exportResult *driving.ExportResult
	mergeResult  *driving.MergeResult
	err          error
	forceSeen    bool
}

var _ driving.ExportService = (*mockExportService)(nil)

func (m *mockExportService) ExportFile(_ context.Context, id string, force bool) (*driving.ExportResult, error) {
	m.forceSeen = force
	if m.err != nil {
		return nil, m.err
	}
	if m.exportResult != nil {
		return m.exportResult, nil
	}
	return &driving.ExportResult{
		Filename: domain.ExportName(id + ".pdf"),
		Data:     []byte("%PDF out"),
	}, nil
}

func (m *mockExportService) Merge(_ context.Context) (*driving.MergeResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.mergeResult != nil {
		return m.mergeResult, nil
	}
	return nil, domain.ErrNotEnoughFiles
}
