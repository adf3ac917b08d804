package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagedeck/pagedeck-cli/internal/adapters/driven/storage/memory"
	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
)

// fakeEngine is a DocumentEngine for tests. By default every input is
// a valid three page document.
type fakeEngine struct {
	openFn    func(data []byte) (*driven.DocumentInfo, error)
	collectFn func(data []byte, indices []int) ([]byte, error)
	mergeFn   func(sources [][]byte) ([]byte, error)
}

func (e *fakeEngine) Open(data []byte) (*driven.DocumentInfo, error) {
	if e.openFn != nil {
		return e.openFn(data)
	}
	return &driven.DocumentInfo{PageCount: 3}, nil
}

func (e *fakeEngine) CollectPages(data []byte, indices []int) ([]byte, error) {
	if e.collectFn != nil {
		return e.collectFn(data, indices)
	}
	return []byte(fmt.Sprintf("collected:%v", indices)), nil
}

func (e *fakeEngine) Merge(sources [][]byte) ([]byte, error) {
	if e.mergeFn != nil {
		return e.mergeFn(sources)
	}
	var out []byte
	for _, src := range sources {
		out = append(out, src...)
	}
	return out, nil
}

// fakeRasterizer is a Rasterizer for tests recording the pages it saw.
type fakeRasterizer struct {
	mu       sync.Mutex
	renderFn func(data []byte, pageNumber int, scale float64) (string, error)
	rendered []int
}

func (r *fakeRasterizer) RenderPage(data []byte, pageNumber int, scale float64) (string, error) {
	r.mu.Lock()
	r.rendered = append(r.rendered, pageNumber)
	r.mu.Unlock()
	if r.renderFn != nil {
		return r.renderFn(data, pageNumber, scale)
	}
	return fmt.Sprintf("data:image/png;base64,page%d", pageNumber), nil
}

func (r *fakeRasterizer) pages() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.rendered...)
}

func writeTempPDF(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestWorkspaceAddFiles(t *testing.T) {
	store := memory.NewFileStore()
	svc := NewWorkspaceService(store, &fakeEngine{}, 0)
	ctx := context.Background()

	path := writeTempPDF(t, "scan.pdf", []byte("%PDF-1.7"))

	result, err := svc.AddFiles(ctx, []string{path})

	require.NoError(t, err)
	require.Len(t, result.Added, 1)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, "scan.pdf", result.Added[0].Name)
	assert.Equal(t, 3, result.Added[0].TotalPages)
	require.Len(t, result.Added[0].Pages, 3)
	assert.Equal(t, 1, result.Added[0].Pages[0].PageNumber)
}

func TestWorkspaceAddFiles_FirstFileSelected(t *testing.T) {
	store := memory.NewFileStore()
	svc := NewWorkspaceService(store, &fakeEngine{}, 0)
	ctx := context.Background()

	a := writeTempPDF(t, "a.pdf", []byte("%PDF-1.7 a"))
	b := writeTempPDF(t, "b.pdf", []byte("%PDF-1.7 b"))

	result, err := svc.AddFiles(ctx, []string{a, b})
	require.NoError(t, err)
	require.Len(t, result.Added, 2)

	selected, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Added[0].ID, selected.ID)
}

func TestWorkspaceAddFiles_BadFileDoesNotBlockBatch(t *testing.T) {
	engine := &fakeEngine{
		openFn: func(data []byte) (*driven.DocumentInfo, error) {
			if string(data) == "broken" {
				return nil, errors.New("parse failure")
			}
			return &driven.DocumentInfo{PageCount: 2}, nil
		},
	}
	store := memory.NewFileStore()
	svc := NewWorkspaceService(store, engine, 0)
	ctx := context.Background()

	good := writeTempPDF(t, "good.pdf", []byte("%PDF-1.7"))
	bad := writeTempPDF(t, "bad.pdf", []byte("broken"))
	missing := filepath.Join(t.TempDir(), "missing.pdf")

	result, err := svc.AddFiles(ctx, []string{bad, missing, good})

	require.NoError(t, err)
	require.Len(t, result.Added, 1)
	assert.Equal(t, "good.pdf", result.Added[0].Name)

	require.Len(t, result.Skipped, 2)
	assert.True(t, errors.Is(result.Skipped[0].Err, domain.ErrLoad))
	assert.True(t, errors.Is(result.Skipped[1].Err, domain.ErrRead))
}

func TestWorkspaceAddBytes_EmptyDocument(t *testing.T) {
	engine := &fakeEngine{
		openFn: func([]byte) (*driven.DocumentInfo, error) {
			return &driven.DocumentInfo{PageCount: 0}, nil
		},
	}
	svc := NewWorkspaceService(memory.NewFileStore(), engine, 0)

	_, err := svc.AddBytes(context.Background(), "empty.pdf", []byte("%PDF"))

	assert.True(t, errors.Is(err, domain.ErrEmptyDocument))
}

func TestWorkspaceAddBytes_FileTooLarge(t *testing.T) {
	svc := NewWorkspaceService(memory.NewFileStore(), &fakeEngine{}, 4)

	_, err := svc.AddBytes(context.Background(), "big.pdf", []byte("%PDF-1.7"))

	assert.True(t, errors.Is(err, domain.ErrFileTooLarge))
}

func TestWorkspaceRemove_SelectionMovesToNeighbour(t *testing.T) {
	store := memory.NewFileStore()
	svc := NewWorkspaceService(store, &fakeEngine{}, 0)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		rec, err := svc.AddBytes(ctx, name, []byte("%PDF "+name))
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	// Select the middle record, then remove it: the record that shifted
	// into its position becomes selected.
	require.NoError(t, svc.Select(ctx, ids[1]))
	require.NoError(t, svc.Remove(ctx, ids[1]))

	selected, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[2], selected.ID)
}

func TestWorkspaceRemove_LastSelectsNewLast(t *testing.T) {
	store := memory.NewFileStore()
	svc := NewWorkspaceService(store, &fakeEngine{}, 0)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a.pdf", "b.pdf"} {
		rec, err := svc.AddBytes(ctx, name, []byte("%PDF "+name))
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	require.NoError(t, svc.Select(ctx, ids[1]))
	require.NoError(t, svc.Remove(ctx, ids[1]))

	selected, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[0], selected.ID)
}

func TestWorkspaceRemove_LastFileClearsSelection(t *testing.T) {
	store := memory.NewFileStore()
	svc := NewWorkspaceService(store, &fakeEngine{}, 0)
	ctx := context.Background()

	rec, err := svc.AddBytes(ctx, "only.pdf", []byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, rec.ID))

	_, err = svc.Selected(ctx)
	assert.True(t, errors.Is(err, domain.ErrNoSelection))
}

func TestWorkspaceRemove_UnselectedKeepsSelection(t *testing.T) {
	store := memory.NewFileStore()
	svc := NewWorkspaceService(store, &fakeEngine{}, 0)
	ctx := context.Background()

	first, err := svc.AddBytes(ctx, "a.pdf", []byte("%PDF a"))
	require.NoError(t, err)
	second, err := svc.AddBytes(ctx, "b.pdf", []byte("%PDF b"))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, second.ID))

	selected, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, selected.ID)
}

func TestWorkspaceMovePage(t *testing.T) {
	store := memory.NewFileStore()
	svc := NewWorkspaceService(store, &fakeEngine{}, 0)
	ctx := context.Background()

	rec, err := svc.AddBytes(ctx, "a.pdf", []byte("%PDF"))
	require.NoError(t, err)

	moved, err := svc.MovePage(ctx, rec.ID, 0, 2)

	require.NoError(t, err)
	assert.Equal(t, 2, moved.Pages[0].PageNumber)
	assert.Equal(t, 3, moved.Pages[1].PageNumber)
	assert.Equal(t, 1, moved.Pages[2].PageNumber)

	// The stored sequence matches what was returned.
	stored, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, moved.Pages, stored.Pages)
}

func TestWorkspaceMovePage_OutOfBoundsIsNoOp(t *testing.T) {
	store := memory.NewFileStore()
	svc := NewWorkspaceService(store, &fakeEngine{}, 0)
	ctx := context.Background()

	rec, err := svc.AddBytes(ctx, "a.pdf", []byte("%PDF"))
	require.NoError(t, err)

	moved, err := svc.MovePage(ctx, rec.ID, 7, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, moved.Pages[0].PageNumber)
	assert.Equal(t, 2, moved.Pages[1].PageNumber)
	assert.Equal(t, 3, moved.Pages[2].PageNumber)
}

func TestWorkspaceClear(t *testing.T) {
	store := memory.NewFileStore()
	svc := NewWorkspaceService(store, &fakeEngine{}, 0)
	ctx := context.Background()

	_, err := svc.AddBytes(ctx, "a.pdf", []byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx))

	records, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}
