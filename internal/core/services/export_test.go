package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagedeck/pagedeck-cli/internal/adapters/driven/storage/memory"
	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
)

func newExportFixture(t *testing.T, engine *fakeEngine) (*ExportService, *WorkspaceService, *memory.FileStore) {
	t.Helper()
	store := memory.NewFileStore()
	workspace := NewWorkspaceService(store, engine, 0)
	export := NewExportService(store, engine)
	return export, workspace, store
}

func TestExportFile_CurrentOrder(t *testing.T) {
	var collected []int
	engine := &fakeEngine{
		collectFn: func(_ []byte, indices []int) ([]byte, error) {
			collected = append([]int(nil), indices...)
			return []byte("out"), nil
		},
	}
	export, workspace, _ := newExportFixture(t, engine)
	ctx := context.Background()

	rec, err := workspace.AddBytes(ctx, "scan.pdf", []byte("%PDF"))
	require.NoError(t, err)
	_, err = workspace.MovePage(ctx, rec.ID, 2, 0)
	require.NoError(t, err)

	result, err := export.ExportFile(ctx, rec.ID, false)

	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, "customized-scan.pdf", result.Filename)
	assert.Equal(t, []byte("out"), result.Data)
	// Displayed order is exported order.
	assert.Equal(t, []int{2, 0, 1}, collected)
}

func TestExportFile_BlockedWhileRendering(t *testing.T) {
	export, workspace, store := newExportFixture(t, &fakeEngine{})
	ctx := context.Background()

	rec, err := workspace.AddBytes(ctx, "scan.pdf", []byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, store.SetRendering(ctx, rec.ID, true))

	_, err = export.ExportFile(ctx, rec.ID, false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRenderInProgress))
}

func TestExportFile_ForcedDuringRendering(t *testing.T) {
	export, workspace, store := newExportFixture(t, &fakeEngine{})
	ctx := context.Background()

	rec, err := workspace.AddBytes(ctx, "scan.pdf", []byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, store.SetRendering(ctx, rec.ID, true))

	result, err := export.ExportFile(ctx, rec.ID, true)

	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, "customized-scan.pdf", result.Filename)
}

func TestExportFile_CopyFailureFallsBackToOriginal(t *testing.T) {
	engine := &fakeEngine{
		collectFn: func([]byte, []int) ([]byte, error) {
			return nil, errors.New("cross reference table damaged")
		},
	}
	export, workspace, _ := newExportFixture(t, engine)
	ctx := context.Background()

	original := []byte("%PDF original bytes")
	rec, err := workspace.AddBytes(ctx, "scan.pdf", original)
	require.NoError(t, err)

	result, err := export.ExportFile(ctx, rec.ID, false)

	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, "original-scan.pdf", result.Filename)
	assert.Equal(t, original, result.Data)
	assert.True(t, errors.Is(result.Reason, domain.ErrCopy))
}

func TestExportFile_OutOfRangeAfterSourceShrank(t *testing.T) {
	pageCount := 3
	engine := &fakeEngine{
		openFn: func([]byte) (*driven.DocumentInfo, error) {
			return &driven.DocumentInfo{PageCount: pageCount}, nil
		},
	}
	export, workspace, _ := newExportFixture(t, engine)
	ctx := context.Background()

	rec, err := workspace.AddBytes(ctx, "scan.pdf", []byte("%PDF"))
	require.NoError(t, err)

	// The source now reports fewer pages than the cached sequence.
	pageCount = 2

	result, err := export.ExportFile(ctx, rec.ID, false)

	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.True(t, errors.Is(result.Reason, domain.ErrOutOfRange))
}

func TestExportFile_EmptyOutputFallsBack(t *testing.T) {
	engine := &fakeEngine{
		collectFn: func([]byte, []int) ([]byte, error) {
			return []byte{}, nil
		},
	}
	export, workspace, _ := newExportFixture(t, engine)
	ctx := context.Background()

	rec, err := workspace.AddBytes(ctx, "scan.pdf", []byte("%PDF"))
	require.NoError(t, err)

	result, err := export.ExportFile(ctx, rec.ID, false)

	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.True(t, errors.Is(result.Reason, domain.ErrEmptyOutput))
}

func TestMerge_RequiresTwoFiles(t *testing.T) {
	export, workspace, _ := newExportFixture(t, &fakeEngine{})
	ctx := context.Background()

	rec, err := workspace.AddBytes(ctx, "a.pdf", []byte("%PDF a"))
	require.NoError(t, err)
	require.NoError(t, workspace.SetMergeSelected(ctx, rec.ID, true))

	_, err = export.Merge(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotEnoughFiles))
}

func TestMerge_SelectedInListOrder(t *testing.T) {
	var mergedSources [][]byte
	engine := &fakeEngine{
		collectFn: func(data []byte, _ []int) ([]byte, error) {
			return data, nil
		},
		mergeFn: func(sources [][]byte) ([]byte, error) {
			mergedSources = sources
			return []byte("%PDF merged"), nil
		},
	}
	export, workspace, _ := newExportFixture(t, engine)
	ctx := context.Background()

	a, err := workspace.AddBytes(ctx, "a.pdf", []byte("%PDF a"))
	require.NoError(t, err)
	_, err = workspace.AddBytes(ctx, "b.pdf", []byte("%PDF b"))
	require.NoError(t, err)
	c, err := workspace.AddBytes(ctx, "c.pdf", []byte("%PDF c"))
	require.NoError(t, err)

	require.NoError(t, workspace.SetMergeSelected(ctx, a.ID, true))
	require.NoError(t, workspace.SetMergeSelected(ctx, c.ID, true))

	result, err := export.Merge(ctx)

	require.NoError(t, err)
	require.Len(t, mergedSources, 2)
	assert.Equal(t, []byte("%PDF a"), mergedSources[0])
	assert.Equal(t, []byte("%PDF c"), mergedSources[1])
	assert.Equal(t, []byte("%PDF merged"), result.Data)
}

func TestMerge_NameCarriesTimestamp(t *testing.T) {
	export, workspace, _ := newExportFixture(t, &fakeEngine{})
	export.now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf"} {
		rec, err := workspace.AddBytes(ctx, name, []byte("%PDF "+name))
		require.NoError(t, err)
		require.NoError(t, workspace.SetMergeSelected(ctx, rec.ID, true))
	}

	result, err := export.Merge(ctx)

	require.NoError(t, err)
	assert.Equal(t, "merged-1714564800000.pdf", result.Filename)
	assert.Equal(t, result.Filename, result.Record.Name)
}

func TestMerge_AppendsAndSelectsResult(t *testing.T) {
	export, workspace, _ := newExportFixture(t, &fakeEngine{})
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf"} {
		rec, err := workspace.AddBytes(ctx, name, []byte("%PDF "+name))
		require.NoError(t, err)
		require.NoError(t, workspace.SetMergeSelected(ctx, rec.ID, true))
	}

	result, err := export.Merge(ctx)
	require.NoError(t, err)

	records, err := workspace.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, result.Record.ID, records[2].ID)

	selected, err := workspace.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Record.ID, selected.ID)
}

func TestMerge_AbortsOnFirstInvalidSource(t *testing.T) {
	engine := &fakeEngine{
		collectFn: func(data []byte, _ []int) ([]byte, error) {
			if string(data) == "%PDF bad" {
				return nil, errors.New("damaged")
			}
			return data, nil
		},
	}
	export, workspace, _ := newExportFixture(t, engine)
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "bad", "c.pdf"} {
		data := []byte("%PDF " + name)
		if name == "bad" {
			data = []byte("%PDF bad")
		}
		rec, err := workspace.AddBytes(ctx, name, data)
		require.NoError(t, err)
		require.NoError(t, workspace.SetMergeSelected(ctx, rec.ID, true))
	}

	_, err := export.Merge(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCopy))

	// No partial output record was added.
	records, listErr := workspace.List(ctx)
	require.NoError(t, listErr)
	assert.Len(t, records, 3)
}
