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
)

func newRenderFixture(t *testing.T, rasterizer *fakeRasterizer) (*RenderService, *WorkspaceService, *domain.FileRecord) {
	t.Helper()
	store := memory.NewFileStore()
	workspace := NewWorkspaceService(store, &fakeEngine{}, 0)
	render := NewRenderService(store, rasterizer, 1.5, 0)

	rec, err := workspace.AddBytes(context.Background(), "scan.pdf", []byte("%PDF"))
	require.NoError(t, err)
	return render, workspace, rec
}

func TestRenderFile_AscendingOrder(t *testing.T) {
	rasterizer := &fakeRasterizer{}
	render, workspace, rec := newRenderFixture(t, rasterizer)
	ctx := context.Background()

	// Reorder before rendering: render order follows page numbers, not
	// display order.
	_, err := workspace.MovePage(ctx, rec.ID, 0, 2)
	require.NoError(t, err)

	require.NoError(t, render.RenderFile(ctx, rec.ID))

	assert.Equal(t, []int{1, 2, 3}, rasterizer.pages())

	got, err := workspace.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.RenderedPages())
	assert.False(t, got.Rendering)

	// Previews landed on the right pages despite the reorder.
	assert.Equal(t, 2, got.Pages[0].PageNumber)
	assert.Equal(t, "data:image/png;base64,page2", got.Pages[0].Thumb)
}

func TestRenderFile_FailureKeepsEarlierPreviews(t *testing.T) {
	rasterizer := &fakeRasterizer{
		renderFn: func(_ []byte, pageNumber int, _ float64) (string, error) {
			if pageNumber == 3 {
				return "", errors.New("mupdf failure")
			}
			return "data:image/png;base64,ok", nil
		},
	}
	render, workspace, rec := newRenderFixture(t, rasterizer)
	ctx := context.Background()

	err := render.RenderFile(ctx, rec.ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRender))

	got, err := workspace.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RenderedPages())
	assert.False(t, got.Rendering)
}

func TestRenderStart_RemovalDropsResultsSilently(t *testing.T) {
	removed := make(chan struct{})
	proceed := make(chan struct{})
	rasterizer := &fakeRasterizer{
		renderFn: func(_ []byte, pageNumber int, _ float64) (string, error) {
			if pageNumber == 2 {
				close(removed)
				<-proceed
			}
			return "data:image/png;base64,ok", nil
		},
	}
	render, workspace, rec := newRenderFixture(t, rasterizer)
	ctx := context.Background()

	require.NoError(t, render.Start(ctx, rec.ID))

	// Remove the file while page 2 is mid-render. The in-flight result
	// has nowhere to land and the run stops without error.
	<-removed
	require.NoError(t, workspace.Remove(ctx, rec.ID))
	close(proceed)

	assert.Eventually(t, func() bool {
		status, err := render.Status(ctx, rec.ID)
		return err == nil && !status.Running
	}, time.Second, 10*time.Millisecond)

	status, err := render.Status(ctx, rec.ID)
	require.NoError(t, err)
	assert.NoError(t, status.Err)
	assert.LessOrEqual(t, len(rasterizer.pages()), 2)
}

func TestRenderStart_SecondStartIsNoOp(t *testing.T) {
	proceed := make(chan struct{})
	started := make(chan struct{})
	rasterizer := &fakeRasterizer{
		renderFn: func(_ []byte, pageNumber int, _ float64) (string, error) {
			if pageNumber == 1 {
				close(started)
				<-proceed
			}
			return "data:image/png;base64,ok", nil
		},
	}
	render, _, rec := newRenderFixture(t, rasterizer)
	ctx := context.Background()

	require.NoError(t, render.Start(ctx, rec.ID))
	<-started
	require.NoError(t, render.Start(ctx, rec.ID))
	close(proceed)

	assert.Eventually(t, func() bool {
		status, err := render.Status(ctx, rec.ID)
		return err == nil && !status.Running
	}, time.Second, 10*time.Millisecond)

	// One run rendered each page exactly once.
	assert.Equal(t, []int{1, 2, 3}, rasterizer.pages())
}

func TestRenderStatus_UnknownFile(t *testing.T) {
	render := NewRenderService(memory.NewFileStore(), &fakeRasterizer{}, 1.5, 0)

	_, err := render.Status(context.Background(), "missing")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
