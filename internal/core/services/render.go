package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
	"github.com/pagedeck/pagedeck-cli/internal/logger"
)

// Ensure RenderService implements the interface.
var _ driving.RenderService = (*RenderService)(nil)

// RenderService renders page previews progressively, lowest page
// number first, pacing work so interactive use stays responsive.
type RenderService struct {
	store      driven.FileStore
	rasterizer driven.Rasterizer
	scale      float64
	pagesPerS  float64

	mu     sync.RWMutex
	active map[string]*driving.RenderStatus
}

// NewRenderService creates a new render service.
func NewRenderService(store driven.FileStore, rasterizer driven.Rasterizer, scale, pagesPerSecond float64) *RenderService {
	return &RenderService{
		store:      store,
		rasterizer: rasterizer,
		scale:      scale,
		pagesPerS:  pagesPerSecond,
		active:     make(map[string]*driving.RenderStatus),
	}
}

// Start begins rendering previews for a record in the background.
// Rendering is keyed by record ID, so the run survives page reorders
// and stops quietly when the record is removed mid-flight. A second
// Start while one run is active is a no-op.
func (s *RenderService) Start(ctx context.Context, fileID string) error {
	rec, err := s.store.Get(ctx, fileID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if st, ok := s.active[fileID]; ok && st.Running {
		s.mu.Unlock()
		return nil
	}
	status := &driving.RenderStatus{
		FileID:        fileID,
		Running:       true,
		PagesRendered: rec.RenderedPages(),
	}
	s.active[fileID] = status
	s.mu.Unlock()

	if err := s.store.SetRendering(ctx, fileID, true); err != nil {
		s.finish(fileID, err)
		return err
	}

	// Renders run to completion; removing the record is the only way
	// to stop one early.
	go s.run(context.Background(), rec)

	return nil
}

// RenderFile renders all previews for a record synchronously.
func (s *RenderService) RenderFile(ctx context.Context, fileID string) error {
	rec, err := s.store.Get(ctx, fileID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if st, ok := s.active[fileID]; ok && st.Running {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrRenderInProgress, rec.Name)
	}
	s.active[fileID] = &driving.RenderStatus{
		FileID:        fileID,
		Running:       true,
		PagesRendered: rec.RenderedPages(),
	}
	s.mu.Unlock()

	if err := s.store.SetRendering(ctx, fileID, true); err != nil {
		s.finish(fileID, err)
		return err
	}

	s.run(ctx, rec)

	s.mu.RLock()
	renderErr := s.active[fileID].Err
	s.mu.RUnlock()
	return renderErr
}

// Status reports rendering progress for a record.
func (s *RenderService) Status(ctx context.Context, fileID string) (*driving.RenderStatus, error) {
	s.mu.RLock()
	if st, ok := s.active[fileID]; ok {
		copied := *st
		s.mu.RUnlock()
		return &copied, nil
	}
	s.mu.RUnlock()

	rec, err := s.store.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return &driving.RenderStatus{
		FileID:        fileID,
		Running:       rec.Rendering,
		PagesRendered: rec.RenderedPages(),
	}, nil
}

// run renders the record's missing previews in ascending page number
// order. A rasterizer failure stops the run but keeps the previews
// already rendered; a missing record means the file was removed and
// the run ends silently.
func (s *RenderService) run(ctx context.Context, rec *domain.FileRecord) {
	var limiter *rate.Limiter
	if s.pagesPerS > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.pagesPerS), 1)
	}

	pending := make([]int, 0, len(rec.Pages))
	for _, p := range rec.Pages {
		if p.Thumb == "" {
			pending = append(pending, p.PageNumber)
		}
	}
	sort.Ints(pending)

	for _, pageNumber := range pending {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				s.finish(rec.ID, err)
				return
			}
		}

		thumb, err := s.rasterizer.RenderPage(rec.Data, pageNumber, s.scale)
		if err != nil {
			logger.Warn("Rendering %s stopped at page %d: %v", rec.Name, pageNumber, err)
			s.finish(rec.ID, fmt.Errorf("%w: page %d of %s: %v", domain.ErrRender, pageNumber, rec.Name, err))
			_ = s.store.SetRendering(ctx, rec.ID, false)
			return
		}

		if err := s.store.SetThumb(ctx, rec.ID, pageNumber, thumb); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("File %s removed during rendering, dropping result", rec.ID)
				s.finish(rec.ID, nil)
				return
			}
			s.finish(rec.ID, err)
			_ = s.store.SetRendering(ctx, rec.ID, false)
			return
		}

		s.mu.Lock()
		if st, ok := s.active[rec.ID]; ok {
			st.PagesRendered++
		}
		s.mu.Unlock()
	}

	s.finish(rec.ID, nil)
	_ = s.store.SetRendering(ctx, rec.ID, false)
	logger.Debug("Rendering complete for %s", rec.ID)
}

// finish marks a run as stopped, recording the failure if any.
func (s *RenderService) finish(fileID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.active[fileID]; ok {
		st.Running = false
		st.Err = err
	}
}
