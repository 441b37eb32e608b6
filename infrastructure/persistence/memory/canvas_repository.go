package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	pkgerrors "canvas-backend/pkg/errors"
)

// CanvasRepository is an in-memory canvas store. The canvas is the live
// working state of every connected client; a single RWMutex per repository
// serializes mutations while snapshot reads share the read lock.
type CanvasRepository struct {
	mu       sync.RWMutex
	canvases map[aggregates.CanvasID]*aggregates.Canvas
	def      aggregates.CanvasID
	logger   *zap.Logger
}

// NewCanvasRepository creates an empty in-memory repository
func NewCanvasRepository(logger *zap.Logger) *CanvasRepository {
	return &CanvasRepository{
		canvases: make(map[aggregates.CanvasID]*aggregates.Canvas),
		logger:   logger,
	}
}

var _ ports.CanvasRepository = (*CanvasRepository)(nil)

// Save persists a canvas
func (r *CanvasRepository) Save(_ context.Context, canvas *aggregates.Canvas) error {
	if canvas == nil {
		return pkgerrors.NewValidationError("canvas cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.canvases[canvas.ID()] = canvas
	return nil
}

// GetByID retrieves a canvas by its ID
func (r *CanvasRepository) GetByID(_ context.Context, id aggregates.CanvasID) (*aggregates.Canvas, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	canvas, ok := r.canvases[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("canvas")
	}
	return canvas, nil
}

// GetOrCreateDefault gets the default canvas, creating it on first access
func (r *CanvasRepository) GetOrCreateDefault(_ context.Context) (*aggregates.Canvas, error) {
	r.mu.RLock()
	if r.def != "" {
		if canvas, ok := r.canvases[r.def]; ok {
			r.mu.RUnlock()
			return canvas, nil
		}
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if canvas, ok := r.canvases[r.def]; ok {
		return canvas, nil
	}

	canvas := aggregates.NewCanvas("")
	r.canvases[canvas.ID()] = canvas
	r.def = canvas.ID()

	r.logger.Info("default canvas created", zap.String("canvas_id", canvas.ID().String()))
	return canvas, nil
}

// Update applies fn to the canvas under the write lock
func (r *CanvasRepository) Update(_ context.Context, id aggregates.CanvasID, fn func(*aggregates.Canvas) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	canvas, ok := r.canvases[id]
	if !ok {
		return pkgerrors.NewNotFoundError("canvas")
	}
	return fn(canvas)
}

// View applies fn to the canvas under the read lock
func (r *CanvasRepository) View(_ context.Context, id aggregates.CanvasID, fn func(*aggregates.Canvas) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	canvas, ok := r.canvases[id]
	if !ok {
		return pkgerrors.NewNotFoundError("canvas")
	}
	return fn(canvas)
}

// Delete removes a canvas and everything on it
func (r *CanvasRepository) Delete(_ context.Context, id aggregates.CanvasID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.canvases[id]; !ok {
		return pkgerrors.NewNotFoundError("canvas")
	}
	delete(r.canvases, id)
	if r.def == id {
		r.def = ""
	}
	return nil
}
