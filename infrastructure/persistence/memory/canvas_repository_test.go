package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

func TestCanvasRepository_GetOrCreateDefaultIsIdempotent(t *testing.T) {
	repo := NewCanvasRepository(zap.NewNop())
	ctx := context.Background()

	first, err := repo.GetOrCreateDefault(ctx)
	require.NoError(t, err)

	second, err := repo.GetOrCreateDefault(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestCanvasRepository_UpdateMutationVisibleToView(t *testing.T) {
	repo := NewCanvasRepository(zap.NewNop())
	ctx := context.Background()
	canvas, err := repo.GetOrCreateDefault(ctx)
	require.NoError(t, err)

	node, err := entities.NewNode(entities.KindText, valueobjects.NewPosition(0, 0), &entities.TextPayload{Content: "n"})
	require.NoError(t, err)

	err = repo.Update(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		return c.AddNode(node)
	})
	require.NoError(t, err)

	err = repo.View(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		assert.True(t, c.HasNode(node.ID()))
		return nil
	})
	require.NoError(t, err)
}

func TestCanvasRepository_UpdateErrorPropagates(t *testing.T) {
	repo := NewCanvasRepository(zap.NewNop())
	ctx := context.Background()
	canvas, err := repo.GetOrCreateDefault(ctx)
	require.NoError(t, err)

	wantErr := errors.New("rejected")
	err = repo.Update(ctx, canvas.ID(), func(*aggregates.Canvas) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
}

func TestCanvasRepository_GetByIDNotFound(t *testing.T) {
	repo := NewCanvasRepository(zap.NewNop())

	_, err := repo.GetByID(context.Background(), aggregates.CanvasID("missing"))

	assert.Error(t, err)
}

func TestCanvasRepository_DeleteRemovesDefault(t *testing.T) {
	repo := NewCanvasRepository(zap.NewNop())
	ctx := context.Background()
	canvas, err := repo.GetOrCreateDefault(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, canvas.ID()))

	_, err = repo.GetByID(ctx, canvas.ID())
	assert.Error(t, err)

	// A fresh default is created on next access.
	fresh, err := repo.GetOrCreateDefault(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, canvas.ID(), fresh.ID())
}
