package recipe

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recipe-shopper/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	rec := Recipe{
		ID:          "r1",
		Title:       "Pancakes",
		Servings:    4,
		Ingredients: sample(),
		UpdatedAt:   "2024-01-01T00:00:00Z",
	}

	t.Run("GetMissing", func(t *testing.T) {
		got, err := repo.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Nil(t, got)

		fresh, err := repo.IsFresh(ctx, "r1", rec.UpdatedAt)
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("SaveAndGet", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, rec))

		got, err := repo.Get(ctx, "r1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, rec, *got)

		fresh, err := repo.IsFresh(ctx, "r1", rec.UpdatedAt)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = repo.IsFresh(ctx, "r1", "2025-01-01T00:00:00Z")
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("Upsert", func(t *testing.T) {
		updated := rec
		updated.Title = "Fluffy Pancakes"
		require.NoError(t, repo.Save(ctx, updated))

		got, err := repo.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "Fluffy Pancakes", got.Title)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
