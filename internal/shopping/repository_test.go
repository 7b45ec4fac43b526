package shopping

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

	t.Run("LoadMissingIsEmpty", func(t *testing.T) {
		l, err := repo.Load(ctx, "alice", nil)
		require.NoError(t, err)
		require.NotNil(t, l)
		assert.Equal(t, 0, l.Len())
	})

	l := NewList(nil)
	_, _ = l.AddItem(ptr(2), "cup", "flour")
	_, _ = l.AddItem(ptr(3), "", "eggs")

	t.Run("SaveAndLoad", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "alice", l))

		got, err := repo.Load(ctx, "alice", nil)
		require.NoError(t, err)
		assert.Equal(t, l.Items(), got.Items())

		other, err := repo.Load(ctx, "bob", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, other.Len())
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		require.NoError(t, l.UpdateCount(l.Items()[0].ID, 5))
		require.NoError(t, repo.Save(ctx, "alice", l))

		got, err := repo.Load(ctx, "alice", nil)
		require.NoError(t, err)
		assert.Equal(t, 5.0, got.Items()[0].Count)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "alice"))
		got, err := repo.Load(ctx, "alice", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Len())

		require.NoError(t, repo.Delete(ctx, "nobody"))
	})
}
