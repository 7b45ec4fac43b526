package likes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-shopper/internal/storage"
)

type failingStore struct{}

func (failingStore) Put(string, any) error        { return errors.New("disk full") }
func (failingStore) Get(string, any) (bool, error) { return false, nil }

func newBook(t *testing.T, dir string) *Book {
	t.Helper()
	store, err := storage.NewStore(dir)
	require.NoError(t, err)
	b := NewBook(store)
	require.NoError(t, b.Load())
	return b
}

func TestBook(t *testing.T) {
	dir := t.TempDir()
	b := newBook(t, dir)
	assert.Equal(t, 0, b.Count())

	pancakes := Like{ID: "r1", Title: "Pancakes", Publisher: "Kitchen"}
	soup := Like{ID: "r2", Title: "Soup"}

	_, err := b.Add(pancakes)
	require.NoError(t, err)
	_, err = b.Add(soup)
	require.NoError(t, err)

	t.Run("Duplicate", func(t *testing.T) {
		_, err := b.Add(pancakes)
		require.ErrorIs(t, err, ErrAlreadyLiked)
		assert.Equal(t, 2, b.Count())
	})

	t.Run("PersistsAcrossBooks", func(t *testing.T) {
		reloaded := newBook(t, dir)
		assert.Equal(t, []Like{pancakes, soup}, reloaded.List())
		assert.True(t, reloaded.IsLiked("r2"))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, b.Delete("r1"))
		assert.False(t, b.IsLiked("r1"))
		require.ErrorIs(t, b.Delete("r1"), ErrNotFound)

		reloaded := newBook(t, dir)
		assert.Equal(t, []Like{soup}, reloaded.List())
	})

	t.Run("Toggle", func(t *testing.T) {
		liked, err := b.Toggle(pancakes)
		require.NoError(t, err)
		assert.True(t, liked)

		liked, err = b.Toggle(pancakes)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, []Like{soup}, b.List())
	})
}

func TestBookRollsBackOnStoreFailure(t *testing.T) {
	b := NewBook(failingStore{})
	_, err := b.Add(Like{ID: "r1"})
	require.Error(t, err)
	assert.Equal(t, 0, b.Count())

	_, err = b.Add(Like{})
	require.Error(t, err)
}
