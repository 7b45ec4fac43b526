// Package likes keeps the user's bookmarked recipes.
package likes

import (
	"errors"
	"fmt"
)

const storageKey = "likes"

var (
	ErrNotFound     = errors.New("like not found")
	ErrAlreadyLiked = errors.New("recipe already liked")
)

// Like is a bookmarked recipe.
type Like struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	ImageURL  string `json:"image_url"`
}

// Store is where the likes are persisted.
type Store interface {
	Put(key string, v any) error
	Get(key string, v any) (bool, error)
}

// Book is the ordered collection of likes. Every change is written through to
// the store.
type Book struct {
	store Store
	likes []Like
}

// NewBook returns an empty Book backed by store. Call Load to read previously
// saved likes.
func NewBook(store Store) *Book {
	return &Book{store: store}
}

// Load replaces the in-memory likes with the persisted ones.
func (b *Book) Load() error {
	var stored []Like
	if _, err := b.store.Get(storageKey, &stored); err != nil {
		return fmt.Errorf("failed to load likes: %w", err)
	}
	b.likes = stored
	return nil
}

// Add likes a recipe.
func (b *Book) Add(l Like) (Like, error) {
	if l.ID == "" {
		return Like{}, errors.New("like has no recipe ID")
	}
	if b.IsLiked(l.ID) {
		return Like{}, fmt.Errorf("%w: %s", ErrAlreadyLiked, l.ID)
	}
	b.likes = append(b.likes, l)
	if err := b.persist(); err != nil {
		b.likes = b.likes[:len(b.likes)-1]
		return Like{}, err
	}
	return l, nil
}

// Delete removes the like for recipe id.
func (b *Book) Delete(id string) error {
	i := b.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	prev := b.likes
	b.likes = append(append([]Like(nil), b.likes[:i]...), b.likes[i+1:]...)
	if err := b.persist(); err != nil {
		b.likes = prev
		return err
	}
	return nil
}

// Toggle likes l if it is not liked yet and unlikes it otherwise. It reports
// whether the recipe is liked afterwards.
func (b *Book) Toggle(l Like) (bool, error) {
	if b.IsLiked(l.ID) {
		return false, b.Delete(l.ID)
	}
	if _, err := b.Add(l); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Book) IsLiked(id string) bool {
	return b.indexOf(id) >= 0
}

// List returns a copy of the likes in the order they were added.
func (b *Book) List() []Like {
	out := make([]Like, len(b.likes))
	copy(out, b.likes)
	return out
}

func (b *Book) Count() int {
	return len(b.likes)
}

func (b *Book) indexOf(id string) int {
	for i, l := range b.likes {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (b *Book) persist() error {
	likes := b.likes
	if likes == nil {
		likes = []Like{}
	}
	if err := b.store.Put(storageKey, likes); err != nil {
		return fmt.Errorf("failed to save likes: %w", err)
	}
	return nil
}
