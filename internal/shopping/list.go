// Package shopping aggregates ingredients into a deduplicated shopping list.
package shopping

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/units"
)

var (
	ErrNotFound     = errors.New("shopping list item not found")
	ErrEmptyName    = errors.New("ingredient name is empty")
	ErrInvalidCount = errors.New("count must be a finite, non-negative number")
)

// Item is one line of the shopping list.
type Item struct {
	ID         string  `json:"id"`
	Count      float64 `json:"count"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
}

func (it Item) String() string {
	count := ingredient.FormatCount(it.Count)
	if it.Unit == "" {
		return count + " " + it.Ingredient
	}
	return count + " " + it.Unit + " " + it.Ingredient
}

// List is an ordered shopping list. Items with the same canonical unit and
// normalised name are merged by summing their counts. A List is not safe for
// concurrent use.
type List struct {
	units *units.Table
	items []Item
	byKey map[string]int
	newID func() (string, error)
}

// NewList returns an empty list that normalises units through table. A nil
// table means units.Default().
func NewList(table *units.Table) *List {
	if table == nil {
		table = units.Default()
	}
	return &List{
		units: table,
		byKey: make(map[string]int),
		newID: newID,
	}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate item ID: %w", err)
	}
	return id.String(), nil
}

// AddItem adds count of unit name to the list. A nil count counts as 1. When
// an item with the same unit and name already exists its count is increased
// and the updated item is returned. A count that overflows after conversion or
// merging fails with ErrInvalidCount and leaves the list unchanged.
func (l *List) AddItem(count *float64, unit, name string) (Item, error) {
	display := collapseSpaces(name)
	if display == "" {
		return Item{}, ErrEmptyName
	}

	c := 1.0
	if count != nil {
		c = *count
	}
	if !validCount(c) {
		return Item{}, ErrInvalidCount
	}

	canonical, factor := l.units.Normalize(unit)
	c *= factor
	if !validCount(c) {
		return Item{}, ErrInvalidCount
	}

	key := mergeKey(canonical, display)
	if i, ok := l.byKey[key]; ok {
		total := l.items[i].Count + c
		if !validCount(total) {
			return Item{}, ErrInvalidCount
		}
		l.items[i].Count = total
		return l.items[i], nil
	}

	id, err := l.newID()
	if err != nil {
		return Item{}, err
	}
	item := Item{ID: id, Count: c, Unit: canonical, Ingredient: display}
	l.byKey[key] = len(l.items)
	l.items = append(l.items, item)
	return item, nil
}

// AddIngredients adds every ingredient in order and returns the resulting
// items. Nothing is added if any ingredient is invalid.
func (l *List) AddIngredients(ings []ingredient.Ingredient) ([]Item, error) {
	for i, ing := range ings {
		if collapseSpaces(ing.Name) == "" {
			return nil, fmt.Errorf("ingredient %d: %w", i, ErrEmptyName)
		}
		if ing.Count != nil && !validCount(*ing.Count) {
			return nil, fmt.Errorf("ingredient %d: %w", i, ErrInvalidCount)
		}
	}

	saved := l.Items()
	out := make([]Item, 0, len(ings))
	for i, ing := range ings {
		item, err := l.AddItem(ing.Count, ing.Unit, ing.Name)
		if err != nil {
			l.items = saved
			l.reindex()
			return nil, fmt.Errorf("ingredient %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// UpdateCount sets the count of the item with the given id.
func (l *List) UpdateCount(id string, count float64) error {
	if !validCount(count) {
		return ErrInvalidCount
	}
	i := l.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	l.items[i].Count = count
	return nil
}

// DeleteItem removes the item with the given id. The order of the remaining
// items is preserved.
func (l *List) DeleteItem(id string) error {
	i := l.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.reindex()
	return nil
}

// Items returns a copy of the items in insertion order.
func (l *List) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Get returns the item with the given id.
func (l *List) Get(id string) (Item, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Item{}, false
	}
	return l.items[i], true
}

func (l *List) Len() int {
	return len(l.items)
}

// Clear removes every item.
func (l *List) Clear() {
	l.items = nil
	l.byKey = make(map[string]int)
}

func (l *List) indexOf(id string) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (l *List) reindex() {
	l.byKey = make(map[string]int, len(l.items))
	for i, it := range l.items {
		key := mergeKey(it.Unit, it.Ingredient)
		if _, ok := l.byKey[key]; !ok {
			l.byKey[key] = i
		}
	}
}

func validCount(c float64) bool {
	return c >= 0 && !math.IsInf(c, 0) && !math.IsNaN(c)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// mergeKey identifies items that should be merged: the canonical unit plus the
// NFKC-normalised, whitespace-collapsed, lowercased name.
func mergeKey(unit, name string) string {
	return unit + "\x00" + strings.ToLower(collapseSpaces(norm.NFKC.String(name)))
}
