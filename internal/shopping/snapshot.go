package shopping

import (
	"fmt"
	"sort"

	"recipe-shopper/internal/units"
)

// Record is the persisted form of an Item.
type Record struct {
	Count      float64 `json:"count"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
}

// Snapshot maps item IDs to their records.
type Snapshot map[string]Record

// Snapshot captures the list for storage.
func (l *List) Snapshot() Snapshot {
	s := make(Snapshot, len(l.items))
	for _, it := range l.items {
		s[it.ID] = Record{Count: it.Count, Unit: it.Unit, Ingredient: it.Ingredient}
	}
	return s
}

// Restore rebuilds a list from a snapshot. Item IDs are time ordered, so
// sorting them recovers insertion order; items created while the system clock
// stepped backwards may come back out of order. Units are mapped to their
// canonical name but counts are kept as stored.
func Restore(table *units.Table, s Snapshot) (*List, error) {
	l := NewList(table)

	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r := s[id]
		if id == "" {
			return nil, fmt.Errorf("failed to restore shopping list: empty item ID")
		}
		if collapseSpaces(r.Ingredient) == "" {
			return nil, fmt.Errorf("failed to restore item %s: %w", id, ErrEmptyName)
		}
		if !validCount(r.Count) {
			return nil, fmt.Errorf("failed to restore item %s: %w", id, ErrInvalidCount)
		}
		unit, _ := l.units.Normalize(r.Unit)
		l.items = append(l.items, Item{ID: id, Count: r.Count, Unit: unit, Ingredient: r.Ingredient})
	}
	l.reindex()
	return l, nil
}
