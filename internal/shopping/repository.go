package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recipe-shopper/internal/units"
)

// Repository persists one shopping list per owner.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save stores the list for owner, replacing any previous one.
func (r *Repository) Save(ctx context.Context, owner string, list *List) error {
	itemsJSON, err := json.Marshal(list.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (owner, items, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(owner) DO UPDATE SET
		   items = excluded.items,
		   updated_at = excluded.updated_at`,
		owner, string(itemsJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save shopping list for %s: %w", owner, err)
	}
	return nil
}

// Load returns the list stored for owner, or an empty list if there is none.
func (r *Repository) Load(ctx context.Context, owner string, table *units.Table) (*List, error) {
	var itemsJSON string
	err := r.db.QueryRowContext(ctx, `SELECT items FROM shopping_lists WHERE owner = ?`, owner).Scan(&itemsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewList(table), nil
		}
		return nil, fmt.Errorf("failed to get shopping list for %s: %w", owner, err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(itemsJSON), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return Restore(table, snap)
}

// Delete removes the list stored for owner.
func (r *Repository) Delete(ctx context.Context, owner string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("failed to delete shopping list for %s: %w", owner, err)
	}
	return nil
}
