package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository caches parsed recipes in SQLite so that a recipe is only fetched
// and parsed again when its source changes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or replaces a recipe.
func (r *Repository) Save(ctx context.Context, rec Recipe) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO recipes (id, title, data, source_updated_at, cached_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   data = excluded.data,
		   source_updated_at = excluded.source_updated_at,
		   cached_at = excluded.cached_at`,
		rec.ID, rec.Title, string(data), rec.UpdatedAt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a recipe by its ID. It returns nil, nil when the recipe is not cached.
func (r *Repository) Get(ctx context.Context, id string) (*Recipe, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM recipes WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &rec, nil
}

// IsFresh reports whether the cached copy of id matches the source's updatedAt.
func (r *Repository) IsFresh(ctx context.Context, id, updatedAt string) (bool, error) {
	var cached string
	err := r.db.QueryRowContext(ctx, `SELECT source_updated_at FROM recipes WHERE id = ?`, id).Scan(&cached)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check recipe %s: %w", id, err)
	}
	return cached == updatedAt, nil
}

// Count returns the number of cached recipes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}
