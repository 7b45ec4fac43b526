// Package app wires the recipe sources, the ingredient parser and the
// persisted shopping lists into the operations exposed by the front-ends.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"recipe-shopper/internal/clipper"
	"recipe-shopper/internal/ghost"
	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/likes"
	"recipe-shopper/internal/recipe"
	"recipe-shopper/internal/shopping"
	"recipe-shopper/internal/units"
)

var ErrGhostNotConfigured = errors.New("ghost is not configured")

// Summary is a search result.
type Summary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
	URL      string `json:"url,omitempty"`
}

// App holds the application's dependencies.
type App struct {
	ghostClient   ghost.Client
	units         *units.Table
	parser        *ingredient.Parser
	extractor     *recipe.Extractor
	recipeRepo    *recipe.Repository
	listRepo      *shopping.Repository
	likeBook      *likes.Book
	recipeClipper *clipper.Clipper
	logger        *zap.Logger
}

// NewApp creates and initializes a new App instance. ghostClient may be nil,
// in which case only list and parsing operations are available.
func NewApp(
	ghostClient ghost.Client,
	table *units.Table,
	recipeRepo *recipe.Repository,
	listRepo *shopping.Repository,
	likeBook *likes.Book,
	logger *zap.Logger,
) *App {
	if table == nil {
		table = units.Default()
	}
	parser := ingredient.NewParser(table)
	extractor := recipe.NewExtractor(parser)
	return &App{
		ghostClient:   ghostClient,
		units:         table,
		parser:        parser,
		extractor:     extractor,
		recipeRepo:    recipeRepo,
		listRepo:      listRepo,
		likeBook:      likeBook,
		recipeClipper: clipper.NewClipper(ghostClient, extractor, logger),
		logger:        logger,
	}
}

// Parse interprets a single ingredient line.
func (a *App) Parse(line string) ingredient.Ingredient {
	return a.parser.Parse(line)
}

// Search looks up recipes whose title contains query.
func (a *App) Search(ctx context.Context, query string) ([]Summary, error) {
	if a.ghostClient == nil {
		return nil, ErrGhostNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is empty")
	}

	posts, err := a.ghostClient.SearchRecipes(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}

	results := make([]Summary, 0, len(posts))
	for _, p := range posts {
		results = append(results, Summary{ID: p.ID, Title: p.Title, ImageURL: p.FeatureImage, URL: p.URL})
	}
	a.logger.Debug("Searched recipes", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

// Recipe returns recipe id scaled to servings. A servings value of 0 keeps the
// recipe's own serving count.
func (a *App) Recipe(ctx context.Context, id string, servings int) (*recipe.Recipe, error) {
	rec, err := a.loadRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if servings != 0 && servings != rec.Servings {
		if err := rec.SetServings(servings); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// loadRecipe serves a cached recipe while it is still fresh and refetches it
// otherwise. When Ghost is unreachable a cached copy is used if there is one.
func (a *App) loadRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	if a.ghostClient == nil {
		cached, err := a.recipeRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if cached == nil {
			return nil, ErrGhostNotConfigured
		}
		return cached, nil
	}

	post, err := a.ghostClient.GetRecipe(ctx, id)
	if err != nil {
		if !errors.Is(err, ghost.ErrNotFound) {
			if cached, cacheErr := a.recipeRepo.Get(ctx, id); cacheErr == nil && cached != nil {
				a.logger.Warn("Ghost unavailable, serving cached recipe", zap.String("id", id), zap.Error(err))
				return cached, nil
			}
		}
		return nil, fmt.Errorf("failed to get recipe %s: %w", id, err)
	}

	fresh, err := a.recipeRepo.IsFresh(ctx, id, post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if fresh {
		cached, err := a.recipeRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return cached, nil
		}
	}

	return ProcessAndSaveRecipe(ctx, a.extractor, a.recipeRepo, *post)
}

// AddRecipeToList adds the ingredients of recipe id, scaled to servings, to
// owner's shopping list.
func (a *App) AddRecipeToList(ctx context.Context, owner, id string, servings int) ([]shopping.Item, error) {
	rec, err := a.Recipe(ctx, id, servings)
	if err != nil {
		return nil, err
	}

	var added []shopping.Item
	err = a.withList(ctx, owner, func(l *shopping.List) error {
		var addErr error
		added, addErr = l.AddIngredients(rec.Ingredients)
		return addErr
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info("Added recipe to shopping list",
		zap.String("owner", owner),
		zap.String("recipe", rec.Title),
		zap.Int("servings", rec.Servings),
		zap.Int("items", len(added)))
	return added, nil
}

// AddLine parses line and adds it to owner's shopping list.
func (a *App) AddLine(ctx context.Context, owner, line string) (shopping.Item, error) {
	ing := a.parser.Parse(line)
	var item shopping.Item
	err := a.withList(ctx, owner, func(l *shopping.List) error {
		var err error
		item, err = l.AddItem(ing.Count, ing.Unit, ing.Name)
		return err
	})
	return item, err
}

// List returns owner's shopping list.
func (a *App) List(ctx context.Context, owner string) ([]shopping.Item, error) {
	l, err := a.listRepo.Load(ctx, owner, a.units)
	if err != nil {
		return nil, err
	}
	return l.Items(), nil
}

// UpdateItem sets the count of an item on owner's list.
func (a *App) UpdateItem(ctx context.Context, owner, id string, count float64) error {
	return a.withList(ctx, owner, func(l *shopping.List) error {
		return l.UpdateCount(id, count)
	})
}

// DeleteItem removes an item from owner's list.
func (a *App) DeleteItem(ctx context.Context, owner, id string) error {
	return a.withList(ctx, owner, func(l *shopping.List) error {
		return l.DeleteItem(id)
	})
}

// ClearList empties owner's list.
func (a *App) ClearList(ctx context.Context, owner string) error {
	return a.listRepo.Delete(ctx, owner)
}

// ExportList writes owner's list to w as a spreadsheet.
func (a *App) ExportList(ctx context.Context, owner string, w io.Writer) error {
	items, err := a.List(ctx, owner)
	if err != nil {
		return err
	}
	return shopping.ExportXLSX(w, items)
}

// ToggleLike likes recipe id, or unlikes it if it is already liked. It reports
// whether the recipe is liked afterwards.
func (a *App) ToggleLike(ctx context.Context, id string) (bool, error) {
	if a.likeBook.IsLiked(id) {
		return a.likeBook.Toggle(likes.Like{ID: id})
	}
	rec, err := a.loadRecipe(ctx, id)
	if err != nil {
		return false, err
	}
	return a.likeBook.Toggle(likes.Like{
		ID:        rec.ID,
		Title:     rec.Title,
		Publisher: rec.Publisher,
		ImageURL:  rec.ImageURL,
	})
}

// Likes returns the liked recipes.
func (a *App) Likes() []likes.Like {
	return a.likeBook.List()
}

// ClipURL imports the recipe at rawURL into the recipe cache, keyed by its
// URL, and optionally publishes it to Ghost.
func (a *App) ClipURL(ctx context.Context, rawURL string, publish bool) (*recipe.Recipe, error) {
	rec, err := a.recipeClipper.Clip(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if publish {
		if a.ghostClient == nil {
			return nil, ErrGhostNotConfigured
		}
		post, err := a.recipeClipper.Publish(ctx, rec, rawURL)
		if err != nil {
			return nil, err
		}
		rec.ID = post.ID
		rec.UpdatedAt = post.UpdatedAt
	}
	if err := a.recipeRepo.Save(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// withList loads owner's list, applies fn and saves the result. Nothing is
// saved when fn fails.
func (a *App) withList(ctx context.Context, owner string, fn func(*shopping.List) error) error {
	l, err := a.listRepo.Load(ctx, owner, a.units)
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	return a.listRepo.Save(ctx, owner, l)
}
