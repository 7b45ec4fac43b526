package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recipe-shopper/internal/ghost"
	"recipe-shopper/internal/recipe"
)

// IngestResult summarises an ingestion run.
type IngestResult struct {
	Fetched  int
	Updated  int
	UpToDate int
	Failed   int
}

// ProcessAndSaveRecipe extracts the recipe in post and caches it.
func ProcessAndSaveRecipe(
	ctx context.Context,
	extractor *recipe.Extractor,
	recipeRepo *recipe.Repository,
	post ghost.Post,
) (*recipe.Recipe, error) {
	rec, err := extractor.FromPost(post)
	if err != nil {
		return nil, fmt.Errorf("failed to extract recipe: %w", err)
	}
	if err := recipeRepo.Save(ctx, *rec); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	return rec, nil
}

// IngestRecipes fetches every recipe post from Ghost and caches the ones that
// changed since the last run. A post that cannot be parsed is logged and
// skipped.
func (a *App) IngestRecipes(ctx context.Context) (IngestResult, error) {
	var res IngestResult
	if a.ghostClient == nil {
		return res, ErrGhostNotConfigured
	}

	posts, err := a.ghostClient.FetchRecipes(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to fetch recipes from ghost: %w", err)
	}
	res.Fetched = len(posts)
	a.logger.Info("Fetched recipe posts", zap.Int("count", len(posts)))

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		fresh, err := a.recipeRepo.IsFresh(ctx, post.ID, post.UpdatedAt)
		if err != nil {
			return res, err
		}
		if fresh {
			res.UpToDate++
			a.logger.Debug("Recipe up to date", zap.String("title", post.Title))
			continue
		}

		if _, err := ProcessAndSaveRecipe(ctx, a.extractor, a.recipeRepo, post); err != nil {
			res.Failed++
			a.logger.Warn("Failed to ingest recipe", zap.String("title", post.Title), zap.Error(err))
			continue
		}
		res.Updated++
		a.logger.Info("Ingested recipe", zap.String("title", post.Title))
	}
	return res, nil
}
