package recipe

import (
	"time"

	"recipe-shopper/internal/ingredient"
)

// DefaultServings is used when a source does not state a serving count.
const DefaultServings = 4

// Recipe is a recipe whose ingredient lines have been parsed.
type Recipe struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Publisher   string                  `json:"publisher,omitempty"`
	ImageURL    string                  `json:"image_url,omitempty"`
	SourceURL   string                  `json:"source_url,omitempty"`
	Servings    int                     `json:"servings"`
	CookingTime time.Duration           `json:"cooking_time"`
	Ingredients []ingredient.Ingredient `json:"ingredients"`
	UpdatedAt   string                  `json:"updated_at,omitempty"`
}

// EstimateCookingTime allows 15 minutes for every started group of three ingredients.
func EstimateCookingTime(numIngredients int) time.Duration {
	periods := (numIngredients + 2) / 3
	return time.Duration(periods) * 15 * time.Minute
}

// SetServings rescales the ingredients to n servings.
func (r *Recipe) SetServings(n int) error {
	scaled, err := Scale(r.Ingredients, r.Servings, n)
	if err != nil {
		return err
	}
	r.Ingredients = scaled
	r.Servings = n
	return nil
}

func (r *Recipe) IncreaseServings() error {
	return r.SetServings(r.Servings + 1)
}

// DecreaseServings fails with ErrInvalidServings when only one serving is left.
func (r *Recipe) DecreaseServings() error {
	return r.SetServings(r.Servings - 1)
}

// Lines renders every ingredient for display.
func (r *Recipe) Lines() []string {
	out := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		out[i] = ing.String()
	}
	return out
}
