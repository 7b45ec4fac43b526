package recipe

import (
	"errors"
	"fmt"

	"recipe-shopper/internal/ingredient"
)

var ErrInvalidServings = errors.New("servings must be a positive integer")

// Scale returns a rescaled copy of ings for a change from oldServings to
// newServings. Counts are not rounded; ingredients without a count are copied
// unchanged. The input slice is never modified.
func Scale(ings []ingredient.Ingredient, oldServings, newServings int) ([]ingredient.Ingredient, error) {
	if oldServings <= 0 {
		return nil, fmt.Errorf("%w: current servings %d", ErrInvalidServings, oldServings)
	}
	if newServings <= 0 {
		return nil, fmt.Errorf("%w: requested servings %d", ErrInvalidServings, newServings)
	}

	out := make([]ingredient.Ingredient, len(ings))
	for i, ing := range ings {
		c := ing.Clone()
		if c.Count != nil {
			*c.Count = *c.Count * float64(newServings) / float64(oldServings)
		}
		out[i] = c
	}
	return out, nil
}
