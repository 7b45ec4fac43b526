package recipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateCookingTime(t *testing.T) {
	tests := []struct {
		n    int
		want time.Duration
	}{
		{0, 0},
		{1, 15 * time.Minute},
		{3, 15 * time.Minute},
		{4, 30 * time.Minute},
		{9, 45 * time.Minute},
		{10, 60 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateCookingTime(tt.n), "ingredients=%d", tt.n)
	}
}

func TestServings(t *testing.T) {
	r := &Recipe{ID: "r1", Servings: 4, Ingredients: sample()}

	t.Run("Increase", func(t *testing.T) {
		require.NoError(t, r.IncreaseServings())
		assert.Equal(t, 5, r.Servings)
		assert.InDelta(t, 2.5, *r.Ingredients[0].Count, 1e-9)
	})

	t.Run("Set", func(t *testing.T) {
		require.NoError(t, r.SetServings(1))
		assert.Equal(t, 1, r.Servings)
		assert.InDelta(t, 0.5, *r.Ingredients[0].Count, 1e-9)
	})

	t.Run("DecreaseBelowOne", func(t *testing.T) {
		err := r.DecreaseServings()
		require.ErrorIs(t, err, ErrInvalidServings)
		assert.Equal(t, 1, r.Servings, "servings must not change on error")
		assert.InDelta(t, 0.5, *r.Ingredients[0].Count, 1e-9)
	})

	t.Run("Decrease", func(t *testing.T) {
		require.NoError(t, r.SetServings(3))
		require.NoError(t, r.DecreaseServings())
		assert.Equal(t, 2, r.Servings)
		assert.InDelta(t, 1.0, *r.Ingredients[0].Count, 1e-9)
	})
}

func TestLines(t *testing.T) {
	r := &Recipe{Servings: 4, Ingredients: sample()}
	assert.Equal(t, []string{"2 cup flour", "0.5 teaspoon salt", "a pinch of cinnamon", "3 eggs"}, r.Lines())
}
