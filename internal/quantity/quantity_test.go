package quantity

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		token string
		want  float64
	}{
		{"2", 2},
		{"0", 0},
		{"1.5", 1.5},
		{".5", 0.5},
		{"1/2", 0.5},
		{"3/4", 0.75},
		{"10/4", 2.5},
		{"1-1/2", 1.5},
		{"½", 0.5},
		{"1½", 1.5},
		{"¾", 0.75},
		{" 4 ", 4},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok, err := Parse(tt.token)
			require.NoError(t, err)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseNotNumeric(t *testing.T) {
	for _, token := range []string{"", "a", "cup", "one", "-2", "1/", "/2", "1.2.3", "2x", "1e5", "NaN", "Inf", "1 1/2", "a½"} {
		t.Run(token, func(t *testing.T) {
			got, ok, err := Parse(token)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Zero(t, got)
		})
	}
}

func TestParseZeroDenominator(t *testing.T) {
	for _, token := range []string{"1/0", "0/0", "2-1/0"} {
		t.Run(token, func(t *testing.T) {
			got, ok, err := Parse(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			assert.False(t, ok)
			assert.False(t, math.IsInf(got, 0) || math.IsNaN(got))

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Error(), "zero denominator")
		})
	}
}

func TestParseOutOfRange(t *testing.T) {
	huge := "1"
	for i := 0; i < 400; i++ {
		huge += "0"
	}
	_, ok, err := Parse(huge)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseMixed(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		got, ok, err := ParseMixed("1", "1/2")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 1.5, got)

		got, ok, err = ParseMixed("2", "¼")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2.25, got)
	})

	t.Run("NotMixed", func(t *testing.T) {
		pairs := [][2]string{{"1", "2"}, {"1.5", "1/2"}, {"1/2", "1/2"}, {"a", "1/2"}, {"1", "cup"}}
		for _, p := range pairs {
			_, ok, err := ParseMixed(p[0], p[1])
			require.NoError(t, err)
			assert.False(t, ok, "expected %v not to be a mixed number", p)
		}
	})

	t.Run("ZeroDenominator", func(t *testing.T) {
		_, ok, err := ParseMixed("1", "1/0")
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestParseRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := []float64{0, 1, 0.25, 2.5, 1000, 0.1, 123.456}
	for i := 0; i < 200; i++ {
		values = append(values, rng.Float64()*1000)
		values = append(values, float64(rng.Intn(10000)))
	}

	for _, v := range values {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		got, ok, err := Parse(s)
		require.NoError(t, err, s)
		require.True(t, ok, s)
		assert.Equal(t, v, got, s)
	}
}
