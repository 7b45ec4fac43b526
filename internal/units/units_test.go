package units

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	tests := []struct {
		word      string
		canonical string
	}{
		{"tsp", "teaspoon"},
		{"Teaspoons", "teaspoon"},
		{"TBSP", "tablespoon"},
		{"tbsp.", "tablespoon"},
		{"cups", "cup"},
		{"oz", "ounce"},
		{"lbs", "pound"},
		{"g", "gram"},
		{"kg", "kilogram"},
		{"mL", "milliliter"},
		{"litres", "liter"},
		{"pinches", "pinch"},
		{"Clove", "clove"},
		{"  cup ", "cup"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			e, ok := Default().Lookup(tt.word)
			require.True(t, ok)
			assert.Equal(t, tt.canonical, e.Canonical)
			assert.Equal(t, 1.0, e.Factor)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, word := range []string{"", "handful", "onion", "cupful"} {
		_, ok := Default().Lookup(word)
		assert.False(t, ok, "expected %q to be unknown", word)
	}
}

func TestNormalize(t *testing.T) {
	unit, factor := Default().Normalize("Cups")
	assert.Equal(t, "cup", unit)
	assert.Equal(t, 1.0, factor)

	unit, factor = Default().Normalize(" Handful ")
	assert.Equal(t, "handful", unit)
	assert.Equal(t, 1.0, factor)

	unit, factor = Default().Normalize("")
	assert.Equal(t, "", unit)
	assert.Equal(t, 1.0, factor)
}

func TestNew(t *testing.T) {
	t.Run("DuplicateSynonym", func(t *testing.T) {
		_, err := New([]Entry{
			{Canonical: "cup", Synonyms: []string{"c"}},
			{Canonical: "clove", Synonyms: []string{"C"}},
		})
		require.ErrorIs(t, err, ErrDuplicateSynonym)
	})

	t.Run("EmptyCanonical", func(t *testing.T) {
		_, err := New([]Entry{{Canonical: "  "}})
		require.ErrorIs(t, err, ErrInvalidEntry)
	})

	t.Run("NegativeFactor", func(t *testing.T) {
		_, err := New([]Entry{{Canonical: "cup", Synonyms: []string{"mug"}, Factor: -2}})
		require.ErrorIs(t, err, ErrInvalidEntry)
	})

	t.Run("CanonicalRepeatedAsSynonym", func(t *testing.T) {
		table, err := New([]Entry{{Canonical: "cup", Synonyms: []string{"cup", "CUP", "cups"}}})
		require.NoError(t, err)
		entries := table.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, []string{"cups"}, entries[0].Synonyms)
	})
}

func TestExtend(t *testing.T) {
	table, err := Default().Extend([]Entry{{Canonical: "tablespoon", Synonyms: []string{"stick", "sticks"}, Factor: 8}})
	require.NoError(t, err)

	m, ok := table.Lookup("Sticks")
	require.True(t, ok)
	assert.Equal(t, "tablespoon", m.Canonical)
	assert.Equal(t, 8.0, m.Factor)

	m, ok = table.Lookup("tbsp")
	require.True(t, ok)
	assert.Equal(t, 1.0, m.Factor, "existing synonyms keep their factor")

	m, ok = table.Lookup("tablespoon")
	require.True(t, ok)
	assert.Equal(t, 1.0, m.Factor, "a canonical unit always converts to itself with factor 1")

	_, ok = Default().Lookup("stick")
	assert.False(t, ok, "extending must not modify the default table")

	_, err = Default().Extend([]Entry{{Canonical: "dash", Synonyms: []string{"tsp"}}})
	require.ErrorIs(t, err, ErrDuplicateSynonym)

	_, err = Default().Extend([]Entry{{Canonical: "cups", Synonyms: []string{"mug"}}})
	require.ErrorIs(t, err, ErrDuplicateSynonym, "a canonical name may not shadow another unit's synonym")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "units.yaml")
	content := `units:
  - canonical: can
    synonyms: [cans, tin, tins]
  - canonical: tablespoon
    synonyms: [stick, sticks]
    factor: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadFile(path)
	require.NoError(t, err)

	e, ok := table.Lookup("tins")
	require.True(t, ok)
	assert.Equal(t, "can", e.Canonical)
	assert.Equal(t, 1.0, e.Factor)

	e, ok = table.Lookup("stick")
	require.True(t, ok)
	assert.Equal(t, "tablespoon", e.Canonical)
	assert.Equal(t, 8.0, e.Factor)

	e, ok = table.Lookup("cups")
	require.True(t, ok)
	assert.Equal(t, "cup", e.Canonical)

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("units: [::"), 0644))
		_, err := LoadFile(bad)
		require.Error(t, err)
	})
}
