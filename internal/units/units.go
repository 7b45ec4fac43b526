// Package units maps unit words found in ingredient lines to canonical units.
package units

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrDuplicateSynonym = errors.New("synonym already mapped to another unit")
	ErrInvalidEntry     = errors.New("invalid unit entry")
)

// Entry maps Synonyms to the Canonical unit. Factor converts a count
// expressed in any of the synonyms into the canonical unit; the canonical
// word itself always has a factor of 1. Several entries may share a
// canonical unit, which is how cross-unit conversions are declared.
type Entry struct {
	Canonical string   `yaml:"canonical"`
	Synonyms  []string `yaml:"synonyms"`
	Factor    float64  `yaml:"factor"`
}

// Match is the result of looking up a unit word.
type Match struct {
	Canonical string
	Factor    float64
}

// Table is an immutable word -> canonical unit index.
type Table struct {
	entries []Entry
	index   map[string]Match
}

var defaultEntries = []Entry{
	{Canonical: "teaspoon", Synonyms: []string{"teaspoons", "tsp", "tsps", "tsp."}},
	{Canonical: "tablespoon", Synonyms: []string{"tablespoons", "tbsp", "tbsps", "tbs", "tbsp."}},
	{Canonical: "cup", Synonyms: []string{"cups"}},
	{Canonical: "ounce", Synonyms: []string{"ounces", "oz", "oz."}},
	{Canonical: "pound", Synonyms: []string{"pounds", "lb", "lbs", "lb."}},
	{Canonical: "gram", Synonyms: []string{"grams", "g", "gr"}},
	{Canonical: "kilogram", Synonyms: []string{"kilograms", "kg", "kgs"}},
	{Canonical: "milliliter", Synonyms: []string{"milliliters", "millilitre", "millilitres", "ml"}},
	{Canonical: "liter", Synonyms: []string{"liters", "litre", "litres", "l"}},
	{Canonical: "pinch", Synonyms: []string{"pinches"}},
	{Canonical: "clove", Synonyms: []string{"cloves"}},
}

var defaultTable = mustNew(defaultEntries)

// Default returns the built-in vocabulary.
func Default() *Table {
	return defaultTable
}

func mustNew(entries []Entry) *Table {
	t, err := New(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// New builds a table. A zero Factor is treated as 1.
func New(entries []Entry) (*Table, error) {
	t := &Table{index: make(map[string]Match)}
	for _, e := range entries {
		if err := t.add(e); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(e Entry) error {
	canonical := key(e.Canonical)
	if canonical == "" {
		return fmt.Errorf("%w: empty canonical name", ErrInvalidEntry)
	}
	if e.Factor == 0 {
		e.Factor = 1
	}
	if e.Factor < 0 {
		return fmt.Errorf("%w: factor for %q must be positive", ErrInvalidEntry, canonical)
	}

	if err := t.bind(canonical, Match{Canonical: canonical, Factor: 1}); err != nil {
		return err
	}

	synonyms := make([]string, 0, len(e.Synonyms))
	for _, w := range e.Synonyms {
		k := key(w)
		if k == "" || k == canonical {
			continue
		}
		if err := t.bind(k, Match{Canonical: canonical, Factor: e.Factor}); err != nil {
			return err
		}
		synonyms = append(synonyms, k)
	}

	t.entries = append(t.entries, Entry{Canonical: canonical, Synonyms: synonyms, Factor: e.Factor})
	return nil
}

func (t *Table) bind(word string, m Match) error {
	if prev, ok := t.index[word]; ok {
		if prev == m {
			return nil
		}
		return fmt.Errorf("%w: %q is already a synonym of %q", ErrDuplicateSynonym, word, prev.Canonical)
	}
	t.index[word] = m
	return nil
}

// Extend returns a new table holding t's entries followed by extra.
// A word may not be re-mapped to a different canonical unit.
func (t *Table) Extend(extra []Entry) (*Table, error) {
	merged := make([]Entry, 0, len(t.entries)+len(extra))
	merged = append(merged, t.entries...)
	merged = append(merged, extra...)
	return New(merged)
}

type fileFormat struct {
	Units []Entry `yaml:"units"`
}

// LoadFile extends the default table with the entries of a YAML file:
//
//	units:
//	  - canonical: tablespoon
//	    synonyms: [stick, sticks]
//	    factor: 8
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read units file %s: %w", path, err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse units file %s: %w", path, err)
	}
	return Default().Extend(f.Units)
}

// Lookup finds a unit word, ignoring case and surrounding space.
func (t *Table) Lookup(word string) (Match, bool) {
	m, ok := t.index[key(word)]
	return m, ok
}

// Normalize maps a unit to its canonical form and conversion factor.
// Unknown units are lowercased and trimmed and keep a factor of 1.
func (t *Table) Normalize(unit string) (string, float64) {
	if m, ok := t.Lookup(unit); ok {
		return m.Canonical, m.Factor
	}
	return key(unit), 1
}

// Entries returns a copy of the table's entries in definition order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		e.Synonyms = append([]string(nil), e.Synonyms...)
		out[i] = e
	}
	return out
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
