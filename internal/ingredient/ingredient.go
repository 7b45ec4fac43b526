// Package ingredient turns free-form ingredient lines such as
// "1 1/2 cups chopped onions (about 2)" into a count, a canonical unit and a name.
package ingredient

import (
	"math"
	"strconv"
	"strings"

	"recipe-shopper/internal/quantity"
	"recipe-shopper/internal/units"
)

// Ingredient is the structured form of one ingredient line. Count is nil
// when the line has no leading numeral; Unit is "" for unitless lines.
type Ingredient struct {
	Count *float64 `json:"count"`
	Unit  string   `json:"unit"`
	Name  string   `json:"name"`
}

// HasCount reports whether an explicit count was found.
func (i Ingredient) HasCount() bool {
	return i.Count != nil
}

// Clone returns a copy that shares no memory with i.
func (i Ingredient) Clone() Ingredient {
	if i.Count != nil {
		c := *i.Count
		i.Count = &c
	}
	return i
}

// String renders the ingredient for display, e.g. "1.5 cup onions".
func (i Ingredient) String() string {
	parts := make([]string, 0, 3)
	if i.Count != nil {
		parts = append(parts, FormatCount(*i.Count))
	}
	if i.Unit != "" {
		parts = append(parts, i.Unit)
	}
	parts = append(parts, i.Name)
	return strings.Join(parts, " ")
}

// FormatCount prints a count with at most two decimals and no trailing zeros.
func FormatCount(c float64) string {
	r := math.Round(c*100) / 100
	if math.IsInf(r, 0) {
		r = c
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Parser parses lines against a unit table.
type Parser struct {
	units *units.Table
}

// NewParser returns a Parser using table, or the default table when nil.
func NewParser(table *units.Table) *Parser {
	if table == nil {
		table = units.Default()
	}
	return &Parser{units: table}
}

var defaultParser = NewParser(nil)

// Parse parses line with the default unit table.
func Parse(line string) Ingredient {
	return defaultParser.Parse(line)
}

// ParseAll parses every line with the default unit table.
func ParseAll(lines []string) []Ingredient {
	return defaultParser.ParseAll(lines)
}

// ParseAll parses every line, preserving order.
func (p *Parser) ParseAll(lines []string) []Ingredient {
	out := make([]Ingredient, 0, len(lines))
	for _, l := range lines {
		out = append(out, p.Parse(l))
	}
	return out
}

// Parse never fails: text it cannot interpret ends up in Name.
// A quantity or unit is only taken when at least one word is left for the name.
func (p *Parser) Parse(line string) Ingredient {
	trimmed := strings.TrimSpace(line)
	tokens := strings.Fields(stripAsides(trimmed))
	if len(tokens) == 0 {
		return Ingredient{Name: trimmed}
	}

	var ing Ingredient
	if count, used := leadingQuantity(tokens); used > 0 && used < len(tokens) {
		ing.Count = &count
		tokens = tokens[used:]
	}

	if len(tokens) > 1 {
		if m, ok := p.units.Lookup(tokens[0]); ok {
			ing.Unit = m.Canonical
			if ing.Count != nil {
				scaled := *ing.Count * m.Factor
				ing.Count = &scaled
			}
			tokens = tokens[1:]
		}
	}

	ing.Name = strings.Join(tokens, " ")
	return ing
}

// leadingQuantity returns the value of the leading quantity and how many
// tokens it spans. A malformed quantity counts as no quantity at all.
func leadingQuantity(tokens []string) (float64, int) {
	if len(tokens) >= 2 {
		v, ok, err := quantity.ParseMixed(tokens[0], tokens[1])
		if err != nil {
			return 0, 0
		}
		if ok {
			return v, 2
		}
	}
	v, ok, err := quantity.Parse(tokens[0])
	if err != nil || !ok {
		return 0, 0
	}
	return v, 1
}

// stripAsides removes parenthesised text, including nested groups. An
// unclosed "(" drops the rest of the line; a stray ")" is dropped.
func stripAsides(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
			b.WriteByte(' ')
		case r == ')':
			if depth > 0 {
				depth--
			}
			b.WriteByte(' ')
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
