// Package quantity reads the numeric part of an ingredient line: integers,
// decimals, simple fractions and mixed numbers.
package quantity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("malformed quantity")

// ParseError reports a token that looks numeric but has no finite value,
// such as a fraction with a zero denominator.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed quantity %q: %s", e.Token, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

var (
	integerRe  = regexp.MustCompile(`^\d+$`)
	decimalRe  = regexp.MustCompile(`^\d*\.\d+$`)
	fractionRe = regexp.MustCompile(`^(\d+)/(\d+)$`)
	hyphenRe   = regexp.MustCompile(`^(\d+)-(\d+/\d+)$`)
)

// Parse returns the value of a single token. ok is false when the token is
// not numeric at all; err is non-nil only for numeric-looking tokens with no
// finite value.
func Parse(token string) (value float64, ok bool, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false, nil
	}

	if whole, frac, found := splitVulgar(token); found {
		if whole == "" {
			return parseFraction(frac)
		}
		return ParseMixed(whole, frac)
	}

	switch {
	case integerRe.MatchString(token), decimalRe.MatchString(token):
		return parseFinite(token)
	case fractionRe.MatchString(token):
		return parseFraction(token)
	case hyphenRe.MatchString(token):
		m := hyphenRe.FindStringSubmatch(token)
		return ParseMixed(m[1], m[2])
	}
	return 0, false, nil
}

// ParseMixed reads a mixed number written as two tokens, an integer and a
// fraction ("1", "1/2" -> 1.5).
func ParseMixed(whole, frac string) (float64, bool, error) {
	whole = strings.TrimSpace(whole)
	frac = strings.TrimSpace(frac)
	if !integerRe.MatchString(whole) {
		return 0, false, nil
	}
	if w, f, found := splitVulgar(frac); found && w == "" {
		frac = f
	}
	if !fractionRe.MatchString(frac) {
		return 0, false, nil
	}

	w, ok, err := parseFinite(whole)
	if !ok || err != nil {
		return 0, ok, err
	}
	f, ok, err := parseFraction(frac)
	if !ok || err != nil {
		return 0, ok, err
	}
	return w + f, true, nil
}

func parseFinite(token string) (float64, bool, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false, &ParseError{Token: token, Reason: "out of range"}
	}
	return v, true, nil
}

func parseFraction(token string) (float64, bool, error) {
	m := fractionRe.FindStringSubmatch(token)
	if m == nil {
		return 0, false, nil
	}
	num, ok, err := parseFinite(m[1])
	if !ok || err != nil {
		return 0, ok, err
	}
	den, ok, err := parseFinite(m[2])
	if !ok || err != nil {
		return 0, ok, err
	}
	if den == 0 {
		return 0, false, &ParseError{Token: token, Reason: "zero denominator"}
	}
	return num / den, true, nil
}

// splitVulgar splits a token ending in a single Unicode vulgar fraction
// ("1½") into its whole part and an ASCII fraction ("1", "1/2").
func splitVulgar(token string) (whole, frac string, found bool) {
	r, size := utf8.DecodeLastRuneInString(token)
	if r == utf8.RuneError || size == 1 {
		return "", "", false
	}
	decomposed := norm.NFKC.String(string(r))
	if !strings.ContainsRune(decomposed, '⁄') {
		return "", "", false
	}
	return token[:len(token)-size], strings.ReplaceAll(decomposed, "⁄", "/"), true
}
