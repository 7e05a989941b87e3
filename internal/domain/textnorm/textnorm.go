// Package textnorm folds free-form user text into a comparable form.
// All functions are pure and total: empty input yields empty output.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separators split delimiter-separated text into tokens. Whitespace is not a
// separator: "power bi" stays one token.
var separators = map[rune]struct{}{
	',': {}, ';': {}, '/': {}, '\\': {}, '|': {},
	'\n': {}, '\r': {}, '\t': {},
	'•': {}, '·': {}, '▪': {}, '◦': {}, '‣': {}, '●': {}, '∙': {},
	// Markdown and en-dash list markers. The ASCII hyphen stays inside
	// tokens ("front-end") and is trimmed at edges by TrimPunct.
	'*': {}, '–': {},
}

// Normalize lower-cases s, strips combining diacritical marks, collapses
// whitespace runs and trims. Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	// Transformers carry state, so the chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(folded), " ")
}

// Tokenize splits s on the separator set and normalizes every piece.
// Empty pieces are dropped; order and duplicates are preserved.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, isSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := Normalize(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// NormalizeAll normalizes every element and drops the empty ones.
func NormalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// edgePunct is trimmed from token edges. '+' and '#' are kept so "c++" and
// "c#" survive.
const edgePunct = ".,:;!?()[]{}<>\"'`´“”‘’«»-_ "

// TrimPunct strips leading and trailing punctuation from s.
func TrimPunct(s string) string {
	return strings.Trim(s, edgePunct)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func isSeparator(r rune) bool {
	_, ok := separators[r]
	return ok
}
