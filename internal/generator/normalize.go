package generator

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a category name for bank lookup: trimmed, lowercase, diacritics removed.
// "Géographie", " GEOGRAPHIE " and "geographie" all normalize to "geographie".
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	// transformers keep state, so each call builds its own chain
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return folded
}
