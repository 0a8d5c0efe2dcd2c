package media

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle lowercases, folds accents and collapses whitespace so that
// titles from filenames and from the library compare consistently.
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = removeAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

// TitlesOverlap reports whether either normalized title contains the other.
// This is deliberately the historical containment rule: it is imprecise and
// can false-positive on short or generic titles. Callers rely on that exact
// behavior; do not tighten or loosen it.
func TitlesOverlap(a, b string) bool {
	na, nb := NormalizeTitle(a), NormalizeTitle(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// Similarity scores two titles with Jaro-Winkler, which favors shared
// prefixes. Used to order containment matches best-first; it never decides
// a match by itself.
func Similarity(a, b string) float64 {
	return float64(edlib.JaroWinklerSimilarity(NormalizeTitle(a), NormalizeTitle(b)))
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
