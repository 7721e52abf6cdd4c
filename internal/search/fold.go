package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// fold normalizes s for matching.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// normalizeQuery trims and folds a user query. An empty result matches
// everything.
func normalizeQuery(q string) string {
	return fold(strings.TrimSpace(q))
}

func matches(text, foldedQuery string) bool {
	return foldedQuery == "" || strings.Contains(fold(text), foldedQuery)
}

// foldedText is a folded string that remembers which rune of the
// NFC-normalized original produced each byte.
type foldedText struct {
	runes  []rune
	folded string
	runeAt []int
}

func foldWithIndex(text string) foldedText {
	runes := []rune(norm.NFC.String(text))
	caser := cases.Fold()

	var b strings.Builder
	runeAt := make([]int, 0, len(text))
	for i, r := range runes {
		f := caser.String(string(r))
		b.WriteString(f)
		for range len(f) {
			runeAt = append(runeAt, i)
		}
	}
	return foldedText{runes: runes, folded: b.String(), runeAt: runeAt}
}

// find returns the rune span [start, end) of the first match of a folded
// query, or ok=false.
func (f foldedText) find(foldedQuery string) (start, end int, ok bool) {
	pos := strings.Index(f.folded, foldedQuery)
	if pos < 0 || foldedQuery == "" {
		return 0, 0, false
	}
	return f.runeAt[pos], f.runeAt[pos+len(foldedQuery)-1] + 1, true
}
