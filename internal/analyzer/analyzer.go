// Package analyzer normalizes and tokenizes field text into weighted
// tokens (spec.md 4.A). It is one of the module's two polymorphism points
// (the other being the corpus provider): callers depend on the small
// Analyzer capability, not a concrete implementation, so tests can swap in
// a fake the way the teacher repo swaps embedding engines.
package analyzer

import (
	"strings"
	"unicode"
)

// TokenWeights maps a normalized token to its weight in (0, 1].
type TokenWeights map[string]float64

// Analyzer turns raw field text into the tokens the index works with.
type Analyzer interface {
	// Tokenize normalizes text into a token-weight map. When split is
	// false, short words (< 4 runes) contribute only their full-word
	// token; long words always contribute prefixes and segments too.
	// When split is true, every word does, regardless of length — this
	// is what query-side lookups use so short query words still expand.
	Tokenize(text string, split bool) TokenWeights

	// SplitForIndexing returns the ordered list of normalized words used
	// as query terms (one entry per alphanumeric run: any non-alphanumeric
	// character separates words).
	SplitForIndexing(text string) []string
}

// Default is the analyzer used throughout the search core.
type Default struct{}

// NewDefault constructs the default analyzer.
func NewDefault() Default { return Default{} }

// Tokenize implements Analyzer.
func (Default) Tokenize(text string, split bool) TokenWeights {
	words := splitWords(text)
	out := make(TokenWeights)
	for _, w := range words {
		tokenizeWord(out, w, split)
	}
	return out
}

// SplitForIndexing implements Analyzer.
func (Default) SplitForIndexing(text string) []string {
	words := splitWords(text)
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

// splitWords replaces every run of non-alphanumeric characters with a
// single separator and splits on whitespace, preserving case: case is
// significant input to tokenizeWord's camelCase-boundary detection, so
// it must not be lowercased until each token is individually emitted.
func splitWords(text string) []string {
	if text == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Fields(b.String())
}

// tokenizeWord emits the full word plus, when warranted, its weighted
// prefixes and case/digit-boundary segments into out. w keeps its
// original case so splitBoundaries can detect camelCase transitions;
// every emitted token is lowercased at the point of emission.
func tokenizeWord(out TokenWeights, w string, split bool) {
	runes := []rune(w)
	L := len(runes)
	if L < 2 {
		return
	}

	emit(out, strings.ToLower(w), 1.0)

	if L < 4 && !split {
		return
	}

	// Proper prefixes of length k, 2 <= k < L.
	for k := 2; k < L; k++ {
		prefix := strings.ToLower(string(runes[:k]))
		emit(out, prefix, float64(k)/float64(L))
	}

	// Segments split at camelCase/digit boundaries.
	for _, seg := range splitBoundaries(runes) {
		if len(seg) < 2 {
			continue
		}
		emit(out, strings.ToLower(string(seg)), float64(len(seg))/float64(L))
	}
}

// splitBoundaries partitions runes at lower->upper case transitions and
// letter<->digit transitions, yielding the ordered list of segments.
func splitBoundaries(runes []rune) [][]rune {
	if len(runes) == 0 {
		return nil
	}

	var segments [][]rune
	start := 0
	for i := 1; i < len(runes); i++ {
		if isBoundary(runes[i-1], runes[i]) {
			segments = append(segments, runes[start:i])
			start = i
		}
	}
	segments = append(segments, runes[start:])

	if len(segments) == 1 {
		return nil // no internal boundaries found, nothing extra to emit
	}
	return segments
}

func isBoundary(prev, cur rune) bool {
	if unicode.IsLower(prev) && unicode.IsUpper(cur) {
		return true
	}
	prevDigit, curDigit := unicode.IsDigit(prev), unicode.IsDigit(cur)
	if prevDigit != curDigit && (unicode.IsLetter(prev) || unicode.IsLetter(cur) || prevDigit || curDigit) {
		return true
	}
	return false
}

// emit upserts token -> max(existing, weight).
func emit(out TokenWeights, token string, weight float64) {
	if existing, ok := out[token]; !ok || weight > existing {
		out[token] = weight
	}
}
