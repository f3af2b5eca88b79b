package analyzer

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTokenize_ShortWordNoSplit(t *testing.T) {
	tw := NewDefault().Tokenize("go", false)
	if len(tw) != 1 {
		t.Fatalf("len(tw) = %d, want 1: %v", len(tw), tw)
	}
	if w, ok := tw["go"]; !ok || !almostEqual(w, 1.0) {
		t.Errorf(`tw["go"] = %v, ok=%v, want 1.0, true`, w, ok)
	}
}

func TestTokenize_DropsSingleRuneWords(t *testing.T) {
	tw := NewDefault().Tokenize("a b c", false)
	if len(tw) != 0 {
		t.Errorf("len(tw) = %d, want 0: %v", len(tw), tw)
	}
}

func TestTokenize_LongWordEmitsPrefixes(t *testing.T) {
	tw := NewDefault().Tokenize("search", false)

	if w, ok := tw["search"]; !ok || !almostEqual(w, 1.0) {
		t.Errorf(`tw["search"] = %v, ok=%v, want 1.0, true`, w, ok)
	}
	// proper prefixes of length 2..5
	wantPrefixWeight := map[string]float64{
		"se":    2.0 / 6.0,
		"sea":   3.0 / 6.0,
		"sear":  4.0 / 6.0,
		"searc": 5.0 / 6.0,
	}
	for prefix, want := range wantPrefixWeight {
		got, ok := tw[prefix]
		if !ok {
			t.Errorf("missing prefix token %q", prefix)
			continue
		}
		if !almostEqual(got, want) {
			t.Errorf("tw[%q] = %v, want %v", prefix, got, want)
		}
	}
	if _, ok := tw["search"+"x"]; ok {
		t.Errorf("unexpected token beyond word length")
	}
}

func TestTokenize_ShortWordSplitTrue(t *testing.T) {
	tw := NewDefault().Tokenize("cat", true)
	if _, ok := tw["ca"]; !ok {
		t.Errorf("split=true should emit prefixes even for short words: %v", tw)
	}
}

func TestTokenize_CamelCaseBoundary(t *testing.T) {
	tw := NewDefault().Tokenize("camelCase", false)

	if _, ok := tw["camelcase"]; !ok {
		t.Fatalf("missing full lowercased word: %v", tw)
	}
	if got, ok := tw["camel"]; !ok || !almostEqual(got, 5.0/9.0) {
		t.Errorf(`tw["camel"] = %v, ok=%v, want %v, true`, got, ok, 5.0/9.0)
	}
	if got, ok := tw["case"]; !ok || !almostEqual(got, 4.0/9.0) {
		t.Errorf(`tw["case"] = %v, ok=%v, want %v, true`, got, ok, 4.0/9.0)
	}
}

func TestTokenize_DigitBoundary(t *testing.T) {
	tw := NewDefault().Tokenize("go1dot21", false)

	// "go1dot21" splits at letter/digit boundaries into "go", "1", "dot",
	// "21" (the lone "1" segment is dropped, length < 2).
	for _, want := range []string{"go", "dot", "21"} {
		if _, ok := tw[want]; !ok {
			t.Errorf("missing segment %q in %v", want, tw)
		}
	}
}

func TestTokenize_DuplicateTokensKeepMax(t *testing.T) {
	// "aa" appears both as a full short word and as a prefix of "aardvark".
	tw := NewDefault().Tokenize("aa aardvark", false)
	if got := tw["aa"]; !almostEqual(got, 1.0) {
		t.Errorf(`tw["aa"] = %v, want 1.0 (max of 1.0 full-word and prefix weight)`, got)
	}
}

func TestTokenize_NonAlphanumericSeparates(t *testing.T) {
	tw := NewDefault().Tokenize("foo-bar_baz!!qux", false)
	for _, want := range []string{"foo", "bar", "baz", "qux"} {
		if _, ok := tw[want]; !ok {
			t.Errorf("missing word %q in %v", want, tw)
		}
	}
}

func TestSplitForIndexing(t *testing.T) {
	got := NewDefault().SplitForIndexing("Hello, World! HTTPServer2")
	want := []string{"hello", "world", "httpserver2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitForIndexing_Empty(t *testing.T) {
	if got := NewDefault().SplitForIndexing(""); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

var _ Analyzer = Default{}
