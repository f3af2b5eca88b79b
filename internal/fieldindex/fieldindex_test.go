package fieldindex

import (
	"testing"

	"github.com/anthropics/pkgsearch/internal/analyzer"
	"github.com/anthropics/pkgsearch/pkg/types"
)

func newTestIndex() *Index {
	names := []types.FieldName{"name", "readme"}
	weights := map[types.FieldName]float64{"name": 1.0, "readme": 0.5}
	return New(analyzer.NewDefault(), names, weights)
}

func TestSearch_BestFieldWins(t *testing.T) {
	idx := newTestIndex()
	// doc "a" matches in its high-weight "name" field; doc "b" only in
	// its low-weight "readme" field with an otherwise identical term.
	idx.Add("a", map[types.FieldName]string{"name": "framework", "readme": "unrelated padding text"})
	idx.Add("b", map[types.FieldName]string{"name": "unrelated padding text", "readme": "framework"})

	restrict := map[types.DocID]struct{}{"a": {}, "b": {}}
	scores := idx.Search([]string{"framework"}, restrict)

	if scores.Get("a") <= scores.Get("b") {
		t.Errorf("doc matching in the higher-weight field should score higher: a=%v b=%v",
			scores.Get("a"), scores.Get("b"))
	}
}

func TestSearch_NoDoubleCounting(t *testing.T) {
	idx := newTestIndex()
	// "framework" appears in both fields for the same doc; score.max
	// should take the better field's contribution, not their sum.
	idx.Add("a", map[types.FieldName]string{"name": "framework", "readme": "framework"})
	idx.Add("b", map[types.FieldName]string{"name": "framework", "readme": "unrelated"})

	restrict := map[types.DocID]struct{}{"a": {}, "b": {}}
	scores := idx.Search([]string{"framework"}, restrict)

	if scores.Get("a") != scores.Get("b") {
		t.Errorf("matching in both fields should not exceed matching in the best field alone: a=%v b=%v",
			scores.Get("a"), scores.Get("b"))
	}
}

func TestRemove(t *testing.T) {
	idx := newTestIndex()
	idx.Add("a", map[types.FieldName]string{"name": "framework"})
	idx.Remove("a")

	scores := idx.Search([]string{"framework"}, map[types.DocID]struct{}{"a": {}})
	if !scores.IsEmpty() {
		t.Errorf("removed doc should not match: %v", scores)
	}
}

func TestFieldNames(t *testing.T) {
	idx := newTestIndex()
	names := idx.FieldNames()
	if len(names) != 2 || names[0] != "name" || names[1] != "readme" {
		t.Errorf("FieldNames() = %v, want [name readme]", names)
	}
}

func TestStats(t *testing.T) {
	idx := newTestIndex()
	idx.Add("a", map[types.FieldName]string{"name": "framework", "readme": "hello world"})
	stats := idx.Stats()
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}
	for _, s := range stats {
		if s.DocumentCount != 1 {
			t.Errorf("field %q DocumentCount = %d, want 1", s.Name, s.DocumentCount)
		}
	}
}
