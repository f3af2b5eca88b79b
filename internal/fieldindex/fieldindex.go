// Package fieldindex composes several named token indexes, each with its
// own weight, into a single per-document search surface (spec.md 4.D).
// The shape echoes the teacher's Engine, which layers a vector index and
// an inverted index behind one façade; here every layer is a
// tokenindex.Index and the combination rule is Score.max rather than a
// blended sum, so a document scores as well as its single best field.
package fieldindex

import (
	"sort"

	"github.com/anthropics/pkgsearch/internal/analyzer"
	"github.com/anthropics/pkgsearch/internal/scoremap"
	"github.com/anthropics/pkgsearch/internal/tokenindex"
	"github.com/anthropics/pkgsearch/pkg/types"
)

// field bundles one named token index with its weight.
type field struct {
	name   types.FieldName
	weight float64
	index  *tokenindex.Index
}

// Index is an ordered collection of named, weighted fields. Field names
// are unique; weights are independent of each other and need not sum to
// any particular value.
type Index struct {
	fields   []*field
	byName   map[types.FieldName]*field
	analyzer analyzer.Analyzer
}

// New constructs a field-collection index. weights maps field name to
// its multiplicative weight in the combined score; fields not present in
// weights default to 1.0. The order of names is the order FieldNames
// reports; Stats sorts its entries by field name instead.
func New(a analyzer.Analyzer, names []types.FieldName, weights map[types.FieldName]float64) *Index {
	idx := &Index{
		byName:   make(map[types.FieldName]*field, len(names)),
		analyzer: a,
	}
	for _, name := range names {
		w, ok := weights[name]
		if !ok {
			w = 1.0
		}
		f := &field{name: name, weight: w, index: tokenindex.New(a)}
		idx.fields = append(idx.fields, f)
		idx.byName[name] = f
	}
	return idx
}

// Add indexes doc-id's per-field text. Fields absent from texts are
// treated as empty for that document (clearing any prior entry there).
func (idx *Index) Add(docID types.DocID, texts map[types.FieldName]string) {
	for _, f := range idx.fields {
		f.index.Add(docID, texts[f.name])
	}
}

// Remove purges docID from every field's index.
func (idx *Index) Remove(docID types.DocID) {
	for _, f := range idx.fields {
		f.index.Remove(docID)
	}
}

// Search scores restrictTo against words, combining each field's
// weighted contribution with Score.max: a document scores as well as its
// best-matching field, never double-counted across fields.
func (idx *Index) Search(words []string, restrictTo map[types.DocID]struct{}) scoremap.Score {
	perField := make([]scoremap.Score, 0, len(idx.fields))
	for _, f := range idx.fields {
		perField = append(perField, f.index.SearchWords(words, f.weight, restrictTo))
	}
	return scoremap.Max(perField...)
}

// FieldNames returns the configured field names in their fixed order.
func (idx *Index) FieldNames() []types.FieldName {
	out := make([]types.FieldName, len(idx.fields))
	for i, f := range idx.fields {
		out[i] = f.name
	}
	return out
}

// Stats reports per-field token and document counts, for operational
// visibility (search-inspect, /health).
type FieldStats struct {
	Name          types.FieldName
	TokenCount    int
	DocumentCount int
}

func (idx *Index) Stats() []FieldStats {
	out := make([]FieldStats, 0, len(idx.fields))
	for _, f := range idx.fields {
		out = append(out, FieldStats{
			Name:          f.name,
			TokenCount:    f.index.TokenCount(),
			DocumentCount: f.index.DocumentCount(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
