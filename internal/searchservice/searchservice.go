// Package searchservice orchestrates a service query end to end
// (spec.md 4.H): corpus snapshot, tag filter, text score via the
// field-collection index, noise pruning, ordering, and pagination. It
// mirrors the shape of the teacher's search.Engine — a façade that owns
// the live index and rebuilds it from an external source — generalized
// from a single inverted index over storage nodes to a field collection
// over corpus-provided package documents.
package searchservice

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/anthropics/pkgsearch/internal/analyzer"
	"github.com/anthropics/pkgsearch/internal/fieldindex"
	"github.com/anthropics/pkgsearch/internal/queryparser"
	"github.com/anthropics/pkgsearch/internal/tagpredicate"
	"github.com/anthropics/pkgsearch/pkg/types"
)

// CorpusProvider is the service's only I/O surface (spec.md 9: "the
// analyzer and the corpus provider are the only polymorphism points").
// Snapshot returns the full current document set; it is the only
// operation that may fail or suspend.
type CorpusProvider interface {
	Snapshot(ctx context.Context) (types.CorpusSnapshot, error)
}

// Service holds exactly one field-collection index plus the corpus
// snapshot it was built from, swapped atomically on Rebuild. Per
// spec.md 9, callers hold the Service as an explicit handle rather than
// reaching it through ambient state; tests construct a fresh one.
type Service struct {
	mu sync.RWMutex

	analyzer      analyzer.Analyzer
	fields        []types.FieldName
	fieldWeights  map[types.FieldName]float64
	pruneFraction float64

	index *fieldindex.Index
	docs  types.CorpusSnapshot
}

// New constructs a Service with no documents indexed yet; call Rebuild
// before the first Search.
func New(a analyzer.Analyzer, fields []types.FieldName, fieldWeights map[types.FieldName]float64, pruneFraction float64) *Service {
	return &Service{
		analyzer:      a,
		fields:        fields,
		fieldWeights:  fieldWeights,
		pruneFraction: pruneFraction,
	}
}

// Rebuild asks the corpus provider for the current document set and
// builds a fresh field-collection index from it, then swaps it in
// atomically. A prior index (if any) stays live for concurrent readers
// until the swap.
func (s *Service) Rebuild(ctx context.Context, provider CorpusProvider) error {
	snapshot, err := provider.Snapshot(ctx)
	if err != nil {
		return types.WrapError("searchservice.Rebuild", types.ErrCorpusUnavailable, err)
	}

	fresh := fieldindex.New(s.analyzer, s.fields, s.fieldWeights)
	for docID, doc := range snapshot {
		fresh.Add(docID, doc.Fields)
	}

	s.mu.Lock()
	s.index = fresh
	s.docs = snapshot
	s.mu.Unlock()

	return nil
}

// Search runs the step sequence from spec.md 4.H: filter by tag
// predicate, score by text (skipped entirely for non-relevance orderings
// per spec.md 9's open question), prune, sort, and paginate.
func (s *Service) Search(ctx context.Context, q types.ServiceQuery) (types.SearchResponse, error) {
	if q.Offset < 0 {
		return types.SearchResponse{}, types.Errorf("searchservice.Search", types.ErrInvalidArg, "offset must be >= 0, got %d", q.Offset)
	}
	if q.Limit < 1 {
		return types.SearchResponse{}, types.Errorf("searchservice.Search", types.ErrInvalidLimit, "limit must be >= 1, got %d", q.Limit)
	}

	s.mu.RLock()
	index := s.index
	docs := s.docs
	s.mu.RUnlock()

	if index == nil {
		return types.SearchResponse{}, types.WrapError("searchservice.Search", types.ErrCorpusUnavailable, errors.New("index not yet built"))
	}

	// Required tags travel in q as tag literals (spec.md 4.G); Tags
	// itself is negation-only. Union both in case a caller also passes
	// an unprefixed entry in Tags directly.
	parsedQ := queryparser.Parse(q.Q)
	wireTags := tagpredicate.FromWireTags(q.Tags)
	required := append(append([]string(nil), parsedQ.RequiredTags...), wireTags.RequiredTags()...)
	pred := tagpredicate.New(required, wireTags.ForbiddenTags())

	candidates := make(map[types.DocID]struct{})
	for docID, doc := range docs {
		if pred.Matches(doc.Tags) {
			candidates[docID] = struct{}{}
		}
	}
	if len(candidates) == 0 {
		return types.SearchResponse{TotalHits: 0, DocIDs: []types.DocID{}}, nil
	}

	ordering := types.ParseOrdering(q.Sort)

	var ordered []types.DocID
	if ordering == types.OrderRelevance {
		ordered = s.rankByRelevance(index, q.Q, candidates)
	} else {
		ordered = s.rankByField(docs, candidates, ordering)
	}

	total := len(ordered)
	page := paginate(ordered, q.Offset, q.Limit)

	return types.SearchResponse{TotalHits: total, DocIDs: page}, nil
}

// rankByRelevance scores candidates by text match and returns them
// ordered by descending score, ties broken by doc-id ascending, after
// pruning low-value noise.
func (s *Service) rankByRelevance(index *fieldindex.Index, rawQ string, candidates map[types.DocID]struct{}) []types.DocID {
	parsed := queryparser.Parse(rawQ)
	words := s.analyzer.SplitForIndexing(parsed.Text)

	scores := index.Search(words, candidates)
	scores = scores.RemoveLowValues(s.pruneFraction, 0)

	entries := scores.Top(len(scores), 0)
	out := make([]types.DocID, len(entries))
	for i, e := range entries {
		out[i] = e.DocID
	}
	return out
}

// rankByField sorts every candidate by the corpus-provided ordering
// field, descending, ties broken by doc-id ascending. Per spec.md 9,
// this path never consults the text score — an alternate ordering
// surfaces every tag-matching document regardless of query text.
func (s *Service) rankByField(docs types.CorpusSnapshot, candidates map[types.DocID]struct{}, ordering types.Ordering) []types.DocID {
	key := ordering.String()

	out := make([]types.DocID, 0, len(candidates))
	for docID := range candidates {
		out = append(out, docID)
	}

	value := func(docID types.DocID) float64 {
		return docs[docID].OrderingFields[key]
	}

	sort.Slice(out, func(i, j int) bool {
		vi, vj := value(out[i]), value(out[j])
		if vi != vj {
			return vi > vj
		}
		return out[i] < out[j]
	})
	return out
}

// Stats reports the live index's per-field token and document counts,
// and the number of documents in the last corpus snapshot. Ready is
// false until Rebuild has run at least once.
type Stats struct {
	Ready         bool
	DocumentCount int
	Fields        []fieldindex.FieldStats
}

func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return Stats{}
	}
	return Stats{
		Ready:         true,
		DocumentCount: len(s.docs),
		Fields:        s.index.Stats(),
	}
}

// paginate slices ids by (offset, limit), clamping to the slice bounds.
func paginate(ids []types.DocID, offset, limit int) []types.DocID {
	if offset > len(ids) {
		offset = len(ids)
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return append([]types.DocID(nil), ids[offset:end]...)
}
