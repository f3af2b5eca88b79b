// Package types defines the core data types shared across the search
// subsystem: documents, queries, orderings, and the wire shapes exchanged
// with the HTTP and MCP surfaces.
package types

// DocID is an opaque document identifier, unique within a corpus.
type DocID string

// FieldName names one field of a field collection (e.g. "name", "readme").
type FieldName string

// Ordering selects how matched documents are sorted.
type Ordering string

const (
	OrderRelevance  Ordering = "" // default: descending score, ties by doc id
	OrderTop        Ordering = "top"
	OrderUpdated    Ordering = "updated"
	OrderCreated    Ordering = "created"
	OrderPopularity Ordering = "popularity"
	OrderLikes      Ordering = "likes"
	OrderPoints     Ordering = "points"
)

// knownOrderings lists the orderings recognized by the "sort" URL parameter.
var knownOrderings = map[string]Ordering{
	"top":        OrderTop,
	"updated":    OrderUpdated,
	"created":    OrderCreated,
	"popularity": OrderPopularity,
	"likes":      OrderLikes,
	"points":     OrderPoints,
}

// ParseOrdering maps a "sort" URL parameter value to an Ordering. Unknown or
// empty values map to OrderRelevance (the default); this never errors,
// per spec.md 4.G.
func ParseOrdering(s string) Ordering {
	if o, ok := knownOrderings[s]; ok {
		return o
	}
	return OrderRelevance
}

// String renders the ordering as the URL "sort" parameter value ("" for
// the default relevance ordering).
func (o Ordering) String() string {
	return string(o)
}

// DefaultForbiddenTags are the "is:*" tags excluded from results unless the
// query explicitly mentions them (as is:X or show:X). Order matters: it is
// the fixed order used when emitting negated tags in a service query
// (spec.md 4.G).
var DefaultForbiddenTags = []string{
	"is:discontinued",
	"is:unlisted",
	"is:legacy",
}

// CorpusDoc is one document as delivered by a corpus provider: per-field
// text, the document's tag set, and any fields usable for non-relevance
// orderings (e.g. "updated" -> unix seconds, "likes" -> count).
type CorpusDoc struct {
	Fields         map[FieldName]string
	Tags           map[string]struct{}
	OrderingFields map[string]float64
}

// CorpusSnapshot is the full document set returned by a corpus provider.
type CorpusSnapshot map[DocID]CorpusDoc

// ServiceQuery is the wire shape the search service consumes (spec.md 4.G
// to_service_query / section 6 "Service wire format").
type ServiceQuery struct {
	Q      string   `json:"q"`
	Tags   []string `json:"tags,omitempty"`
	Offset int      `json:"offset"`
	Limit  int      `json:"limit"`
	Sort   string   `json:"sort,omitempty"`
}

// SearchResponse is the full result of a search: total matching documents
// (before pagination) and the page of ordered doc ids.
type SearchResponse struct {
	TotalHits int     `json:"total_hits"`
	DocIDs    []DocID `json:"doc_ids"`
}

// MaxQueryLen is a length limit for raw query strings. No code path in
// this module checks a query against it.
const MaxQueryLen = 2048

// DefaultPageSize is the number of results per page when unspecified.
const DefaultPageSize = 10
