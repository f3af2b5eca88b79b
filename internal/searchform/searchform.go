// Package searchform implements the bidirectional mapping between URL
// parameters and a parsed search query (spec.md 4.G): the state a
// package-listing page needs to render filter chips and pagination
// links, and to issue a request to the search service.
package searchform

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/anthropics/pkgsearch/internal/queryparser"
	"github.com/anthropics/pkgsearch/internal/tagpredicate"
	"github.com/anthropics/pkgsearch/pkg/types"
)

// BasePath is the fixed path search links are generated under.
const BasePath = "/packages"

// RegularContext is the default UI context (as opposed to a scope
// narrowed to a specific publisher or SDK).
const RegularContext = "regular"

// Form is a search form: a parsed query plus the contextual parameters
// needed to render and paginate it. It is immutable — every mutating
// operation returns a new Form.
type Form struct {
	context     string
	parsed      queryparser.ParsedQuery
	ordering    types.Ordering
	currentPage int
	pageSize    int
}

// New constructs a form directly from a raw query string, parsing it
// internally. currentPage defaults to 1 when < 1.
func New(queryText string, currentPage int) Form {
	if currentPage < 1 {
		currentPage = 1
	}
	return Form{
		context:     RegularContext,
		parsed:      queryparser.Parse(queryText),
		ordering:    types.OrderRelevance,
		currentPage: currentPage,
		pageSize:    types.DefaultPageSize,
	}
}

// ParseFromParams builds a form from a flattened URL parameter map,
// recognizing "q", "page", and "sort" (spec.md 4.G table). Unknown keys
// are ignored; malformed values fall back to defaults rather than
// erroring — URL generation and parsing are total.
func ParseFromParams(context string, params map[string]string) Form {
	if context == "" {
		context = RegularContext
	}

	page := 1
	if raw, ok := params["page"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			page = n
		}
	}

	f := New(params["q"], page)
	f.context = context
	f.ordering = types.ParseOrdering(params["sort"])
	return f
}

// Context returns the form's UI context.
func (f Form) Context() string { return f.context }

// Text returns the parsed free-text portion of the query.
func (f Form) Text() string { return f.parsed.Text }

// Ordering returns the form's result ordering.
func (f Form) Ordering() types.Ordering { return f.ordering }

// CurrentPage returns the form's 1-based current page.
func (f Form) CurrentPage() int { return f.currentPage }

// PageSize returns the form's page size.
func (f Form) PageSize() int { return f.pageSize }

// RequiredTags returns the required tag literals parsed from the query,
// in input order.
func (f Form) RequiredTags() []string {
	return append([]string(nil), f.parsed.RequiredTags...)
}

// ToggleRequiredTag flips tag's required membership and returns the
// resulting form; the receiver is unchanged.
func (f Form) ToggleRequiredTag(tag string) Form {
	pred := tagpredicate.New(f.parsed.RequiredTags, nil).Toggle(tag)
	out := f
	out.parsed = queryparser.ParsedQuery{
		Text:         f.parsed.Text,
		RequiredTags: pred.RequiredTags(),
		Shown:        f.parsed.Shown,
	}
	return out
}

// canonicalQ is the canonical "q" value: required tags (in order),
// then free text, space-joined. Used both for the search link and for
// the service query's q field.
func (f Form) canonicalQ() string {
	parts := append([]string(nil), f.parsed.RequiredTags...)
	if f.parsed.Text != "" {
		parts = append(parts, strings.Fields(f.parsed.Text)...)
	}
	return strings.Join(parts, " ")
}

// ToSearchLink rebuilds the canonical URL for this form. An optional
// page argument overrides the form's current page (spec.md 4.G
// `to_search_link(page?)`); at most one value is honored.
func (f Form) ToSearchLink(page ...int) string {
	p := f.currentPage
	if len(page) > 0 {
		p = page[0]
	}

	var params []string
	if q := f.canonicalQ(); q != "" {
		params = append(params, "q="+encodeQ(q))
	}
	if p != 1 {
		params = append(params, "page="+strconv.Itoa(p))
	}
	if f.ordering != types.OrderRelevance {
		params = append(params, "sort="+f.ordering.String())
	}

	if len(params) == 0 {
		return BasePath
	}
	return BasePath + "?" + strings.Join(params, "&")
}

// encodeQ percent-encodes a q value the way url.QueryEscape does:
// spaces become "+", colons become "%3A", so tag literals round-trip.
func encodeQ(q string) string {
	return url.QueryEscape(q)
}

// ToServiceQuery constructs the wire request this form represents
// (spec.md 4.G `to_service_query`).
func (f Form) ToServiceQuery() types.ServiceQuery {
	forbidden := tagpredicate.ResolveDefaultForbidden(f.parsed.RequiredTags, f.parsed.Shown)
	pred := tagpredicate.New(f.parsed.RequiredTags, forbidden)

	return types.ServiceQuery{
		Q:      f.canonicalQ(),
		Tags:   pred.ToWireTags(),
		Offset: (f.currentPage - 1) * f.pageSize,
		Limit:  f.pageSize,
		Sort:   f.ordering.String(),
	}
}

// ToURIQueryParameters renders a ServiceQuery the way the service's
// wire format does on the query string: strings throughout, with the
// optional sort field only present when non-default.
func ToURIQueryParameters(sq types.ServiceQuery) map[string]any {
	out := map[string]any{
		"q":      sq.Q,
		"tags":   append([]string(nil), sq.Tags...),
		"offset": strconv.Itoa(sq.Offset),
		"limit":  strconv.Itoa(sq.Limit),
	}
	if sq.Sort != "" {
		out["sort"] = sq.Sort
	}
	return out
}
