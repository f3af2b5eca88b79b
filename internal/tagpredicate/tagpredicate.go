// Package tagpredicate implements the conjunctive tag filter over a
// document's tag set (spec.md 4.E): a document matches iff it carries
// every required tag and none of the forbidden ones. Default-forbidden
// handling (is:discontinued, is:unlisted, is:legacy) is resolved by
// ResolveDefaultForbidden at query-construction time — the predicate
// itself stays a plain, order-preserving pair of tag sets.
package tagpredicate

import (
	"strings"

	"github.com/anthropics/pkgsearch/pkg/types"
)

// ShowAllSentinel is the key callers store in a "shown" set to indicate
// the query carried the literal show:hidden, which suppresses every
// default-forbidden tag at once rather than just one.
const ShowAllSentinel = "show:hidden"

// Predicate is an immutable (required, forbidden) pair of tag literals.
// Order is preserved (and de-duplicated) because required-tag order
// feeds directly into URL and wire serialization.
type Predicate struct {
	required  []string
	forbidden []string
}

// New constructs a predicate from required and forbidden tag literals,
// de-duplicating while preserving first-seen order.
func New(required, forbidden []string) Predicate {
	return Predicate{
		required:  dedupe(required),
		forbidden: dedupe(forbidden),
	}
}

// Matches reports whether docTags satisfies the predicate: every
// required tag present, no forbidden tag present.
func (p Predicate) Matches(docTags map[string]struct{}) bool {
	for _, tag := range p.required {
		if _, ok := docTags[tag]; !ok {
			return false
		}
	}
	for _, tag := range p.forbidden {
		if _, ok := docTags[tag]; ok {
			return false
		}
	}
	return true
}

// Toggle flips tag's required membership, returning a new predicate: if
// tag is currently required it is dropped, otherwise it is appended.
// Forbidden membership is untouched.
func (p Predicate) Toggle(tag string) Predicate {
	out := Predicate{forbidden: append([]string(nil), p.forbidden...)}
	if i := indexOf(p.required, tag); i >= 0 {
		out.required = append(append([]string(nil), p.required[:i]...), p.required[i+1:]...)
	} else {
		out.required = append(append([]string(nil), p.required...), tag)
	}
	return out
}

// RequiredTags returns the required tags in their preserved order.
func (p Predicate) RequiredTags() []string {
	return append([]string(nil), p.required...)
}

// ForbiddenTags returns the forbidden tags in their preserved order.
func (p Predicate) ForbiddenTags() []string {
	return append([]string(nil), p.forbidden...)
}

// ToQueryParameters serializes the predicate to the set of literals used
// in URL query strings: the required tags, in order.
func (p Predicate) ToQueryParameters() []string {
	return p.RequiredTags()
}

// ToWireTags serializes the predicate's forbidden half to the search
// service's wire format: each forbidden tag prefixed with "-". Required
// tags are not included — the wire query conveys them through q's tag
// literals instead (spec.md 4.G S3/S5), so the tags list is negation-only.
func (p Predicate) ToWireTags() []string {
	out := make([]string, 0, len(p.forbidden))
	for _, tag := range p.forbidden {
		out = append(out, "-"+tag)
	}
	return out
}

// ResolveDefaultForbidden computes the forbidden-tag set for the three
// default-forbidden tags (is:discontinued, is:unlisted, is:legacy),
// given the required tags already parsed from the query and the set of
// scopes explicitly "shown" via a show:X literal. A default tag is
// excluded from the forbidden set when the query mentions it either as
// is:X (already present in requiredTags) or as show:X.
func ResolveDefaultForbidden(requiredTags []string, shown map[string]struct{}) []string {
	if _, all := shown[ShowAllSentinel]; all {
		return nil
	}

	required := make(map[string]struct{}, len(requiredTags))
	for _, tag := range requiredTags {
		required[tag] = struct{}{}
	}

	var forbidden []string
	for _, def := range types.DefaultForbiddenTags {
		if _, isRequired := required[def]; isRequired {
			continue
		}
		if _, isShown := shown[def]; isShown {
			continue
		}
		forbidden = append(forbidden, def)
	}
	return forbidden
}

// FromWireTags reconstructs a predicate from a wire tag list: entries
// without a leading "-" are required, entries with one are forbidden
// (the "-" stripped). ToWireTags never emits the required form, but
// FromWireTags still accepts it so callers that build the tags list by
// hand (tests, other clients) aren't forced through q-literal parsing.
func FromWireTags(tags []string) Predicate {
	var required, forbidden []string
	for _, tag := range tags {
		if strings.HasPrefix(tag, "-") {
			forbidden = append(forbidden, tag[1:])
		} else {
			required = append(required, tag)
		}
	}
	return New(required, forbidden)
}

func indexOf(tags []string, tag string) int {
	for i, t := range tags {
		if t == tag {
			return i
		}
	}
	return -1
}

func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
