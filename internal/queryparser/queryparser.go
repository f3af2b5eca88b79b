// Package queryparser splits a free-form query string into its free-text
// stream and tag literals (spec.md 4.F). The parser is total: every
// input, including the empty string, yields a ParsedQuery with no error
// channel.
package queryparser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/anthropics/pkgsearch/internal/tagpredicate"
)

// tagLiteral matches a whole token that is a scoped tag, e.g. "sdk:dart"
// or "is:discontinued". The scope is restricted to lowercase letters;
// the value allows letters, digits, underscore, dot, and hyphen.
var tagLiteral = regexp.MustCompile(`^[a-z]+:[a-zA-Z0-9_.-]+$`)

// ParsedQuery is the result of splitting a raw "q" string into free text
// and tag literals. It does not itself resolve default-forbidden tags or
// carry ordering/pagination — those belong to the search form, which
// combines a ParsedQuery with the rest of the URL parameters.
type ParsedQuery struct {
	// Text is the space-joined concatenation of free-text tokens, in
	// input order.
	Text string

	// RequiredTags are the tag literals found in the query, in input
	// order, excluding show:X literals (tracked in Shown instead).
	// Unknown scopes are preserved verbatim.
	RequiredTags []string

	// Shown holds the full tag (e.g. "is:discontinued") for every
	// show:X literal encountered, signaling that X should be promoted
	// out of the default-forbidden set without being required.
	Shown map[string]struct{}
}

// Parse splits q into free text and tag literals. Always succeeds;
// an empty or all-whitespace q yields an empty ParsedQuery.
func Parse(q string) ParsedQuery {
	tokens := splitUnquoted(q)

	result := ParsedQuery{Shown: make(map[string]struct{})}
	var freeText []string

	for _, tok := range tokens {
		if !tagLiteral.MatchString(tok) {
			freeText = append(freeText, tok)
			continue
		}

		scope, value, _ := strings.Cut(tok, ":")
		if scope == "show" {
			// show:hidden is the blanket flag that suppresses every
			// default-forbidden tag at once; show:discontinued (etc.)
			// suppresses just that one default, same as is:X would.
			if value == "hidden" {
				result.Shown[tagpredicate.ShowAllSentinel] = struct{}{}
			} else {
				result.Shown["is:"+value] = struct{}{}
			}
			continue
		}
		result.RequiredTags = append(result.RequiredTags, tok)
	}

	result.Text = strings.Join(freeText, " ")
	return result
}

// splitUnquoted splits s on whitespace runs, treating a double-quoted
// span as a single token (quotes are stripped, interior whitespace is
// preserved). An unterminated quote runs to the end of the string.
func splitUnquoted(s string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case unicode.IsSpace(r) && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return tokens
}
