// Package scoremap implements Score, the pure doc-id -> weight mapping
// used to merge and rank relevance contributions across tokens, words,
// and fields (spec.md 4.B). Every operation is pure: inputs are never
// mutated, and a missing key is always equivalent to 0.0.
package scoremap

import (
	"sort"

	"github.com/anthropics/pkgsearch/pkg/types"
)

// Score maps a document id to a non-negative relevance weight. The zero
// value is the empty score. NaN values must never appear; callers that
// compute weights are responsible for keeping inputs finite.
type Score map[types.DocID]float64

// New constructs a Score from an existing map, copying it so the caller's
// map can be mutated freely afterwards.
func New(m map[types.DocID]float64) Score {
	out := make(Score, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether the score has no entries.
func (s Score) IsEmpty() bool { return len(s) == 0 }

// MaxValue returns the highest value in the score, or 0.0 if empty.
func (s Score) MaxValue() float64 {
	max := 0.0
	for _, v := range s {
		if v > max {
			max = v
		}
	}
	return max
}

// Get returns the value for key, defaulting to 0.0 when absent.
func (s Score) Get(key types.DocID) float64 {
	return s[key]
}

// Keys returns the score's doc ids, optionally restricted by filter.
// Order is unspecified.
func (s Score) Keys(filter func(types.DocID) bool) []types.DocID {
	out := make([]types.DocID, 0, len(s))
	for k := range s {
		if filter == nil || filter(k) {
			out = append(out, k)
		}
	}
	return out
}

// RemoveLowValues returns a new Score keeping only entries whose value is
// >= max(minValue, fraction*MaxValue()). At least one of fraction/minValue
// must be non-zero for this to have any effect; both default to 0 when
// omitted by the caller (pass 0 to disable that bound).
func (s Score) RemoveLowValues(fraction, minValue float64) Score {
	threshold := minValue
	if t := fraction * s.MaxValue(); t > threshold {
		threshold = t
	}
	out := make(Score, len(s))
	for k, v := range s {
		if v >= threshold {
			out[k] = v
		}
	}
	return out
}

// Project restricts the score to the intersection with keys.
func (s Score) Project(keys map[types.DocID]struct{}) Score {
	out := make(Score)
	for k, v := range s {
		if _, ok := keys[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Map applies f to every value, returning a new Score.
func (s Score) Map(f func(float64) float64) Score {
	out := make(Score, len(s))
	for k, v := range s {
		out[k] = f(v)
	}
	return out
}

// Entry is one (doc id, value) pair, as returned by Top.
type Entry struct {
	DocID types.DocID
	Value float64
}

// Top returns the n entries of highest value, ties broken by doc-id
// ascending, optionally filtered to values >= minValue.
func (s Score) Top(n int, minValue float64) []Entry {
	entries := make([]Entry, 0, len(s))
	for k, v := range s {
		if v >= minValue {
			entries = append(entries, Entry{DocID: k, Value: v})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].DocID < entries[j].DocID
	})
	if n >= 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Multiply computes the key-wise product of all inputs, restricted to
// their intersection. It short-circuits to empty as soon as any
// intermediate intersection is empty. Multiply() with no arguments
// returns an empty Score; Multiply(s) returns a copy of s.
func Multiply(scores ...Score) Score {
	if len(scores) == 0 {
		return Score{}
	}
	result := New(scores[0])
	for _, next := range scores[1:] {
		if result.IsEmpty() {
			return Score{}
		}
		merged := make(Score)
		for k, v := range result {
			if nv, ok := next[k]; ok {
				merged[k] = v * nv
			}
		}
		result = merged
	}
	return result
}

// Max computes the key-wise maximum across all inputs, over the union of
// their keys.
func Max(scores ...Score) Score {
	out := make(Score)
	for _, s := range scores {
		for k, v := range s {
			if existing, ok := out[k]; !ok || v > existing {
				out[k] = v
			}
		}
	}
	return out
}
