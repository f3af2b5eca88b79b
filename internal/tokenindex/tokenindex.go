// Package tokenindex implements a single-field inverted index: token ->
// posting list (doc id -> weight), with the weighted, size-normalized
// scoring described in spec.md 4.C. It mirrors the structure of a
// classical BM25 inverted index (one posting map per token, a
// reader-writer lock, per-document bookkeeping for removal) but replaces
// term-frequency/BM25 scoring with the analyzer's prefix/segment weights
// and a logarithmic size proxy.
package tokenindex

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"sync"

	"github.com/anthropics/pkgsearch/internal/analyzer"
	"github.com/anthropics/pkgsearch/internal/scoremap"
	"github.com/anthropics/pkgsearch/pkg/types"
)

// TokenMatch is the set of index tokens a lookup resolved to, each
// carrying the query-side weight that will multiply the document-side
// weight in the posting list.
type TokenMatch map[string]float64

// Index is a single field's token index: one posting list per token,
// a reader-writer lock (one writer at a time, any number of concurrent
// readers, none observing a mid-update state), and enough per-document
// bookkeeping to undo a prior Add in O(tokens in that document).
type Index struct {
	mu sync.RWMutex

	analyzer analyzer.Analyzer

	postings map[string]map[types.DocID]float64 // token -> doc -> weight
	docSize  map[types.DocID]float64             // doc -> size proxy
	docTerms map[types.DocID][]string            // doc -> tokens (for removal)
	textHash map[types.DocID]string              // doc -> hash of (text, token count)
}

// New constructs an empty index using the given analyzer.
func New(a analyzer.Analyzer) *Index {
	return &Index{
		analyzer: a,
		postings: make(map[string]map[types.DocID]float64),
		docSize:  make(map[types.DocID]float64),
		docTerms: make(map[types.DocID][]string),
		textHash: make(map[types.DocID]string),
	}
}

// Add (re)indexes a document's text for this field. If text tokenizes to
// nothing, any existing entry for docID is removed. If text hashes the
// same as the previously stored text (same content, same token count),
// the call is a no-op.
func (idx *Index) Add(docID types.DocID, text string) {
	weights := idx.analyzer.Tokenize(text, false)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(weights) == 0 {
		idx.removeLocked(docID)
		return
	}

	hash := contentHash(text, len(weights))
	if existing, ok := idx.textHash[docID]; ok && existing == hash {
		return
	}

	idx.removeLocked(docID)

	tokens := make([]string, 0, len(weights))
	for token, weight := range weights {
		posting, ok := idx.postings[token]
		if !ok {
			posting = make(map[types.DocID]float64)
			idx.postings[token] = posting
		}
		if existing, ok := posting[docID]; !ok || weight > existing {
			posting[docID] = weight
		}
		tokens = append(tokens, token)
	}

	idx.docTerms[docID] = tokens
	idx.docSize[docID] = sizeProxy(len(weights))
	idx.textHash[docID] = hash
}

// Remove purges docID from every posting list it appears in.
func (idx *Index) Remove(docID types.DocID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(docID)
}

func (idx *Index) removeLocked(docID types.DocID) {
	tokens, ok := idx.docTerms[docID]
	if !ok {
		return
	}
	for _, token := range tokens {
		posting, ok := idx.postings[token]
		if !ok {
			continue
		}
		delete(posting, docID)
		if len(posting) == 0 {
			delete(idx.postings, token)
		}
	}
	delete(idx.docTerms, docID)
	delete(idx.docSize, docID)
	delete(idx.textHash, docID)
}

// LookupTokens resolves a single query word against the tokens actually
// present in the index. It splits word into sub-words, tokenizes each
// with split=true, keeps only tokens present in the index, and among
// those keeps the ones within 0.7 of the highest query-side weight seen.
// If any sub-word resolves to no present tokens, the whole lookup is
// empty: the query cannot be matched by this field at all.
func (idx *Index) LookupTokens(word string) TokenMatch {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lookupTokensLocked(word)
}

func (idx *Index) lookupTokensLocked(word string) TokenMatch {
	subWords := idx.analyzer.SplitForIndexing(word)
	if len(subWords) == 0 {
		return TokenMatch{}
	}

	result := make(TokenMatch)
	for _, w := range subWords {
		candidates := idx.analyzer.Tokenize(w, true)

		present := make(map[string]float64)
		for token, weight := range candidates {
			if _, ok := idx.postings[token]; ok {
				present[token] = weight
			}
		}
		if len(present) == 0 {
			return TokenMatch{}
		}

		maxWeight := 0.0
		for _, weight := range present {
			if weight > maxWeight {
				maxWeight = weight
			}
		}
		threshold := 0.7 * maxWeight
		for token, weight := range present {
			if weight < threshold {
				continue
			}
			if existing, ok := result[token]; !ok || weight > existing {
				result[token] = weight
			}
		}
	}
	return result
}

// scoreDocs computes the per-word contribution to the combined score:
// for every token in tokenMatch, the best (query-weight * doc-weight)
// per document, restricted to restrictTo when non-nil; then normalized
// by the document's size proxy raised to 1/wordCount, so that across all
// words in a query the size penalty is applied exactly once overall.
func (idx *Index) scoreDocs(tokenMatch TokenMatch, weight float64, wordCount int, restrictTo map[types.DocID]struct{}) scoremap.Score {
	raw := make(map[types.DocID]float64)
	for token, queryWeight := range tokenMatch {
		posting := idx.postings[token]
		for doc, docWeight := range posting {
			if restrictTo != nil {
				if _, ok := restrictTo[doc]; !ok {
					continue
				}
			}
			v := queryWeight * docWeight
			if existing, ok := raw[doc]; !ok || v > existing {
				raw[doc] = v
			}
		}
	}

	out := make(scoremap.Score, len(raw))
	for doc, v := range raw {
		size := idx.docSize[doc]
		adjusted := math.Pow(size, 1.0/float64(wordCount))
		out[doc] = weight * v / adjusted
	}
	return out
}

// SearchWords scores docs in restrictTo against words, requiring every
// word to match (intersection via Score.multiply), each word free to
// match any token it resolves to. An empty restrictTo always yields an
// empty score.
func (idx *Index) SearchWords(words []string, weight float64, restrictTo map[types.DocID]struct{}) scoremap.Score {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.searchWordsLocked(words, weight, restrictTo)
}

func (idx *Index) searchWordsLocked(words []string, weight float64, restrictTo map[types.DocID]struct{}) scoremap.Score {
	if len(restrictTo) == 0 {
		return scoremap.Score{}
	}
	if len(words) == 0 {
		return scoremap.Score{}
	}

	perWord := make([]scoremap.Score, 0, len(words))
	for _, word := range words {
		tm := idx.lookupTokensLocked(word)
		perWord = append(perWord, idx.scoreDocs(tm, weight, len(words), restrictTo))
	}
	return scoremap.Multiply(perWord...)
}

// Search scores every document currently in the index against text,
// splitting it into words with the analyzer. Equivalent to SearchWords
// with restrictTo set to every indexed document.
func (idx *Index) Search(text string) scoremap.Score {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	all := make(map[types.DocID]struct{}, len(idx.docSize))
	for doc := range idx.docSize {
		all[doc] = struct{}{}
	}

	words := idx.analyzer.SplitForIndexing(text)
	return idx.searchWordsLocked(words, 1.0, all)
}

// TokenCount returns the number of distinct tokens currently indexed.
func (idx *Index) TokenCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.postings)
}

// DocumentCount returns the number of documents currently indexed.
func (idx *Index) DocumentCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docSize)
}

// sizeProxy computes 1 + log(1+T)/100 for a document with T distinct
// indexed tokens.
func sizeProxy(distinctTokens int) float64 {
	return 1 + math.Log(1+float64(distinctTokens))/100
}

// contentHash hashes text plus token count to detect no-op re-adds.
func contentHash(text string, tokenCount int) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:]) + ":" + strconv.Itoa(tokenCount)
}
