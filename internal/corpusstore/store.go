// Package corpusstore is the demo/integration corpus provider: a
// Pebble-backed document store that implements searchservice.CorpusProvider.
// It follows the teacher's storage.Store shape (byte key-prefixes, one
// JSON record per document) but stores package documents instead of
// hierarchy nodes, and renders README markdown to plain text with
// goldmark before handing it to the index.
package corpusstore

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
	"github.com/yuin/goldmark"

	"github.com/anthropics/pkgsearch/pkg/types"
)

// Key prefixes for the store's single record kind.
const (
	prefixDoc byte = 0x01 // doc:<id> -> Document JSON
)

// Document is one package's stored record. Readme is kept as raw
// markdown on disk; it is rendered to plain text only when producing a
// corpus snapshot for indexing.
type Document struct {
	ID             types.DocID        `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Readme         string             `json:"readme"` // raw markdown
	APISymbols     string             `json:"api_symbols"`
	Tags           []string           `json:"tags"`
	OrderingFields map[string]float64 `json:"ordering_fields"`
}

// Store is a Pebble-backed document store.
type Store struct {
	db     *pebble.DB
	config types.CorpusConfig
	closed atomic.Bool
}

// Open opens or creates a store at the configured data directory.
func Open(config types.CorpusConfig) (*Store, error) {
	opts := &pebble.Options{
		Cache:        pebble.NewCache(config.CacheSize),
		MaxOpenFiles: 1000,
	}

	db, err := pebble.Open(config.DataDir, opts)
	if err != nil {
		return nil, types.WrapError("corpusstore.Open", types.ErrStorageIO, err)
	}

	return &Store{db: db, config: config}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

func (s *Store) docKey(id types.DocID) []byte {
	key := make([]byte, 1+len(id))
	key[0] = prefixDoc
	copy(key[1:], id)
	return key
}

// SaveDocument persists a document.
func (s *Store) SaveDocument(doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return types.WrapError("corpusstore.SaveDocument", types.ErrInvalidArg, err)
	}

	writeOpts := pebble.NoSync
	if s.config.SyncWrites {
		writeOpts = pebble.Sync
	}

	if err := s.db.Set(s.docKey(doc.ID), data, writeOpts); err != nil {
		return types.WrapError("corpusstore.SaveDocument", types.ErrStorageIO, err)
	}
	return nil
}

// GetDocument retrieves a document by id.
func (s *Store) GetDocument(id types.DocID) (Document, error) {
	data, closer, err := s.db.Get(s.docKey(id))
	if err == pebble.ErrNotFound {
		return Document{}, types.ErrNotFound
	}
	if err != nil {
		return Document{}, types.WrapError("corpusstore.GetDocument", types.ErrStorageIO, err)
	}
	defer closer.Close()

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, types.WrapError("corpusstore.GetDocument", types.ErrStorageCorrupt, err)
	}
	return doc, nil
}

// DeleteDocument removes a document.
func (s *Store) DeleteDocument(id types.DocID) error {
	writeOpts := pebble.NoSync
	if s.config.SyncWrites {
		writeOpts = pebble.Sync
	}
	if err := s.db.Delete(s.docKey(id), writeOpts); err != nil {
		return types.WrapError("corpusstore.DeleteDocument", types.ErrStorageIO, err)
	}
	return nil
}

// IterateDocuments calls fn for every stored document.
func (s *Store) IterateDocuments(fn func(Document) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{prefixDoc},
		UpperBound: []byte{prefixDoc + 1},
	})
	if err != nil {
		return types.WrapError("corpusstore.IterateDocuments", types.ErrStorageIO, err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var doc Document
		if err := json.Unmarshal(iter.Value(), &doc); err != nil {
			return types.WrapError("corpusstore.IterateDocuments", types.ErrStorageCorrupt, err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Snapshot implements searchservice.CorpusProvider: it reads every
// stored document and assembles the field text, tag set, and ordering
// fields the search core needs. README markdown is rendered to plain
// text here, once per rebuild, rather than on every search.
func (s *Store) Snapshot(ctx context.Context) (types.CorpusSnapshot, error) {
	snapshot := make(types.CorpusSnapshot)

	err := s.IterateDocuments(func(doc Document) error {
		tags := make(map[string]struct{}, len(doc.Tags))
		for _, tag := range doc.Tags {
			tags[tag] = struct{}{}
		}

		snapshot[doc.ID] = types.CorpusDoc{
			Fields: map[types.FieldName]string{
				"name":        doc.Name,
				"description": doc.Description,
				"readme":      renderReadmeText(doc.Readme),
				"api_symbols": doc.APISymbols,
			},
			Tags:           tags,
			OrderingFields: doc.OrderingFields,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Flush forces a Pebble flush of unwritten memtable data to disk.
func (s *Store) Flush() error {
	return s.db.Flush()
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// renderReadmeText converts README markdown to plain text: render to
// HTML with goldmark, then strip tags and collapse whitespace. This
// mirrors a package site rendering a README for display and indexing
// its visible text, not its markdown syntax.
func renderReadmeText(markdown string) string {
	if markdown == "" {
		return ""
	}

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &html); err != nil {
		return markdown // fall back to raw text; indexing degrades, doesn't fail
	}

	stripped := htmlTag.ReplaceAllString(html.String(), " ")
	return strings.Join(strings.Fields(stripped), " ")
}
