package httpapi

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/pkgsearch/internal/analyzer"
	"github.com/anthropics/pkgsearch/internal/searchservice"
	"github.com/anthropics/pkgsearch/pkg/types"
)

type fakeProvider struct {
	snapshot types.CorpusSnapshot
}

func (f fakeProvider) Snapshot(ctx context.Context) (types.CorpusSnapshot, error) {
	return f.snapshot, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := searchservice.New(analyzer.NewDefault(), []types.FieldName{"name", "description"}, nil, 0.01)
	docs := types.CorpusSnapshot{
		"http": {
			Fields: map[types.FieldName]string{"name": "http_client", "description": "a minimal HTTP client"},
			Tags:   map[string]struct{}{"sdk:dart": {}},
		},
		"yaml": {
			Fields: map[types.FieldName]string{"name": "yaml_parser", "description": "parses YAML"},
			Tags:   map[string]struct{}{"sdk:dart": {}},
		},
	}
	if err := svc.Rebuild(context.Background(), fakeProvider{snapshot: docs}); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}
	return NewServer(types.ServerConfig{Port: 0}, svc)
}

func TestHandleSearch_Basic(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("GET", "/search?q=http", nil)
	rec := httptest.NewRecorder()

	s.handleSearch(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.TotalHits != 1 || len(result.DocIDs) != 1 || result.DocIDs[0] != "http" {
		t.Errorf("result = %+v, want a single hit for doc 'http'", result)
	}
}

func TestHandleSearch_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("POST", "/search", nil)
	rec := httptest.NewRecorder()

	s.handleSearch(rec, req)

	if rec.Code != 405 {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleSearch_InvalidPageFallsBackToOne(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("GET", "/search?q=http&page=not-a-number", nil)
	rec := httptest.NewRecorder()

	s.handleSearch(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	s.handleHealth(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result HealthResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Healthy || !result.IndexReady || result.DocumentCount != 2 {
		t.Errorf("result = %+v, want healthy, ready, 2 documents", result)
	}
}

func TestHandleHealth_BeforeRebuild(t *testing.T) {
	svc := searchservice.New(analyzer.NewDefault(), []types.FieldName{"name"}, nil, 0.01)
	s := NewServer(types.ServerConfig{Port: 0}, svc)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	var result HealthResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.IndexReady {
		t.Error("IndexReady should be false before Rebuild")
	}
}
