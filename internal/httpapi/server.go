// Package httpapi is the HTTP surface over the search service (spec.md
// 6 "Service wire format"): a GET /search endpoint that turns URL query
// parameters into a search-form request and returns the service's
// response as JSON, plus a /health endpoint for operational checks. It
// follows the teacher's api.Server shape — a struct holding the
// long-lived components, a logging middleware wrapping every request,
// and a graceful Shutdown — narrowed from the teacher's JSON-RPC-plus-REST
// surface to the two routes this domain needs.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/anthropics/pkgsearch/internal/searchform"
	"github.com/anthropics/pkgsearch/internal/searchservice"
	"github.com/anthropics/pkgsearch/pkg/types"
)

// Server is the HTTP server fronting a searchservice.Service.
type Server struct {
	config  types.ServerConfig
	service *searchservice.Service

	httpServer   *http.Server
	startTime    time.Time
	requestCount atomic.Uint64
}

// NewServer creates a new HTTP server over service.
func NewServer(config types.ServerConfig, service *searchservice.Service) *Server {
	return &Server{
		config:    config,
		service:   service,
		startTime: time.Now(),
	}
}

// Start builds the route table and blocks serving it. It returns
// http.ErrServerClosed after a graceful Shutdown.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/health", s.handleHealth)

	handler := s.loggingMiddleware(mux)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware logs every request with a per-request id, so a
// slow or erroring search can be traced through the logs by that id.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		r.Header.Set("X-Request-ID", reqID)

		next.ServeHTTP(lrw, r)

		log.Printf("%s %s %s %d %s", reqID, r.Method, r.URL.Path, lrw.statusCode, time.Since(start))
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// SearchResult is the JSON body returned by GET /search.
type SearchResult struct {
	TotalHits int           `json:"total_hits"`
	DocIDs    []types.DocID `json:"doc_ids"`
	NextPage  string        `json:"next_page,omitempty"`
	PrevPage  string        `json:"prev_page,omitempty"`
}

// handleSearch parses q/page/sort from the query string into a
// searchform.Form (spec.md 4.G), converts it to a service query, and
// returns the search response plus pagination links built from the
// same form.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.requestCount.Add(1)

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	params := map[string]string{
		"q":    query.Get("q"),
		"page": query.Get("page"),
		"sort": query.Get("sort"),
	}
	form := searchform.ParseFromParams(searchform.RegularContext, params)

	resp, err := s.service.Search(r.Context(), form.ToServiceQuery())
	if err != nil {
		s.writeError(err)
		s.writeJSONError(w, statusFor(err), err.Error())
		return
	}

	result := SearchResult{TotalHits: resp.TotalHits, DocIDs: resp.DocIDs}
	if (form.CurrentPage()-1)*form.PageSize()+len(resp.DocIDs) < resp.TotalHits {
		result.NextPage = form.ToSearchLink(form.CurrentPage() + 1)
	}
	if form.CurrentPage() > 1 {
		result.PrevPage = form.ToSearchLink(form.CurrentPage() - 1)
	}

	s.writeJSON(w, result)
}

// writeError is a hook point for structured error logging; kept
// separate from writeJSONError so the log line and the wire response
// are written independently. handleSearch passes the same error text,
// err.Error(), to both.
func (s *Server) writeError(err error) {
	log.Printf("search error: %v", err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidArg), errors.Is(err, types.ErrInvalidLimit):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrCorpusUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HealthResult is the JSON body returned by GET /health.
type HealthResult struct {
	Healthy       bool    `json:"healthy"`
	Status        string  `json:"status"`
	IndexReady    bool    `json:"index_ready"`
	DocumentCount int     `json:"document_count"`
	UptimeMs      int64   `json:"uptime_ms"`
	RequestCount  uint64  `json:"request_count"`
	Fields        []field `json:"fields,omitempty"`
}

type field struct {
	Name          string `json:"name"`
	TokenCount    int    `json:"token_count"`
	DocumentCount int    `json:"document_count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.service.Stats()

	fields := make([]field, 0, len(stats.Fields))
	for _, f := range stats.Fields {
		fields = append(fields, field{Name: string(f.Name), TokenCount: f.TokenCount, DocumentCount: f.DocumentCount})
	}

	result := HealthResult{
		Healthy:       true,
		Status:        "ok",
		IndexReady:    stats.Ready,
		DocumentCount: stats.DocumentCount,
		UptimeMs:      time.Since(s.startTime).Milliseconds(),
		RequestCount:  s.requestCount.Load(),
		Fields:        fields,
	}
	s.writeJSON(w, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
