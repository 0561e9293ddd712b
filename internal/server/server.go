// Package server exposes the content store over HTTP. It is a thin
// boundary layer: every route parses parameters, calls into the corpus
// package, and maps typed errors onto status codes.
package server

import (
	"net/http"

	"github.com/nabd-labs/quiz-api/internal/corpus"
)

// Server wires the HTTP routes over a content store.
type Server struct {
	store   *corpus.Store
	limiter *RateLimiter
}

// New creates a server. limiter may be nil to disable rate limiting.
func New(store *corpus.Store, limiter *RateLimiter) *Server {
	return &Server{store: store, limiter: limiter}
}

// Routes builds the HTTP handler, including the rate-limit middleware
// when configured.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/categories/{categoryId}/topics", s.handleCategoryTopics)
	mux.HandleFunc("GET /api/categories/{categoryId}/questions", s.handleCategoryQuestions)
	mux.HandleFunc("GET /api/categories/{categoryId}/topics/{slug}/questions", s.handleTopicQuestions)
	mux.HandleFunc("GET /api/questions", s.handleQuestions)
	mux.HandleFunc("GET /api/questions/random", s.handleRandomQuestions)
	mux.HandleFunc("GET /api/search", s.handleSearch)

	mux.HandleFunc("/", handleUnknownPath)

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.limiter.Middleware(h)
	}
	return h
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports ready only when the content document loads.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Document(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func handleUnknownPath(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success": false,
		"message": "unknown path",
		"path":    r.URL.Path,
	})
}
