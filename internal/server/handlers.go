package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nabd-labs/quiz-api/internal/corpus"
)

const (
	defaultPage        = 1
	defaultLimit       = 10
	defaultRandomCount = 5
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Document()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Categories())
}

func (s *Server) handleCategoryTopics(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathInt(r, "categoryId")
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := s.store.Document()
	if err != nil {
		writeError(w, err)
		return
	}

	topics, err := doc.Topics(categoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagingParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := s.store.Document()
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := corpus.Paginate(corpus.Flatten(doc), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathInt(r, "categoryId")
	if err != nil {
		writeError(w, err)
		return
	}
	page, limit, err := pagingParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := s.store.Document()
	if err != nil {
		writeError(w, err)
		return
	}

	seq, err := corpus.FlattenCategory(doc, categoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := corpus.Paginate(seq, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTopicQuestions(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathInt(r, "categoryId")
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := s.store.Document()
	if err != nil {
		writeError(w, err)
		return
	}

	seq, err := corpus.FlattenTopic(doc, categoryID, r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seq)
}

func (s *Server) handleRandomQuestions(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", defaultRandomCount)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := s.store.Document()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, corpus.RandomSample(corpus.Flatten(doc), count))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Document()
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, corpus.Search(corpus.Flatten(doc), query))
}

func pagingParams(r *http.Request) (page, limit int, err error) {
	if page, err = queryInt(r, "page", defaultPage); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit", defaultLimit); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &corpus.InputError{Msg: fmt.Sprintf("invalid %s parameter: %q is not a number", name, raw)}
	}
	return n, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &corpus.InputError{Msg: fmt.Sprintf("invalid %s: %q is not a number", name, raw)}
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// writeError maps the core error taxonomy onto HTTP statuses. The corpus
// package never learns about transport; this is the only place the two
// meet.
func writeError(w http.ResponseWriter, err error) {
	var nf *corpus.NotFoundError
	if errors.As(err, &nf) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": nf.Error()})
		return
	}

	var ie *corpus.InputError
	if errors.As(err, &ie) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":          ie.Msg,
			"totalQuestions": ie.TotalQuestions,
			"totalPages":     ie.TotalPages,
		})
		return
	}

	var le *corpus.LoadError
	if errors.As(err, &le) {
		slog.Error("content document unavailable", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "content unavailable"})
		return
	}

	slog.Error("unhandled error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
