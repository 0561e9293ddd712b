package corpus

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/sync/singleflight"
)

//go:embed document.schema.json
var documentSchema string

// Store serves the content document from disk, caching the parsed snapshot
// in memory after the first successful load.
type Store struct {
	path string

	group singleflight.Group
	mu    sync.RWMutex
	doc   *Document
}

// NewStore creates a store over the document at path. Nothing is read
// until the first call to Document.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Document returns the content snapshot, loading and validating the file
// on first use. Concurrent first calls share a single load; a failed load
// is not cached, so the next call retries. The returned document is shared
// and must not be mutated. Hot content updates are not supported: after a
// rebuild the service must be restarted to pick up the new document.
func (s *Store) Document() (*Document, error) {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	if doc != nil {
		return doc, nil
	}

	v, err, _ := s.group.Do("load", func() (any, error) {
		d, err := loadDocument(s.path)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.doc = d
		s.mu.Unlock()
		slog.Info("content document loaded", "path", s.path, "categories", len(d.MainCategories))
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Document), nil
}

func loadDocument(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if err := validateDocument(raw); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if doc.Version != SchemaVersion {
		return nil, &LoadError{
			Path: path,
			Err:  fmt.Errorf("unsupported document version %d, want %d", doc.Version, SchemaVersion),
		}
	}

	return &doc, nil
}

func validateDocument(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validating document: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("document does not match schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}
