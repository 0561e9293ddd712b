// Package build assembles the content document from per-topic source
// fragments. It runs offline; the serving path only ever reads the
// finished document.
package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nabd-labs/quiz-api/internal/corpus"
)

// Manifest is the root build input: an ordered list of categories, each
// pointing at its own topic manifest.
type Manifest struct {
	Description string             `yaml:"description"`
	Categories  []CategoryManifest `yaml:"categories"`
}

// CategoryManifest describes one category. Topics is the path of the
// category's topic manifest, relative to the root manifest.
type CategoryManifest struct {
	ID          int    `yaml:"id"`
	ArabicName  string `yaml:"arabic_name"`
	EnglishName string `yaml:"english_name"`
	Description string `yaml:"description"`
	Icons       string `yaml:"icons"`
	Topics      string `yaml:"topics"`
}

// TopicManifest is the per-category list of topics in source order.
type TopicManifest struct {
	Topics []TopicEntry `yaml:"topics"`
}

// TopicEntry describes one topic and its up-to-three level fragments.
// Fragment paths are relative to the topic manifest; an empty path yields
// an empty level.
type TopicEntry struct {
	Name        string     `yaml:"name"`
	Slug        string     `yaml:"slug"`
	Description string     `yaml:"description"`
	Levels      LevelFiles `yaml:"levels"`
}

// LevelFiles holds the fragment path of each difficulty tier.
type LevelFiles struct {
	Level1 string `yaml:"level1"`
	Level2 string `yaml:"level2"`
	Level3 string `yaml:"level3"`
}

// Error reports the source file that broke the build. Any Error aborts
// the whole run and nothing is written.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("build: %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// sourceQuestion is the fragment shape. Source ids are intentionally
// absent: localId is reassigned from fragment order.
type sourceQuestion struct {
	Text    string          `json:"q"`
	Link    string          `json:"link"`
	Answers []corpus.Answer `json:"answers"`
}

// Run assembles the document described by the manifest at manifestPath and
// atomically writes it to outPath. The output appears either whole or not
// at all: assembly happens fully in memory and the file is renamed into
// place only on success.
func Run(manifestPath, outPath string) error {
	doc, err := Assemble(manifestPath)
	if err != nil {
		return err
	}
	return writeDocument(doc, outPath)
}

// Assemble reads the root manifest and every referenced topic manifest and
// level fragment, producing the document in manifest order. Identical
// inputs always produce an identical document.
func Assemble(manifestPath string) (*corpus.Document, error) {
	var manifest Manifest
	if err := readYAML(manifestPath, &manifest); err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(manifestPath)
	doc := &corpus.Document{
		Version:        corpus.SchemaVersion,
		Description:    manifest.Description,
		MainCategories: make([]corpus.Category, 0, len(manifest.Categories)),
	}

	seenIDs := make(map[int]bool)
	for _, cm := range manifest.Categories {
		if seenIDs[cm.ID] {
			return nil, &Error{Path: manifestPath, Err: fmt.Errorf("duplicate category id %d", cm.ID)}
		}
		seenIDs[cm.ID] = true

		topics, err := assembleTopics(filepath.Join(baseDir, cm.Topics))
		if err != nil {
			return nil, err
		}

		doc.MainCategories = append(doc.MainCategories, corpus.Category{
			ID:          cm.ID,
			ArabicName:  cm.ArabicName,
			EnglishName: cm.EnglishName,
			Description: cm.Description,
			Icons:       cm.Icons,
			Topics:      topics,
		})
	}

	return doc, nil
}

func assembleTopics(manifestPath string) ([]corpus.Topic, error) {
	var manifest TopicManifest
	if err := readYAML(manifestPath, &manifest); err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(manifestPath)
	topics := make([]corpus.Topic, 0, len(manifest.Topics))
	seenSlugs := make(map[string]bool)
	for _, entry := range manifest.Topics {
		if seenSlugs[entry.Slug] {
			return nil, &Error{Path: manifestPath, Err: fmt.Errorf("duplicate topic slug %q", entry.Slug)}
		}
		seenSlugs[entry.Slug] = true

		levels, err := assembleLevels(baseDir, entry.Levels)
		if err != nil {
			return nil, err
		}

		topics = append(topics, corpus.Topic{
			Name:        entry.Name,
			Slug:        entry.Slug,
			Description: entry.Description,
			Levels:      levels,
		})
	}

	return topics, nil
}

func assembleLevels(baseDir string, files LevelFiles) (corpus.LevelSet, error) {
	var set corpus.LevelSet
	var err error

	if set.Level1, err = loadLevel(baseDir, files.Level1); err != nil {
		return set, err
	}
	if set.Level2, err = loadLevel(baseDir, files.Level2); err != nil {
		return set, err
	}
	if set.Level3, err = loadLevel(baseDir, files.Level3); err != nil {
		return set, err
	}
	return set, nil
}

// loadLevel reads one level fragment and remaps its items to localId 1..N
// in fragment order, carrying text, link and answers over unchanged.
func loadLevel(baseDir, file string) ([]corpus.Question, error) {
	if file == "" {
		return []corpus.Question{}, nil
	}

	path := filepath.Join(baseDir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	var raw []sourceQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("parsing fragment: %w", err)}
	}

	questions := make([]corpus.Question, 0, len(raw))
	for i, src := range raw {
		if src.Answers == nil {
			src.Answers = []corpus.Answer{}
		}
		questions = append(questions, corpus.Question{
			LocalID: i + 1,
			Text:    src.Text,
			Link:    src.Link,
			Answers: src.Answers,
		})
	}
	return questions, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return &Error{Path: path, Err: fmt.Errorf("parsing manifest: %w", err)}
	}
	return nil
}

// writeDocument marshals doc with stable two-space indentation and renames
// a temp file over outPath so a failed write never leaves a partial
// document behind.
func writeDocument(doc *corpus.Document, outPath string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &Error{Path: outPath, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(outPath)
	tmp, err := os.CreateTemp(dir, ".document-*.json")
	if err != nil {
		return &Error{Path: outPath, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &Error{Path: outPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &Error{Path: outPath, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &Error{Path: outPath, Err: err}
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return &Error{Path: outPath, Err: err}
	}
	return nil
}
