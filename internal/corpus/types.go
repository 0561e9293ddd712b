// Package corpus defines the quiz content model and the read-only query
// operations served over it: flattening, pagination, random sampling and
// substring search.
package corpus

import "strconv"

// SchemaVersion is the content document version this build understands.
// Loading a document with any other version fails with a LoadError.
const SchemaVersion = 1

// Document is the persisted content store: the single JSON file produced
// by the build pipeline and read-only at serving time.
type Document struct {
	Version        int        `json:"version"`
	Description    string     `json:"description,omitempty"`
	MainCategories []Category `json:"mainCategories"`
}

// Category is a top-level subject grouping. IDs are assigned in the build
// manifest and globally unique across the document.
type Category struct {
	ID          int     `json:"id"`
	ArabicName  string  `json:"arabicName"`
	EnglishName string  `json:"englishName"`
	Description string  `json:"description,omitempty"`
	Icons       string  `json:"icons,omitempty"`
	Topics      []Topic `json:"topics"`
}

// Topic is a named subgrouping within a category, addressed by a slug that
// is unique within its category.
type Topic struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Levels      LevelSet `json:"levelsData"`
}

// LevelSet holds the three difficulty tiers of a topic. The set is
// closed: traversal always visits level1, then level2, then level3.
type LevelSet struct {
	Level1 []Question `json:"level1"`
	Level2 []Question `json:"level2"`
	Level3 []Question `json:"level3"`
}

// LevelName identifies one tier of a LevelSet.
type LevelName string

const (
	Level1 LevelName = "level1"
	Level2 LevelName = "level2"
	Level3 LevelName = "level3"
)

// LevelNames is the canonical traversal order of the tiers.
var LevelNames = [3]LevelName{Level1, Level2, Level3}

// Ordered returns the level slices in canonical traversal order.
func (s *LevelSet) Ordered() [3][]Question {
	return [3][]Question{s.Level1, s.Level2, s.Level3}
}

// Len returns the total number of questions across all levels.
func (s *LevelSet) Len() int {
	return len(s.Level1) + len(s.Level2) + len(s.Level3)
}

// Question is a single quiz item. LocalID is sequential 1..N within its
// level only; it repeats across levels and topics and must never be used
// as a global key. Global identity exists only as the positional id of a
// flatten traversal (FlatQuestion.GlobalID).
type Question struct {
	LocalID int      `json:"id"`
	Text    string   `json:"q"`
	Link    string   `json:"link,omitempty"`
	Answers []Answer `json:"answers"`
}

// Answer is one answer option of a question.
type Answer struct {
	Text    string `json:"answer"`
	Correct bool   `json:"t"`
}

// TopicSummary is the topic shape returned by the listing endpoints.
type TopicSummary struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategorySummary is the category shape returned by the listing endpoints.
type CategorySummary struct {
	ID          int            `json:"id"`
	ArabicName  string         `json:"arabicName"`
	EnglishName string         `json:"englishName"`
	Description string         `json:"description,omitempty"`
	Topics      []TopicSummary `json:"topics"`
}

// Categories returns summaries of all categories with their nested topic
// summaries, in document order.
func (d *Document) Categories() []CategorySummary {
	out := make([]CategorySummary, 0, len(d.MainCategories))
	for i := range d.MainCategories {
		c := &d.MainCategories[i]
		out = append(out, CategorySummary{
			ID:          c.ID,
			ArabicName:  c.ArabicName,
			EnglishName: c.EnglishName,
			Description: c.Description,
			Topics:      topicSummaries(c.Topics),
		})
	}
	return out
}

// Topics returns summaries of the topics of one category, in document
// order. It fails with a NotFoundError if the category does not exist.
func (d *Document) Topics(categoryID int) ([]TopicSummary, error) {
	c := d.findCategory(categoryID)
	if c == nil {
		return nil, &NotFoundError{Resource: "category", ID: strconv.Itoa(categoryID)}
	}
	return topicSummaries(c.Topics), nil
}

func topicSummaries(topics []Topic) []TopicSummary {
	out := make([]TopicSummary, 0, len(topics))
	for i := range topics {
		t := &topics[i]
		out = append(out, TopicSummary{Slug: t.Slug, Name: t.Name, Description: t.Description})
	}
	return out
}

func (d *Document) findCategory(id int) *Category {
	for i := range d.MainCategories {
		if d.MainCategories[i].ID == id {
			return &d.MainCategories[i]
		}
	}
	return nil
}

func (c *Category) findTopic(slug string) *Topic {
	for i := range c.Topics {
		if c.Topics[i].Slug == slug {
			return &c.Topics[i]
		}
	}
	return nil
}
