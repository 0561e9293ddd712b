package corpus

import "strconv"

// FlatQuestion is one entry of a flatten traversal: a question joined with
// its owning category and topic display names and a positional id.
//
// GlobalID is assigned purely by traversal position, starting at 1 for the
// first question of the traversal's scope. It is stable for a fixed
// document and scope but meaningless outside the slice it came from.
type FlatQuestion struct {
	GlobalID int      `json:"id"`
	Text     string   `json:"q"`
	Link     string   `json:"link,omitempty"`
	Answers  []Answer `json:"answers"`
	Category string   `json:"category"`
	Topic    string   `json:"topic"`
}

// Flatten returns every question of the document in traversal order:
// category (document order), then topic, then level (canonical order),
// then item. Cost is O(total questions); the result is recomputed on every
// call and never cached.
func Flatten(doc *Document) []FlatQuestion {
	var out []FlatQuestion
	for i := range doc.MainCategories {
		out = flattenCategory(out, &doc.MainCategories[i])
	}
	return out
}

// FlattenCategory flattens a single category, with GlobalID restarting at
// 1 for that category's first question. It fails with a NotFoundError if
// the category id does not exist.
func FlattenCategory(doc *Document, categoryID int) ([]FlatQuestion, error) {
	c := doc.findCategory(categoryID)
	if c == nil {
		return nil, &NotFoundError{Resource: "category", ID: strconv.Itoa(categoryID)}
	}
	return flattenCategory(nil, c), nil
}

// FlattenTopic flattens a single topic of a category, with GlobalID
// restarting at 1. It fails with a NotFoundError if either the category id
// or the topic slug does not exist.
func FlattenTopic(doc *Document, categoryID int, slug string) ([]FlatQuestion, error) {
	c := doc.findCategory(categoryID)
	if c == nil {
		return nil, &NotFoundError{Resource: "category", ID: strconv.Itoa(categoryID)}
	}
	t := c.findTopic(slug)
	if t == nil {
		return nil, &NotFoundError{Resource: "topic", ID: slug}
	}
	return flattenTopic(nil, c, t), nil
}

func flattenCategory(dst []FlatQuestion, c *Category) []FlatQuestion {
	for i := range c.Topics {
		dst = flattenTopic(dst, c, &c.Topics[i])
	}
	return dst
}

func flattenTopic(dst []FlatQuestion, c *Category, t *Topic) []FlatQuestion {
	for _, level := range t.Levels.Ordered() {
		for i := range level {
			q := &level[i]
			dst = append(dst, FlatQuestion{
				GlobalID: len(dst) + 1,
				Text:     q.Text,
				Link:     q.Link,
				Answers:  q.Answers,
				Category: c.ArabicName,
				Topic:    t.Name,
			})
		}
	}
	return dst
}
