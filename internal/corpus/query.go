package corpus

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
)

// Page is the result of one Paginate call.
type Page struct {
	Page           int            `json:"page"`
	Limit          int            `json:"limit"`
	TotalQuestions int            `json:"totalQuestions"`
	TotalPages     int            `json:"totalPages"`
	Questions      []FlatQuestion `json:"questions"`
}

// Paginate slices seq into 1-based pages of limit questions each. Pages
// partition the sequence contiguously: concatenating pages 1..totalPages
// reproduces seq exactly.
//
// An empty sequence has zero pages, but page 1 is still valid and returns
// an empty page. Any other out-of-range page, and any limit below 1, fails
// with an InputError carrying the true totals.
func Paginate(seq []FlatQuestion, page, limit int) (*Page, error) {
	total := len(seq)
	if limit < 1 {
		return nil, &InputError{
			Msg:            fmt.Sprintf("invalid limit %d: limit must be at least 1", limit),
			TotalQuestions: total,
		}
	}

	totalPages := (total + limit - 1) / limit
	firstEmptyPage := page == 1 && totalPages == 0
	if !firstEmptyPage && (page < 1 || page > totalPages) {
		return nil, &InputError{
			Msg:            fmt.Sprintf("invalid page %d: valid pages are 1..%d", page, totalPages),
			TotalQuestions: total,
			TotalPages:     totalPages,
		}
	}

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	questions := make([]FlatQuestion, 0, end-start)
	questions = append(questions, seq[start:end]...)

	return &Page{
		Page:           page,
		Limit:          limit,
		TotalQuestions: total,
		TotalPages:     totalPages,
		Questions:      questions,
	}, nil
}

// RandomSample returns min(count, len(seq)) distinct questions drawn
// uniformly without replacement, using a partial Fisher-Yates shuffle over
// an index permutation. When count >= len(seq) the result is a uniform
// permutation of the whole sequence. The input is never reordered.
func RandomSample(seq []FlatQuestion, count int) []FlatQuestion {
	n := len(seq)
	if count > n {
		count = n
	}
	if count <= 0 {
		return []FlatQuestion{}
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	out := make([]FlatQuestion, 0, count)
	for i := 0; i < count; i++ {
		j := i + rand.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, seq[idx[i]])
	}
	return out
}

// Search returns, in input order, every question whose text contains query
// as a substring under Unicode case folding. The policy is explicit: an
// empty query matches every question, and no match yields an empty
// (non-nil) result.
func Search(seq []FlatQuestion, query string) []FlatQuestion {
	out := []FlatQuestion{}
	if query == "" {
		return append(out, seq...)
	}

	fold := cases.Fold()
	needle := fold.String(query)
	for _, q := range seq {
		if strings.Contains(fold.String(q.Text), needle) {
			out = append(out, q)
		}
	}
	return out
}
