package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nabd-labs/quiz-api/internal/corpus"
	"github.com/nabd-labs/quiz-api/internal/server"
)

const testDocument = `{
  "version": 1,
  "mainCategories": [
    {
      "id": 1,
      "arabicName": "العقيدة",
      "englishName": "Aqeedah",
      "topics": [
        {
          "name": "التوحيد",
          "slug": "tawheed",
          "levelsData": {
            "level1": [
              {"id": 1, "q": "first question", "answers": [{"answer": "yes", "t": true}]},
              {"id": 2, "q": "second question", "answers": [{"answer": "no", "t": false}]}
            ],
            "level2": [
              {"id": 1, "q": "third question", "answers": []}
            ],
            "level3": []
          }
        }
      ]
    },
    {
      "id": 2,
      "arabicName": "الفقه",
      "englishName": "Fiqh",
      "topics": [
        {
          "name": "الطهارة",
          "slug": "taharah",
          "levelsData": {
            "level1": [
              {"id": 1, "q": "fourth question", "answers": []}
            ],
            "level2": [],
            "level3": []
          }
        }
      ]
    }
  ]
}`

func testHandler(t *testing.T, document string) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.json")
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return server.New(corpus.NewStore(path), nil).Routes()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	h := testHandler(t, testDocument)

	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("/healthz status = %d, want 200", rec.Code)
	}
	if rec := get(t, h, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("/readyz status = %d, want 200", rec.Code)
	}
}

func TestReadyz_MissingDocument(t *testing.T) {
	h := server.New(corpus.NewStore(filepath.Join(t.TempDir(), "absent.json")), nil).Routes()

	if rec := get(t, h, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/readyz status = %d, want 503 for missing document", rec.Code)
	}
}

func TestCategories(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/categories")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	cats := decode[[]corpus.CategorySummary](t, rec)
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	if cats[0].EnglishName != "Aqeedah" || len(cats[0].Topics) != 1 {
		t.Errorf("cats[0] = %+v, want Aqeedah with one topic summary", cats[0])
	}
}

func TestCategoryTopics(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/categories/2/topics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	topics := decode[[]corpus.TopicSummary](t, rec)
	if len(topics) != 1 || topics[0].Slug != "taharah" {
		t.Errorf("topics = %+v, want single taharah summary", topics)
	}
}

func TestCategoryTopics_UnknownCategory(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/categories/99/topics")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	body := decode[map[string]string](t, rec)
	if body["error"] != "category not found: 99" {
		t.Errorf("error = %q, want the missing id in the message", body["error"])
	}
}

func TestQuestions_Paginated(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/questions?page=1&limit=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	page := decode[corpus.Page](t, rec)
	if page.TotalQuestions != 4 || page.TotalPages != 2 {
		t.Errorf("totals = (%d, %d), want (4, 2)", page.TotalQuestions, page.TotalPages)
	}
	if len(page.Questions) != 3 {
		t.Fatalf("page has %d questions, want 3", len(page.Questions))
	}
	if page.Questions[0].GlobalID != 1 || page.Questions[0].Text != "first question" {
		t.Errorf("first question = %+v, want global id 1", page.Questions[0])
	}
}

func TestQuestions_PageOutOfRange(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/questions?page=9&limit=3")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	body := decode[map[string]any](t, rec)
	if body["totalQuestions"] != float64(4) || body["totalPages"] != float64(2) {
		t.Errorf("body = %v, want diagnostic totals 4 and 2", body)
	}
}

func TestQuestions_NonNumericPage(t *testing.T) {
	h := testHandler(t, testDocument)

	if rec := get(t, h, "/api/questions?page=abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-numeric page", rec.Code)
	}
}

func TestQuestions_EmptyStoreFirstPage(t *testing.T) {
	h := testHandler(t, `{"version": 1, "mainCategories": []}`)

	rec := get(t, h, "/api/questions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for page 1 of an empty store", rec.Code)
	}

	page := decode[corpus.Page](t, rec)
	if page.TotalPages != 0 || len(page.Questions) != 0 {
		t.Errorf("page = %+v, want zero pages and no questions", page)
	}
}

func TestCategoryQuestions_Scoped(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/categories/2/questions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	page := decode[corpus.Page](t, rec)
	if page.TotalQuestions != 1 {
		t.Fatalf("TotalQuestions = %d, want 1", page.TotalQuestions)
	}
	if page.Questions[0].GlobalID != 1 || page.Questions[0].Category != "الفقه" {
		t.Errorf("scoped question = %+v, want id restarting at 1 in category 2", page.Questions[0])
	}
}

func TestTopicQuestions(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/categories/1/topics/tawheed/questions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	questions := decode[[]corpus.FlatQuestion](t, rec)
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(questions))
	}
	for i, q := range questions {
		if q.GlobalID != i+1 {
			t.Errorf("questions[%d].GlobalID = %d, want %d", i, q.GlobalID, i+1)
		}
	}
}

func TestTopicQuestions_UnknownSlug(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/categories/1/topics/nope/questions")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	body := decode[map[string]string](t, rec)
	if body["error"] != "topic not found: nope" {
		t.Errorf("error = %q, want the missing slug in the message", body["error"])
	}
}

func TestRandomQuestions(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/questions/random?count=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	questions := decode[[]corpus.FlatQuestion](t, rec)
	if len(questions) != 2 {
		t.Errorf("got %d questions, want 2", len(questions))
	}
}

func TestRandomQuestions_CountExceedsTotal(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/questions/random?count=100")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if questions := decode[[]corpus.FlatQuestion](t, rec); len(questions) != 4 {
		t.Errorf("got %d questions, want the whole store (4)", len(questions))
	}
}

func TestSearch(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/search?q=first")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if questions := decode[[]corpus.FlatQuestion](t, rec); len(questions) != 1 {
		t.Errorf("got %d matches, want 1", len(questions))
	}
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/search")
	if questions := decode[[]corpus.FlatQuestion](t, rec); len(questions) != 4 {
		t.Errorf("got %d questions for empty query, want all 4", len(questions))
	}
}

func TestUnknownPath(t *testing.T) {
	h := testHandler(t, testDocument)

	rec := get(t, h, "/api/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	body := decode[map[string]any](t, rec)
	if body["path"] != "/api/nope" {
		t.Errorf("body = %v, want the requested path echoed back", body)
	}
}

func TestCorruptDocument_Returns500(t *testing.T) {
	h := testHandler(t, "not json")

	rec := get(t, h, "/api/questions")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	body := decode[map[string]string](t, rec)
	if body["error"] != "content unavailable" {
		t.Errorf("error = %q, want generic message without internals", body["error"])
	}
}
