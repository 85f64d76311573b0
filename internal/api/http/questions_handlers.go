package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/miskatonic/quiz-api/internal/auth/middleware"
	"github.com/miskatonic/quiz-api/internal/question"
)

// MaxSampleLimit caps the public random sample.
const MaxSampleLimit = 100

// GET /questions?limit=5&theme=...
func SampleQuestionsHandler(bank question.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 5)
		if limit > MaxSampleLimit {
			limit = MaxSampleLimit
		}
		qs, err := bank.Sample(r.Context(), limit, strings.TrimSpace(r.URL.Query().Get("theme")))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

// GET /questions/all?limit=200
func ListAllQuestionsHandler(svc *question.Service, maxLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxLimit <= 0 {
			maxLimit = question.DefaultListLimit
		}
		limit := parseIntDefault(r.URL.Query().Get("limit"), maxLimit)
		if limit > maxLimit {
			limit = maxLimit
		}
		qs, err := svc.Browse(r.Context(), authmw.SubjectFromContext(r.Context()), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

// createQuestionReq is a Question plus the older "choix" spelling of
// choices; "choices" wins when both are present.
type createQuestionReq struct {
	question.Question
	Choix []string `json:"choix"`
}

// POST /questions
func CreateQuestionHandler(svc *question.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createQuestionReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		q := req.Question
		if len(q.Choices) == 0 {
			q.Choices = req.Choix
		}
		if err := validateStruct(&q); err != nil {
			writeError(w, err)
			return
		}
		saved, err := svc.Add(r.Context(), authmw.SubjectFromContext(r.Context()), q)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message":  "question added",
			"question": saved,
		})
	}
}

// DELETE /questions?question=<exact text>
func DeleteQuestionByTextHandler(svc *question.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text := r.URL.Query().Get("question")
		if strings.TrimSpace(text) == "" {
			http.Error(w, "question parameter required", http.StatusBadRequest)
			return
		}
		n, err := svc.RemoveByText(r.Context(), authmw.SubjectFromContext(r.Context()), text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "question deleted", "deleted": n})
	}
}

// DELETE /questions/{questionID}
func DeleteQuestionByIDHandler(svc *question.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		if err := svc.RemoveByID(r.Context(), authmw.SubjectFromContext(r.Context()), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "question deleted", "deleted": 1})
	}
}

// GET /themes
func ThemesHandler(bank question.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, bank.DistinctThemes(r.Context()))
	}
}

// GET /tests
func TestsHandler(bank question.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, bank.DistinctCategories(r.Context()))
	}
}

// GET /themes_by_test/{test}
func ThemesByTestHandler(bank question.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, bank.DistinctThemesForCategory(r.Context(), chi.URLParam(r, "test")))
	}
}

// GET /tests_by_theme/{theme}
func TestsByThemeHandler(bank question.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, bank.DistinctCategoriesForTheme(r.Context(), chi.URLParam(r, "theme")))
	}
}
