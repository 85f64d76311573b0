package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/miskatonic/quiz-api/internal/apperr"
	authmw "github.com/miskatonic/quiz-api/internal/auth/middleware"
	"github.com/miskatonic/quiz-api/internal/grading"
	"github.com/miskatonic/quiz-api/internal/quiz"
)

type createQuizReq struct {
	Limit int    `json:"limit" validate:"required,gt=0"`
	Name  string `json:"name"`
	Theme string `json:"theme"`
}

// POST /quiz/create  { "limit": 5|10, "name": "...", "theme": "..." }
func CreateQuizHandler(eng *quiz.Engine, allowed func(int) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createQuizReq
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if allowed != nil && !allowed(req.Limit) {
			writeError(w, fmt.Errorf("quiz size %d not allowed: %w", req.Limit, apperr.ErrInvalid))
			return
		}
		sess, err := eng.CreateSession(r.Context(), authmw.SubjectFromContext(r.Context()),
			req.Limit, strings.TrimSpace(req.Name), strings.TrimSpace(req.Theme))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"quiz_id":   sess.ID,
			"name":      sess.Name,
			"theme":     sess.Theme,
			"limit":     sess.RequestedCount,
			"questions": sess.Questions,
		})
	}
}

// GET /quiz/{quizID}
func GetQuizHandler(eng *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := eng.GetSession(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// DELETE /quiz/{quizID}
func DeleteQuizHandler(eng *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		if _, err := eng.GetSession(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		ok, err := eng.DeleteSession(r.Context(), id, authmw.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "quiz deleted", "deleted": true})
	}
}

// GET /quiz?max_items=50&scope=all
func ListQuizzesHandler(eng *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxItems := parseIntDefault(r.URL.Query().Get("max_items"), quiz.DefaultMaxItems)
		scopeAll := strings.EqualFold(r.URL.Query().Get("scope"), "all")
		items, err := eng.ListSessionsFor(r.Context(), authmw.SubjectFromContext(r.Context()), scopeAll, maxItems)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
	}
}

type answerReq struct {
	QuizID   string   `json:"quiz_id"`
	Question string   `json:"question" validate:"required"`
	Answers  []string `json:"answers"`
	Legacy   []string `json:"reponse"`
}

// POST /answer  { "question": "...", "answers": [...], "quiz_id": "..." }
// "reponse" is accepted for older clients.
func AnswerHandler(v *grading.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req answerReq
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		submitted := req.Answers
		if submitted == nil {
			submitted = req.Legacy
		}
		verdict, err := v.CheckSessionAnswer(r.Context(), req.QuizID, req.Question, submitted)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, verdict)
	}
}
