// Package grading decides per-question correctness for multi-select answers.
package grading

import (
	"context"
	"fmt"
	"strings"

	"github.com/miskatonic/quiz-api/internal/apperr"
	"github.com/miskatonic/quiz-api/internal/question"
	"github.com/miskatonic/quiz-api/internal/quiz"
)

type QuestionFinder interface {
	FindByText(ctx context.Context, text string) (question.Question, error)
}

type SessionGetter interface {
	GetSession(ctx context.Context, id string) (quiz.Session, error)
}

type Verdict struct {
	Correct bool `json:"correct"`
}

// Validator compares submitted answers with a question's correct answers.
type Validator struct {
	bank     QuestionFinder
	sessions SessionGetter
}

func NewValidator(bank QuestionFinder, sessions SessionGetter) *Validator {
	return &Validator{bank: bank, sessions: sessions}
}

// CheckAnswer looks the question up by exact text in the live bank.
func (v *Validator) CheckAnswer(ctx context.Context, questionText string, submitted []string) (Verdict, error) {
	q, err := v.bank.FindByText(ctx, questionText)
	if err != nil {
		return Verdict{}, err
	}
	return Verdict{Correct: Correct(submitted, q.CorrectAnswers)}, nil
}

// CheckSessionAnswer resolves the question from a session snapshot, so a
// session can still be graded after the bank entry changed or vanished.
func (v *Validator) CheckSessionAnswer(ctx context.Context, sessionID, questionText string, submitted []string) (Verdict, error) {
	if strings.TrimSpace(sessionID) == "" {
		return v.CheckAnswer(ctx, questionText, submitted)
	}
	sess, err := v.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return Verdict{}, err
	}
	for _, q := range sess.Questions {
		if q.Text == questionText {
			return Verdict{Correct: Correct(submitted, q.CorrectAnswers)}, nil
		}
	}
	return Verdict{}, fmt.Errorf("question not in quiz session %s: %w", sessionID, apperr.ErrNotFound)
}

// Correct is set equality: order and duplicates are ignored, subsets and
// supersets are wrong.
func Correct(submitted, key []string) bool {
	return setEqual(toSet(submitted), toSet(key))
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
