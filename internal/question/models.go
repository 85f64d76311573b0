package question

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/miskatonic/quiz-api/internal/apperr"
)

const (
	DefaultTheme    = "General"
	DefaultCategory = "Quiz"

	// DefaultListLimit caps the unsampled admin listing.
	DefaultListLimit = 200
)

// Question is a bank entry. Text is the legacy identity (delete/check by
// exact text); ID is the surrogate key assigned on insert.
type Question struct {
	ID             string   `json:"id"`
	Text           string   `json:"question" validate:"required"`
	Theme          string   `json:"theme"`
	Category       string   `json:"test"`
	Choices        []string `json:"choices" validate:"required,min=1,dive,required"`
	CorrectAnswers []string `json:"correct" validate:"required,min=1,dive,required"`
	CreatedBy      string   `json:"created_by,omitempty"`
	CreatedAt      int64    `json:"created_at,omitempty"`
}

var validate = validator.New()

// Normalize validates q and fills in the default theme and category.
// Every correct answer must be one of the choices.
func Normalize(q Question) (Question, error) {
	if strings.TrimSpace(q.Text) == "" {
		q.Text = ""
	}
	if err := validate.Struct(q); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return Question{}, fmt.Errorf("field %s failed %q: %w", ve[0].Field(), ve[0].Tag(), apperr.ErrInvalid)
		}
		return Question{}, fmt.Errorf("%v: %w", err, apperr.ErrInvalid)
	}

	choices := make(map[string]struct{}, len(q.Choices))
	for _, c := range q.Choices {
		choices[c] = struct{}{}
	}
	for _, c := range q.CorrectAnswers {
		if _, ok := choices[c]; !ok {
			return Question{}, fmt.Errorf("correct answer %q is not a choice: %w", c, apperr.ErrInvalid)
		}
	}

	if strings.TrimSpace(q.Theme) == "" {
		q.Theme = DefaultTheme
	}
	if strings.TrimSpace(q.Category) == "" {
		q.Category = DefaultCategory
	}
	return q, nil
}
