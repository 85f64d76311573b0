package quiz

import (
	"time"

	"github.com/miskatonic/quiz-api/internal/question"
)

const (
	// MaxLabelLen bounds the stored session name and theme (runes).
	MaxLabelLen = 120
	// PreviewLen bounds the first-question preview in listings (runes).
	PreviewLen = 100
	// DefaultMaxItems is the listing size when the caller gives none.
	DefaultMaxItems = 50
)

// Session is an immutable snapshot of sampled questions. Questions are
// copies, not references into the bank.
type Session struct {
	ID             string              `json:"quiz_id"`
	Owner          string              `json:"user"`
	Name           string              `json:"name,omitempty"`
	Theme          string              `json:"theme,omitempty"`
	RequestedCount int                 `json:"limit"`
	CreatedAt      time.Time           `json:"created_at"`
	Questions      []question.Question `json:"questions"`
}

type Summary struct {
	ID             string    `json:"quiz_id"`
	Owner          string    `json:"user"`
	Name           string    `json:"name,omitempty"`
	Theme          string    `json:"theme,omitempty"`
	RequestedCount int       `json:"limit"`
	QuestionCount  int       `json:"question_count"`
	CreatedAt      time.Time `json:"created_at"`
	Preview        string    `json:"preview"`
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func summarize(s Session) Summary {
	sum := Summary{
		ID:             s.ID,
		Owner:          s.Owner,
		Name:           s.Name,
		Theme:          s.Theme,
		RequestedCount: s.RequestedCount,
		QuestionCount:  len(s.Questions),
		CreatedAt:      s.CreatedAt,
	}
	if len(s.Questions) > 0 {
		sum.Preview = truncateRunes(s.Questions[0].Text, PreviewLen)
	}
	return sum
}
