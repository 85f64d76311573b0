package grading

import (
	"context"
	"errors"
	"testing"

	"github.com/miskatonic/quiz-api/internal/apperr"
	"github.com/miskatonic/quiz-api/internal/question"
	"github.com/miskatonic/quiz-api/internal/quiz"
)

type fakeBank map[string]question.Question

func (f fakeBank) FindByText(_ context.Context, text string) (question.Question, error) {
	q, ok := f[text]
	if !ok {
		return question.Question{}, apperr.ErrNotFound
	}
	return q, nil
}

type fakeSessions map[string]quiz.Session

func (f fakeSessions) GetSession(_ context.Context, id string) (quiz.Session, error) {
	s, ok := f[id]
	if !ok {
		return quiz.Session{}, apperr.ErrNotFound
	}
	return s, nil
}

func TestCorrect_SetEquality(t *testing.T) {
	key := []string{"A", "C"}
	cases := []struct {
		name string
		in   []string
		want bool
	}{
		{"exact", []string{"A", "C"}, true},
		{"reordered", []string{"C", "A"}, true},
		{"duplicates", []string{"A", "A", "C"}, true},
		{"subset", []string{"A"}, false},
		{"superset", []string{"A", "B", "C"}, false},
		{"disjoint", []string{"B", "D"}, false},
		{"empty", nil, false},
		{"case matters", []string{"a", "c"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Correct(c.in, key); got != c.want {
				t.Fatalf("Correct(%v, %v) = %v, want %v", c.in, key, got, c.want)
			}
		})
	}
}

func TestCheckAnswer(t *testing.T) {
	v := NewValidator(fakeBank{
		"Primes?": {Text: "Primes?", Choices: []string{"A", "B", "C"}, CorrectAnswers: []string{"A", "C"}},
	}, fakeSessions{})
	ctx := context.Background()

	got, err := v.CheckAnswer(ctx, "Primes?", []string{"C", "A"})
	if err != nil || !got.Correct {
		t.Fatalf("got %+v err=%v; want correct", got, err)
	}
	got, err = v.CheckAnswer(ctx, "Primes?", []string{"A"})
	if err != nil || got.Correct {
		t.Fatalf("got %+v err=%v; want incorrect", got, err)
	}
	if _, err := v.CheckAnswer(ctx, "Unknown?", []string{"A"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCheckSessionAnswer_UsesSnapshot(t *testing.T) {
	snap := question.Question{Text: "Old?", Choices: []string{"x", "y"}, CorrectAnswers: []string{"y"}}
	v := NewValidator(fakeBank{}, fakeSessions{"s1": {ID: "s1", Questions: []question.Question{snap}}})
	ctx := context.Background()

	got, err := v.CheckSessionAnswer(ctx, "s1", "Old?", []string{"y"})
	if err != nil || !got.Correct {
		t.Fatalf("got %+v err=%v; want correct from snapshot", got, err)
	}
	if _, err := v.CheckSessionAnswer(ctx, "s1", "Other?", []string{"y"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := v.CheckSessionAnswer(ctx, "missing", "Old?", []string{"y"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	// no session id falls back to the live bank
	if _, err := v.CheckSessionAnswer(ctx, "", "Old?", []string{"y"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound from bank", err)
	}
}
