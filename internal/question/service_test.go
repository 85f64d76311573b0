package question

import (
	"context"
	"errors"
	"testing"

	"github.com/miskatonic/quiz-api/internal/apperr"
	"github.com/miskatonic/quiz-api/internal/rbac"
)

type fakeAuthz map[string]bool // caller -> is instructor/admin

func (f fakeAuthz) Authorize(_ context.Context, caller string, _ rbac.Level) error {
	if f[caller] {
		return nil
	}
	return apperr.ErrDenied
}

type memBank struct {
	Bank
	items []Question
}

func (m *memBank) Insert(_ context.Context, q Question) (Question, error) {
	q, err := Normalize(q)
	if err != nil {
		return Question{}, err
	}
	q.ID = "q-1"
	m.items = append(m.items, q)
	return q, nil
}

func (m *memBank) DeleteByText(_ context.Context, text string) (int64, error) {
	var n int64
	kept := m.items[:0]
	for _, q := range m.items {
		if q.Text == text {
			n++
			continue
		}
		kept = append(kept, q)
	}
	m.items = kept
	return n, nil
}

func (m *memBank) DeleteByID(_ context.Context, id string) (bool, error) {
	for i, q := range m.items {
		if q.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memBank) ListAll(_ context.Context, _ int) ([]Question, error) { return m.items, nil }

type recAudit struct{ types []string }

func (r *recAudit) Record(_ context.Context, typ, _, _ string, _ any) { r.types = append(r.types, typ) }

func TestService_AddRequiresInstructorOrAdmin(t *testing.T) {
	bank := &memBank{}
	audit := &recAudit{}
	svc := NewService(bank, fakeAuthz{"bob": true}, audit)
	q := Question{Text: "Q", Choices: []string{"a"}, CorrectAnswers: []string{"a"}}

	if _, err := svc.Add(context.Background(), "alice", q); !errors.Is(err, apperr.ErrDenied) {
		t.Fatalf("student add: err = %v, want ErrDenied", err)
	}
	if len(bank.items) != 0 {
		t.Fatalf("denied add must not touch the bank")
	}
	saved, err := svc.Add(context.Background(), "bob", q)
	if err != nil {
		t.Fatal(err)
	}
	if saved.CreatedBy != "bob" {
		t.Fatalf("created_by = %q, want bob", saved.CreatedBy)
	}
	if len(audit.types) != 1 || audit.types[0] != "QuestionAdded" {
		t.Fatalf("audit = %v", audit.types)
	}
}

func TestService_RemoveByText(t *testing.T) {
	bank := &memBank{items: []Question{{ID: "1", Text: "x"}, {ID: "2", Text: "x"}}}
	svc := NewService(bank, fakeAuthz{"bob": true}, nil)

	if _, err := svc.RemoveByText(context.Background(), "alice", "x"); !errors.Is(err, apperr.ErrDenied) {
		t.Fatalf("err = %v, want ErrDenied", err)
	}
	n, err := svc.RemoveByText(context.Background(), "bob", "x")
	if err != nil || n != 2 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if _, err := svc.RemoveByText(context.Background(), "bob", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestService_RemoveByIDAndBrowse(t *testing.T) {
	bank := &memBank{items: []Question{{ID: "1", Text: "x"}}}
	svc := NewService(bank, fakeAuthz{"root": true}, nil)

	if _, err := svc.Browse(context.Background(), "alice", 10); !errors.Is(err, apperr.ErrDenied) {
		t.Fatalf("browse err = %v, want ErrDenied", err)
	}
	if got, err := svc.Browse(context.Background(), "root", 10); err != nil || len(got) != 1 {
		t.Fatalf("browse = %v, %v", got, err)
	}
	if err := svc.RemoveByID(context.Background(), "root", "1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RemoveByID(context.Background(), "root", "1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
