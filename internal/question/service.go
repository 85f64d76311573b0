package question

import (
	"context"
	"fmt"

	"github.com/miskatonic/quiz-api/internal/apperr"
	"github.com/miskatonic/quiz-api/internal/rbac"
)

// Authorizer is satisfied by *rbac.Authorizer.
type Authorizer interface {
	Authorize(ctx context.Context, caller string, level rbac.Level) error
}

// Auditor records mutations; failures never reach the caller.
type Auditor interface {
	Record(ctx context.Context, typ, key, actor string, payload any)
}

// Service gates the privileged bank operations behind access control.
// Public reads (sampling, enumerations) go straight to the Bank.
type Service struct {
	bank  Bank
	authz Authorizer
	audit Auditor
}

func NewService(bank Bank, authz Authorizer, audit Auditor) *Service {
	return &Service{bank: bank, authz: authz, audit: audit}
}

func (s *Service) Bank() Bank { return s.bank }

func (s *Service) Add(ctx context.Context, caller string, q Question) (Question, error) {
	if err := s.authz.Authorize(ctx, caller, rbac.LevelInstructorOrAdmin); err != nil {
		return Question{}, err
	}
	q.CreatedBy = caller
	saved, err := s.bank.Insert(ctx, q)
	if err != nil {
		return Question{}, err
	}
	s.record(ctx, "QuestionAdded", saved.ID, caller, map[string]any{"question": saved.Text, "theme": saved.Theme})
	return saved, nil
}

// RemoveByText deletes every question with exactly this text. Zero matches
// is ErrNotFound here since the caller asked for something specific.
func (s *Service) RemoveByText(ctx context.Context, caller, text string) (int64, error) {
	if err := s.authz.Authorize(ctx, caller, rbac.LevelInstructorOrAdmin); err != nil {
		return 0, err
	}
	n, err := s.bank.DeleteByText(ctx, text)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("question: %w", apperr.ErrNotFound)
	}
	s.record(ctx, "QuestionDeleted", text, caller, map[string]any{"deleted": n})
	return n, nil
}

func (s *Service) RemoveByID(ctx context.Context, caller, id string) error {
	if err := s.authz.Authorize(ctx, caller, rbac.LevelInstructorOrAdmin); err != nil {
		return err
	}
	ok, err := s.bank.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("question %s: %w", id, apperr.ErrNotFound)
	}
	s.record(ctx, "QuestionDeleted", id, caller, map[string]any{"deleted": 1})
	return nil
}

// Browse is the unsampled admin listing.
func (s *Service) Browse(ctx context.Context, caller string, limit int) ([]Question, error) {
	if err := s.authz.Authorize(ctx, caller, rbac.LevelInstructorOrAdmin); err != nil {
		return nil, err
	}
	return s.bank.ListAll(ctx, limit)
}

func (s *Service) record(ctx context.Context, typ, key, actor string, payload any) {
	if s.audit != nil {
		s.audit.Record(ctx, typ, key, actor, payload)
	}
}
