package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/miskatonic/quiz-api/internal/apperr"
	"github.com/miskatonic/quiz-api/internal/question"
	"github.com/miskatonic/quiz-api/internal/rbac"
)

// Sampler is the slice of the question bank the engine draws from.
type Sampler interface {
	Sample(ctx context.Context, count int, theme string) ([]question.Question, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, caller string, level rbac.Level) error
}

type Auditor interface {
	Record(ctx context.Context, typ, key, actor string, payload any)
}

// Engine owns the session lifecycle: NonExistent -> Created -> Deleted.
type Engine struct {
	store   Store
	sampler Sampler
	authz   Authorizer
	audit   Auditor
}

func NewEngine(store Store, sampler Sampler, authz Authorizer, audit Auditor) *Engine {
	return &Engine{store: store, sampler: sampler, authz: authz, audit: audit}
}

// CreateSession samples up to count questions and persists them as a new
// session. An empty sample is ErrFailed and nothing is stored. The allowed
// count policy is enforced by the HTTP layer, not here.
func (e *Engine) CreateSession(ctx context.Context, owner string, count int, name, theme string) (Session, error) {
	if err := e.authz.Authorize(ctx, owner, rbac.LevelInstructorOrAdmin); err != nil {
		return Session{}, err
	}
	qs, err := e.sampler.Sample(ctx, count, theme)
	if err != nil {
		return Session{}, fmt.Errorf("sample questions: %w", err)
	}
	if len(qs) == 0 {
		return Session{}, fmt.Errorf("no questions available for theme %q: %w", theme, apperr.ErrFailed)
	}

	sess, err := e.store.Create(ctx, Session{
		Owner:          owner,
		Name:           truncateRunes(name, MaxLabelLen),
		Theme:          truncateRunes(theme, MaxLabelLen),
		RequestedCount: count,
		Questions:      qs,
	})
	if err != nil {
		return Session{}, err
	}
	e.record(ctx, "SessionCreated", sess.ID, owner, map[string]any{
		"requested": count, "sampled": len(qs), "theme": sess.Theme,
	})
	return sess, nil
}

func (e *Engine) GetSession(ctx context.Context, id string) (Session, error) {
	return e.store.Get(ctx, id)
}

// DeleteSession allows the owner or any instructor/admin. A missing session
// reports false without error.
func (e *Engine) DeleteSession(ctx context.Context, id, requester string) (bool, error) {
	sess, err := e.store.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if sess.Owner != requester {
		if err := e.authz.Authorize(ctx, requester, rbac.LevelInstructorOrAdmin); err != nil {
			return false, err
		}
	}
	deleted, err := e.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		e.record(ctx, "SessionDeleted", id, requester, map[string]any{"owner": sess.Owner})
	}
	return deleted, nil
}

// ListSessions lists newest first. An empty ownerFilter spans all owners;
// whether that is permitted is the caller's decision.
func (e *Engine) ListSessions(ctx context.Context, ownerFilter string, maxItems int) ([]Summary, error) {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return e.store.List(ctx, ownerFilter, maxItems)
}

// ListSessionsFor applies the listing policy: instructors and admins see
// their own sessions, admins may ask for every owner with scopeAll.
func (e *Engine) ListSessionsFor(ctx context.Context, requester string, scopeAll bool, maxItems int) ([]Summary, error) {
	if err := e.authz.Authorize(ctx, requester, rbac.LevelInstructorOrAdmin); err != nil {
		return nil, err
	}
	owner := requester
	if scopeAll {
		err := e.authz.Authorize(ctx, requester, rbac.LevelAdminOnly)
		switch {
		case err == nil:
			owner = ""
		case !errors.Is(err, apperr.ErrDenied):
			return nil, err
		}
	}
	return e.ListSessions(ctx, owner, maxItems)
}

func (e *Engine) record(ctx context.Context, typ, key, actor string, payload any) {
	if e.audit != nil {
		e.audit.Record(ctx, typ, key, actor, payload)
	}
}
