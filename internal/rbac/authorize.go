package rbac

import (
	"context"
	"fmt"

	"github.com/miskatonic/quiz-api/internal/apperr"
	"github.com/miskatonic/quiz-api/internal/users"
)

// Level is the privilege an operation requires. Roles are not totally
// ordered: instructor meets LevelInstructorOrAdmin only, admin meets both.
type Level string

const (
	LevelInstructorOrAdmin Level = "content:manage"
	LevelAdminOnly         Level = "users:manage"
)

// RoleLookup is the slice of the credential store the authorizer needs.
type RoleLookup interface {
	GetRole(ctx context.Context, username string) (users.Role, bool, error)
}

type Authorizer struct {
	roles   RoleLookup
	checker *Checker
}

func NewAuthorizer(roles RoleLookup, checker *Checker) *Authorizer {
	if checker == nil {
		checker = defaultChecker
	}
	return &Authorizer{roles: roles, checker: checker}
}

// Allows is the pure decision: does role meet level.
func (a *Authorizer) Allows(role users.Role, level Level) bool {
	if role == "" {
		return false
	}
	return a.checker.Meets(role, level)
}

// Authorize resolves the caller's role and checks it against level.
// A missing user or role is ErrDenied; store faults are returned as-is.
func (a *Authorizer) Authorize(ctx context.Context, caller string, level Level) error {
	role, ok, err := a.roles.GetRole(ctx, caller)
	if err != nil {
		return fmt.Errorf("resolve role for %q: %w", caller, err)
	}
	if !ok || !a.Allows(role, level) {
		return fmt.Errorf("%q requires %s: %w", caller, level, apperr.ErrDenied)
	}
	return nil
}
