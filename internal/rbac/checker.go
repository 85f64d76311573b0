package rbac

import (
	"context"
	"strings"

	"github.com/miskatonic/quiz-api/internal/users"
)

// grants is one role's compiled permission list: exact names plus
// "prefix:*" patterns. A bare "*" grants everything.
type grants struct {
	all      bool
	exact    map[string]struct{}
	prefixes []string
}

func compile(perms []string) grants {
	g := grants{exact: make(map[string]struct{}, len(perms))}
	for _, p := range perms {
		switch {
		case p == "*":
			g.all = true
		case strings.HasSuffix(p, "*"):
			g.prefixes = append(g.prefixes, strings.TrimSuffix(p, "*"))
		default:
			g.exact[p] = struct{}{}
		}
	}
	return g
}

func (g grants) allows(perm string) bool {
	if g.all {
		return true
	}
	if _, ok := g.exact[perm]; ok {
		return true
	}
	for _, pre := range g.prefixes {
		if strings.HasPrefix(perm, pre) {
			return true
		}
	}
	return false
}

// Checker answers permission questions for the closed set of roles.
// Roles missing from the policy have no permissions.
type Checker struct {
	byRole map[users.Role]grants
}

func NewChecker(policy map[users.Role][]string) *Checker {
	if policy == nil {
		policy = RolePermissions
	}
	c := &Checker{byRole: make(map[users.Role]grants, len(policy))}
	for role, perms := range policy {
		c.byRole[role] = compile(perms)
	}
	return c
}

func (c *Checker) Has(role users.Role, perm string) bool {
	g, ok := c.byRole[role]
	return ok && g.allows(perm)
}

// Meets reports whether role satisfies an authorization level.
func (c *Checker) Meets(role users.Role, level Level) bool {
	return c.Has(role, string(level))
}

type roleKey struct{}

// WithRole attaches the caller's store-resolved role to the request context.
func WithRole(ctx context.Context, role users.Role) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) users.Role {
	r, _ := ctx.Value(roleKey{}).(users.Role)
	return r
}
