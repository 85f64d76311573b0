package rbac

import (
	"net/http"

	"github.com/miskatonic/quiz-api/internal/users"
)

var defaultChecker = NewChecker(nil)

// Require enforces a single permission against the role in the context.
func Require(perm string) func(http.Handler) http.Handler {
	return guard(func(c *Checker, role users.Role) bool { return c.Has(role, perm) })
}

// RequireLevel is the route-level twin of Authorizer.Authorize.
func RequireLevel(level Level) func(http.Handler) http.Handler {
	return guard(func(c *Checker, role users.Role) bool { return c.Meets(role, level) })
}

func guard(ok func(*Checker, users.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !ok(defaultChecker, role) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
