package auth

import (
	"log"
	"net/http"

	"github.com/miskatonic/quiz-api/internal/rbac"
)

// AttachRoleFromStore resolves the subject's role from the credential store
// on every request, so role changes and deletions apply immediately. The
// role claim in the token is ignored.
func AttachRoleFromStore(roles rbac.RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := SubjectFromContext(ctx)
			if sub == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			role, ok, err := roles.GetRole(ctx, sub)
			if err != nil {
				log.Printf("auth: resolve role for %q: %v", sub, err)
				http.Error(w, "role lookup failed", http.StatusInternalServerError)
				return
			}
			if !ok {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
		})
	}
}
