package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/miskatonic/quiz-api/internal/apperr"
	authmw "github.com/miskatonic/quiz-api/internal/auth/middleware"
	"github.com/miskatonic/quiz-api/internal/users"
)

// Auditor records administrative actions. A nil Auditor is allowed.
type Auditor interface {
	Record(ctx context.Context, typ, key, actor string, payload any)
}

func recordEvent(ctx context.Context, a Auditor, typ, key, actor string, payload any) {
	if a != nil {
		a.Record(ctx, typ, key, actor, payload)
	}
}

// GET /users?role=student
func ListUsersHandler(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var role users.Role
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			parsed, err := users.ParseRole(raw)
			if err != nil {
				writeError(w, err)
				return
			}
			role = parsed
		}
		list, err := store.ListUsers(r.Context(), role)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// DELETE /users/{username}
func DeleteUserHandler(store users.Store, audit Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := users.CanonicalUsername(chi.URLParam(r, "username"))
		caller := authmw.SubjectFromContext(r.Context())
		if users.SameAccount(target, caller) {
			writeError(w, fmt.Errorf("cannot delete your own account: %w", apperr.ErrDenied))
			return
		}
		ok, err := store.DeleteUser(r.Context(), target)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		recordEvent(r.Context(), audit, "UserDeleted", target, caller, nil)
		writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
	}
}

type updateUserRoleReq struct {
	Role string `json:"role" validate:"required"`
}

// PUT /users/{username}/role
func AdminUpdateUserRoleHandler(store users.Store, audit Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := users.CanonicalUsername(chi.URLParam(r, "username"))
		caller := authmw.SubjectFromContext(r.Context())
		var req updateUserRoleReq
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		role, err := users.ParseRole(req.Role)
		if err != nil {
			writeError(w, err)
			return
		}
		if users.SameAccount(target, caller) {
			writeError(w, fmt.Errorf("cannot change your own role: %w", apperr.ErrDenied))
			return
		}
		ok, err := store.UpdateRole(r.Context(), target, role)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		recordEvent(r.Context(), audit, "UserRoleChanged", target, caller, map[string]string{"role": string(role)})
		writeJSON(w, http.StatusOK, map[string]string{"message": "role updated", "role": string(role)})
	}
}
