package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/miskatonic/quiz-api/internal/auth/middleware"
	"github.com/miskatonic/quiz-api/internal/users"
)

type changePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// POST /me/password
func ChangePasswordHandler(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := authmw.SubjectFromContext(r.Context())
		if username == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req changePasswordReq
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		_, ok, err := store.Authenticate(r.Context(), username, req.OldPassword)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			http.Error(w, "incorrect old password", http.StatusForbidden)
			return
		}
		if _, err := store.UpdatePassword(r.Context(), username, req.NewPassword); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type resetPasswordReq struct {
	NewPassword string `json:"new_password" validate:"required"`
}

// PUT /users/{username}/password
func AdminResetPasswordHandler(store users.Store, audit Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := users.CanonicalUsername(chi.URLParam(r, "username"))
		var req resetPasswordReq
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		ok, err := store.UpdatePassword(r.Context(), target, req.NewPassword)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		recordEvent(r.Context(), audit, "UserPasswordReset", target, authmw.SubjectFromContext(r.Context()), nil)
		w.WriteHeader(http.StatusNoContent)
	}
}
