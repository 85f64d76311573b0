package http

import (
	"fmt"
	"net/http"
	"strings"

	authmw "github.com/miskatonic/quiz-api/internal/auth/middleware"
	"github.com/miskatonic/quiz-api/internal/users"
)

type registerReq struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

// RegisterHandler creates an account. The role defaults to instructor.
func RegisterHandler(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if strings.TrimSpace(req.Role) == "" {
			req.Role = string(users.RoleInstructor)
		}
		role, err := users.ParseRole(req.Role)
		if err != nil {
			writeError(w, err)
			return
		}
		ok, err := store.CreateUser(r.Context(), req.Username, req.Password, role)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			http.Error(w, "username already taken", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"message": fmt.Sprintf("account created (role: %s)", role),
		})
	}
}

// MeHandler echoes the caller's identity as resolved from the store.
func MeHandler(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		role, ok, err := store.GetRole(r.Context(), sub)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, users.User{Username: sub, Role: role})
	}
}
