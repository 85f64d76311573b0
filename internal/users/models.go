package users

import (
	"fmt"
	"strings"

	"github.com/miskatonic/quiz-api/internal/apperr"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// ParseRole accepts the canonical role names plus the legacy aliases
// still sent by older clients (etudiant, prof, teacher).
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student", "etudiant":
		return RoleStudent, nil
	case "instructor", "prof", "teacher":
		return RoleInstructor, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("role %q: %w", s, apperr.ErrInvalid)
	}
}

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleInstructor || r == RoleAdmin
}

type User struct {
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	CreatedAt int64  `json:"created_at,omitempty"`
}
