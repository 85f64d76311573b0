package rbac

import "github.com/miskatonic/quiz-api/internal/users"

// Route permissions. Instructors hold them through "question:*" and
// "session:*"; the admin wildcard covers everything.
const (
	PermQuestionList   = "question:list"
	PermQuestionCreate = "question:create"
	PermQuestionDelete = "question:delete"
	PermSessionCreate  = "session:create"
	PermSessionList    = "session:list"
	PermChangePassword = "user:change_password"
)

// RolePermissions is the default policy. The authorization levels are
// permissions too: instructors hold LevelInstructorOrAdmin, only the admin
// wildcard covers LevelAdminOnly.
var RolePermissions = map[users.Role][]string{
	users.RoleStudent: {
		PermChangePassword,
	},
	users.RoleInstructor: {
		string(LevelInstructorOrAdmin),
		"question:*",
		"session:*",
		PermChangePassword,
	},
	users.RoleAdmin: {
		"*",
	},
}
