package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authmw "github.com/miskatonic/quiz-api/internal/auth/middleware"
	"github.com/miskatonic/quiz-api/internal/grading"
	"github.com/miskatonic/quiz-api/internal/question"
	"github.com/miskatonic/quiz-api/internal/quiz"
	"github.com/miskatonic/quiz-api/internal/rbac"
	syncx "github.com/miskatonic/quiz-api/internal/sync"
	"github.com/miskatonic/quiz-api/internal/users"
)

// Deps is everything the router mounts handlers on.
type Deps struct {
	Auth      *authmw.AuthService
	Users     users.Store
	Questions *question.Service
	Quizzes   *quiz.Engine
	Answers   *grading.Validator
	Events    *syncx.EventRepo

	AllowQuizSize  func(int) bool
	AdminListLimit int
	CORSOrigins    []string
	RequestTimeout time.Duration
	Ready          []Pinger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	var audit Auditor
	if d.Events != nil {
		audit = d.Events
	}
	bank := d.Questions.Bank()

	// Public
	r.Post("/register", RegisterHandler(d.Users))
	r.Post("/login", authmw.LoginHandler(d.Auth, d.Users))
	r.Get("/questions", SampleQuestionsHandler(bank))
	r.Get("/themes", ThemesHandler(bank))
	r.Get("/tests", TestsHandler(bank))
	r.Get("/themes_by_test/{test}", ThemesByTestHandler(bank))
	r.Get("/tests_by_theme/{theme}", TestsByThemeHandler(bank))
	r.Get("/quiz/{quizID}", GetQuizHandler(d.Quizzes))
	r.Post("/answer", AnswerHandler(d.Answers))
	r.Get("/healthz", HealthHandler())
	r.Get("/readyz", ReadyHandler(d.Ready...))

	// Protected (JWT -> role from store -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))
		pr.Use(authmw.AttachRoleFromStore(d.Users))

		pr.Get("/me", MeHandler(d.Users))
		pr.With(rbac.Require(rbac.PermChangePassword)).
			Post("/me/password", ChangePasswordHandler(d.Users))

		// Owners may delete their own sessions; the engine checks the rest.
		pr.Delete("/quiz/{quizID}", DeleteQuizHandler(d.Quizzes))

		// Content routes; the services re-check LevelInstructorOrAdmin.
		pr.With(rbac.Require(rbac.PermQuestionList)).
			Get("/questions/all", ListAllQuestionsHandler(d.Questions, d.AdminListLimit))
		pr.With(rbac.Require(rbac.PermQuestionCreate)).
			Post("/questions", CreateQuestionHandler(d.Questions))
		pr.With(rbac.Require(rbac.PermQuestionDelete)).
			Delete("/questions", DeleteQuestionByTextHandler(d.Questions))
		pr.With(rbac.Require(rbac.PermQuestionDelete)).
			Delete("/questions/{questionID}", DeleteQuestionByIDHandler(d.Questions))
		pr.With(rbac.Require(rbac.PermSessionCreate)).
			Post("/quiz/create", CreateQuizHandler(d.Quizzes, d.AllowQuizSize))
		pr.With(rbac.Require(rbac.PermSessionList)).
			Get("/quiz", ListQuizzesHandler(d.Quizzes))

		pr.Group(func(ar chi.Router) {
			ar.Use(rbac.RequireLevel(rbac.LevelAdminOnly))
			ar.Get("/users", ListUsersHandler(d.Users))
			ar.Delete("/users/{username}", DeleteUserHandler(d.Users, audit))
			ar.Put("/users/{username}/role", AdminUpdateUserRoleHandler(d.Users, audit))
			ar.Put("/users/{username}/password", AdminResetPasswordHandler(d.Users, audit))
			if d.Events != nil {
				ar.Get("/audit", AuditHandler(d.Events))
			}
		})
	})
	return r
}
