package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	api "github.com/miskatonic/quiz-api/internal/api/http"
	auth "github.com/miskatonic/quiz-api/internal/auth/middleware"
	"github.com/miskatonic/quiz-api/internal/auth/password"
	"github.com/miskatonic/quiz-api/internal/config"
	"github.com/miskatonic/quiz-api/internal/db"
	"github.com/miskatonic/quiz-api/internal/grading"
	"github.com/miskatonic/quiz-api/internal/question"
	"github.com/miskatonic/quiz-api/internal/quiz"
	"github.com/miskatonic/quiz-api/internal/rbac"
	syncx "github.com/miskatonic/quiz-api/internal/sync"
	"github.com/miskatonic/quiz-api/internal/users"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("dotenv: %v", err)
	}
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll("data", 0o755); err != nil {
		log.Fatalf("data dir: %v", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersDriver, err := db.ParseDriver(cfg.UsersDBDriver)
	if err != nil {
		log.Fatal(err)
	}
	contentDriver, err := db.ParseDriver(cfg.DBDriver)
	if err != nil {
		log.Fatal(err)
	}
	accounts, err := db.Open(ctx, usersDriver, cfg.UsersDBDSN, db.SchemaAccounts)
	if err != nil {
		log.Fatalf("accounts db: %v", err)
	}
	defer accounts.Close()
	content, err := db.Open(ctx, contentDriver, cfg.DBDSN, db.SchemaContent)
	if err != nil {
		log.Fatalf("content db: %v", err)
	}
	defer content.Close()

	// --- Domain ---
	userStore := users.NewSQLStore(accounts, password.NewBcrypt(cfg.BcryptCost))
	bootstrapAdmin(ctx, userStore, cfg)

	authz := rbac.NewAuthorizer(userStore, nil)
	events := syncx.NewEventRepo(content)
	bank := question.NewSQLStore(content)
	engine := quiz.NewEngine(quiz.NewSQLStore(content), bank, authz, events)

	handler := api.NewRouter(api.Deps{
		Auth:           auth.NewAuthService(cfg.AuthHMACSecret, cfg.TokenTTL),
		Users:          userStore,
		Questions:      question.NewService(bank, authz, events),
		Quizzes:        engine,
		Answers:        grading.NewValidator(bank, engine),
		Events:         events,
		AllowQuizSize:  cfg.AllowsQuizSize,
		AdminListLimit: cfg.AdminListLimit,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Ready:          []api.Pinger{accounts, content},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s (mode=%s, db=%s, users_db=%s)", cfg.HTTPAddr, cfg.Mode, contentDriver, usersDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// bootstrapAdmin creates the configured admin account on first start.
func bootstrapAdmin(ctx context.Context, store *users.SQLStore, cfg config.Config) {
	if cfg.AdminPassHash == "" {
		return
	}
	if !password.IsHash(cfg.AdminPassHash) {
		log.Printf("admin bootstrap: ADMIN_PASS_HASH is not a bcrypt hash, skipping")
		return
	}
	exists, err := store.Exists(ctx, cfg.AdminUser)
	if err != nil {
		log.Printf("admin bootstrap: %v", err)
		return
	}
	if exists {
		return
	}
	if _, err := store.CreateUserWithHash(ctx, cfg.AdminUser, cfg.AdminPassHash, users.RoleAdmin); err != nil {
		log.Printf("admin bootstrap: %v", err)
		return
	}
	log.Printf("admin bootstrap: created %q", cfg.AdminUser)
}
