package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mode selects deployment defaults. Offline (local/dev) falls back to a
// development signing key; online refuses to start without real secrets.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	// Document store: questions, quiz sessions, audit log.
	DBDriver string
	DBDSN    string

	// Relational store: accounts. Defaults to a separate SQLite file.
	UsersDBDriver string
	UsersDBDSN    string

	AuthHMACSecret string
	TokenTTL       time.Duration
	BcryptCost     int

	AdminUser     string
	AdminPassHash string // bcrypt; empty disables the bootstrap

	CORSOrigins []string

	// QuizSizes is the set of question counts accepted by /quiz/create.
	QuizSizes      []int
	AdminListLimit int
	RequestTimeout time.Duration
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:           mode,
		HTTPAddr:       envOr("HTTP_ADDR", ":8000"),
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		UsersDBDriver:  envOr("USERS_DB_DRIVER", "sqlite"),
		UsersDBDSN:     envOr("USERS_DB_DSN", ""),
		AuthHMACSecret: secretFor(mode),
		TokenTTL:       envDuration("TOKEN_TTL", 8*time.Hour),
		BcryptCost:     envInt("BCRYPT_COST", 12),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  os.Getenv("ADMIN_PASS_HASH"),
		CORSOrigins:    csvOr("CORS_ORIGINS", "*"),
		QuizSizes:      intsOr("QUIZ_SIZES", []int{5, 10}),
		AdminListLimit: envInt("ADMIN_LIST_LIMIT", 200),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

// DevHMACSecret signs tokens in offline mode when AUTH_HMAC_SECRET is unset.
const DevHMACSecret = "supersecret-dev-key"

func secretFor(mode Mode) string {
	if v := os.Getenv("AUTH_HMAC_SECRET"); v != "" {
		return v
	}
	if mode == ModeOffline {
		return DevHMACSecret
	}
	return ""
}

// Validate rejects configurations that are unsafe for the selected mode.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeOffline:
		return nil
	case ModeOnline:
		if c.AuthHMACSecret == "" || c.AuthHMACSecret == DevHMACSecret {
			return errors.New("config: AUTH_HMAC_SECRET is required in online mode")
		}
		for _, o := range c.CORSOrigins {
			if o == "*" {
				return errors.New("config: CORS_ORIGINS must list explicit origins in online mode")
			}
		}
		return nil
	default:
		return errors.New("config: unknown MODE " + string(c.Mode))
	}
}

// AllowsQuizSize reports whether n is one of the configured quiz sizes.
func (c Config) AllowsQuizSize(n int) bool {
	for _, s := range c.QuizSizes {
		if s == n {
			return true
		}
	}
	return false
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k))); err == nil && v > 0 {
		return v
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k))); err == nil && d > 0 {
		return d
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intsOr(k string, def []int) []int {
	raw := os.Getenv(k)
	if raw == "" {
		return def
	}
	var out []int
	for _, p := range strings.Split(raw, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil && n > 0 {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
