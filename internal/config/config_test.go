package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "QUIZ_SIZES", "TOKEN_TTL", "CORS_ORIGINS", "ADMIN_PASS_HASH"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline || c.HTTPAddr != ":8000" || c.DBDriver != "sqlite" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if !c.AllowsQuizSize(5) || !c.AllowsQuizSize(10) || c.AllowsQuizSize(7) {
		t.Fatalf("default quiz sizes = %v", c.QuizSizes)
	}
	if c.TokenTTL != 8*time.Hour {
		t.Fatalf("token ttl = %v", c.TokenTTL)
	}
	if len(c.CORSOrigins) != 1 || c.CORSOrigins[0] != "*" {
		t.Fatalf("cors = %v", c.CORSOrigins)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("QUIZ_SIZES", "3, 15,bogus")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("ADMIN_LIST_LIMIT", "-4")
	c := FromEnv()
	if !c.AllowsQuizSize(15) || c.AllowsQuizSize(5) {
		t.Fatalf("quiz sizes = %v", c.QuizSizes)
	}
	if c.TokenTTL != 90*time.Minute {
		t.Fatalf("token ttl = %v", c.TokenTTL)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("cors = %v", c.CORSOrigins)
	}
	if c.AdminListLimit != 200 {
		t.Fatalf("negative limit should fall back, got %d", c.AdminListLimit)
	}
}

func TestValidate_ByMode(t *testing.T) {
	t.Setenv("MODE", "")
	t.Setenv("AUTH_HMAC_SECRET", "")
	t.Setenv("CORS_ORIGINS", "")
	c := FromEnv()
	if c.AuthHMACSecret != DevHMACSecret {
		t.Fatalf("offline secret = %q, want dev key", c.AuthHMACSecret)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("offline defaults should validate: %v", err)
	}

	t.Setenv("MODE", "online")
	c = FromEnv()
	if c.AuthHMACSecret != "" {
		t.Fatalf("online must not fall back to the dev key")
	}
	if err := c.Validate(); err == nil {
		t.Fatal("online without a secret should fail")
	}

	t.Setenv("AUTH_HMAC_SECRET", DevHMACSecret)
	t.Setenv("CORS_ORIGINS", "https://quiz.example.edu")
	if err := FromEnv().Validate(); err == nil {
		t.Fatal("online with the dev key should fail")
	}

	t.Setenv("AUTH_HMAC_SECRET", "a-real-secret")
	t.Setenv("CORS_ORIGINS", "*")
	if err := FromEnv().Validate(); err == nil {
		t.Fatal("online with wildcard CORS should fail")
	}

	t.Setenv("CORS_ORIGINS", "https://quiz.example.edu")
	if err := FromEnv().Validate(); err != nil {
		t.Fatalf("online with secret and origins: %v", err)
	}

	t.Setenv("MODE", "staging")
	if err := FromEnv().Validate(); err == nil {
		t.Fatal("unknown mode should fail")
	}
}
