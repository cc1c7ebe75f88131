package config

import (
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "STORE_DRIVER", "STORE_BATCH_SIZE", "JWT_ACCESS_TOKEN_DURATION", "ALLOWED_ORIGINS", "BCRYPT_COST"} {
		t.Setenv(key, "")
	}

	cfg := New()

	if cfg.Port != "3000" {
		t.Errorf("expected default port 3000, got %s", cfg.Port)
	}
	if cfg.StoreDriver != "postgres" {
		t.Errorf("expected postgres store driver, got %s", cfg.StoreDriver)
	}
	if cfg.StoreBatchSize != 100 {
		t.Errorf("expected batch size 100, got %d", cfg.StoreBatchSize)
	}
	if cfg.JWTAccessTokenDuration != 24*time.Hour {
		t.Errorf("expected 24h access token duration, got %v", cfg.JWTAccessTokenDuration)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("expected bcrypt cost 12, got %d", cfg.BcryptCost)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("STORE_BATCH_SIZE", "25")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT_DURATION", "30s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := New()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.StoreDriver != "memory" {
		t.Errorf("expected memory driver, got %s", cfg.StoreDriver)
	}
	if cfg.StoreBatchSize != 25 {
		t.Errorf("expected batch size 25, got %d", cfg.StoreBatchSize)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.RateLimitDuration != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.RateLimitDuration)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %#v", cfg.AllowedOrigins)
	}
}

func TestGetEnvAsDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "not-a-duration")

	if got := getEnvAsDuration("SOME_DURATION", "5m"); got != 5*time.Minute {
		t.Errorf("expected fallback 5m, got %v", got)
	}
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")

	if got := getEnvAsInt("SOME_INT", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}
}
