package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Mongo.Database != "interview-assist" {
		t.Fatalf("unexpected defaults: %s", cfg)
	}
	if cfg.Import.BatchThreshold != 450 || cfg.Import.BatchCeiling != 500 || cfg.Import.Transactional {
		t.Fatalf("unexpected import defaults: %+v", cfg.Import)
	}
	if cfg.Mongo.ConnectTimeout != 10*time.Second || cfg.Cache.TTL != time.Minute {
		t.Fatalf("unexpected durations: %+v %+v", cfg.Mongo, cfg.Cache)
	}
	if cfg.CacheEnabled() {
		t.Fatalf("cache must be disabled without REDIS_ADDR")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if got := cfg.JWTConfigs(); len(got) != 1 || string(got[0].Secret) != "secret" {
		t.Fatalf("jwt configs = %+v", got)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "  ")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "AUTH_JWT_SECRET") {
		t.Fatalf("expected secret error, got %v", err)
	}
	if _, err := LoadWithoutAuth(); err != nil {
		t.Fatalf("LoadWithoutAuth: %v", err)
	}
}

func TestValidateBatchThreshold(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("IMPORT_BATCH_THRESHOLD", "500")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "IMPORT_BATCH_THRESHOLD") {
		t.Fatalf("threshold equal to ceiling must fail, got %v", err)
	}
	t.Setenv("IMPORT_BATCH_THRESHOLD", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("zero threshold must fail")
	}
}

func TestValidateEnv(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "qa")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "invalid environment") {
		t.Fatalf("expected env error, got %v", err)
	}
}

func TestNormaliseOriginsAndEndpoint(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("API_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("MESSENGER_GATEWAY_URL", " http://gateway:3000/ ")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.Messenger.Endpoint != "http://gateway:3000" {
		t.Fatalf("endpoint = %q", cfg.Messenger.Endpoint)
	}
	if !cfg.CacheEnabled() {
		t.Fatalf("cache must be enabled with REDIS_ADDR")
	}
}

func TestImportTransactionOptIn(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Import.Transactional {
		t.Fatalf("transactions must be off by default, the default mongo is standalone")
	}

	t.Setenv("IMPORT_BATCH_TRANSACTION", "true")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Import.Transactional {
		t.Fatalf("IMPORT_BATCH_TRANSACTION=true must enable transactions")
	}
}
