package config

import (
	"os"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("MONGODB_URI")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != "5002" {
		t.Fatalf("unexpected default port: %s", cfg.Server.Port)
	}
	if cfg.MongoDB.Database != "rolla_admin" {
		t.Fatalf("unexpected default database: %s", cfg.MongoDB.Database)
	}
	if cfg.MongoDB.URI != "" {
		t.Fatalf("expected empty mongo URI, got %s", cfg.MongoDB.URI)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("RATE_LIMIT_ENABLED", "true")
	defer func() {
		os.Unsetenv("MONGODB_URI")
		os.Unsetenv("REDIS_HOST")
		os.Unsetenv("REDIS_PORT")
		os.Unsetenv("RATE_LIMIT_ENABLED")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if !cfg.RateLimit.Enabled {
		t.Fatal("expected rate limit enabled")
	}
}
