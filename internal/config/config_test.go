package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Address != ":8080" {
		t.Errorf("address = %q, want default :8080", cfg.Server.Address)
	}
	if cfg.Database.Path != "./data/billed.db" {
		t.Errorf("db path = %q, want default", cfg.Database.Path)
	}
	if cfg.TokenTTL() != 24*time.Hour {
		t.Errorf("token ttl = %v, want 24h default", cfg.TokenTTL())
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  address: ":9090"
database:
  path: "/var/lib/billed/billed.db"
auth:
  jwt_secret: "from-file"
  token_ttl: 1h
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("writing config failed: %v", err)
	}

	// Env wins over the file.
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Errorf("address = %q, want file value", cfg.Server.Address)
	}
	if cfg.Database.Path != "/var/lib/billed/billed.db" {
		t.Errorf("db path = %q, want file value", cfg.Database.Path)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("jwt secret = %q, env must override file", cfg.Auth.JWTSecret)
	}
	if cfg.TokenTTL() != time.Hour {
		t.Errorf("token ttl = %v, want 1h", cfg.TokenTTL())
	}
}
