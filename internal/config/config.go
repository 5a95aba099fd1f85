// Package config loads server configuration from a YAML file with
// environment overrides. A .env file, if present, is loaded first.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config is the full server configuration.
type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Uploads struct {
		Dir string `yaml:"dir"`
	} `yaml:"uploads"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		// TokenTTL is a Go duration string, e.g. "24h".
		TokenTTL string `yaml:"token_ttl"`
	} `yaml:"auth"`
}

// TokenTTL parses the configured token lifetime, falling back to 24 hours
// when unset or unparsable.
func (c Config) TokenTTL() time.Duration {
	ttl, err := time.ParseDuration(c.Auth.TokenTTL)
	if err != nil || ttl <= 0 {
		return 24 * time.Hour
	}
	return ttl
}

// Load reads the config file at path (optional: an empty path or a missing
// file yields defaults) and applies environment overrides:
// SERVER_ADDRESS, DB_PATH, UPLOAD_DIR, JWT_SECRET.
func Load(path string) (Config, error) {
	// Populate the environment from .env when running locally. Missing file
	// is fine.
	_ = godotenv.Load()

	cfg := Config{}
	cfg.Server.Address = ":8080"
	cfg.Database.Path = "./data/billed.db"
	cfg.Uploads.Dir = "./data/uploads"

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to unmarshal config data: %w", err)
			}
		}
	}

	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Uploads.Dir = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}

	return cfg, nil
}
