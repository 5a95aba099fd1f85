package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/billed-app/billed/internal/auth"
	"github.com/billed-app/billed/internal/config"
	"github.com/billed-app/billed/internal/server"
	"github.com/billed-app/billed/internal/storage/sqlite"
	"github.com/billed-app/billed/pkg/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	logging.Setup()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.TokenTTL())
	srv := server.New(store, jwtManager, cfg.Uploads.Dir)

	// Wrap with h2c so HTTP/2 works without TLS behind a terminating proxy.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	slog.Info("Billed API starting", "address", cfg.Server.Address)
	if err := http.ListenAndServe(cfg.Server.Address, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
