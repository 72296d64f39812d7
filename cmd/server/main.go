// Package main is the entry point for the OnCode API server. It stays
// minimal: load configuration, build the logger and the execution backend,
// hand everything to internal/server.
package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/oncode-dev/oncode/internal/config"
	"github.com/oncode-dev/oncode/internal/executor"
	"github.com/oncode-dev/oncode/internal/executor/judge0"
	"github.com/oncode-dev/oncode/internal/server"
)

func main() {
	// .env is a development convenience; in production the variables come
	// from the real environment and the file is simply absent.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file", slog.String("error", err.Error()))
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.SessionSecret == "" {
		logger.Error("SESSION_SECRET is not set; generate one with: openssl rand -hex 32")
		os.Exit(1)
	}

	// Ensure the database directory exists before SQLite tries to create the
	// file inside it.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// The execution backend is optional: without JUDGE0_API_URL the server
	// still starts and /api/execute reports a configuration error.
	var exec executor.Executor
	if client, err := judge0.New(judge0.Config{
		BaseURL:    cfg.Judge0.BaseURL,
		APIKey:     cfg.Judge0.APIKey,
		HostHeader: cfg.Judge0.HostHeader,
	}, logger); err != nil {
		logger.Warn("code execution unavailable", slog.String("error", err.Error()))
	} else {
		exec = client
	}

	srv, err := server.New(cfg, logger, exec)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
