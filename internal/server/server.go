// Package server is the composition root: it wires the database, services,
// and handlers together, defines every route, and owns startup/shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/oncode-dev/oncode/internal/auth"
	"github.com/oncode-dev/oncode/internal/config"
	"github.com/oncode-dev/oncode/internal/executor"
	"github.com/oncode-dev/oncode/internal/handler"
	"github.com/oncode-dev/oncode/internal/middleware"
	sqliteRepo "github.com/oncode-dev/oncode/internal/repository/sqlite"
	"github.com/oncode-dev/oncode/internal/service"
)

// Server owns the router, the database connection, and the configuration.
// The DB is closed during graceful shutdown in Start.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	DB → repositories → services → handlers → routes
//
// exec is the execution backend; it may be nil (remote service not
// configured), in which case /api/execute returns a configuration error.
func New(cfg config.Config, logger *slog.Logger, exec executor.Executor) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(exec); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the handler graph, and registers
// every route.
//
//	POST   /api/auth/register        none      create credentials account
//	POST   /api/auth/login           none      credentials login, sets cookie
//	POST   /api/auth/logout          none      clears cookie
//	GET    /api/me                   session   current user
//	POST   /api/execute              none      run code via remote backend
//	GET    /api/snippets             session   list own snippets, newest first
//	POST   /api/snippets             session   create snippet
//	GET    /api/snippets/{id}        session   fetch own snippet
//	PUT    /api/snippets/{id}        session   partial update of own snippet
//	DELETE /api/snippets/{id}        session   delete own snippet
//	GET    /auth/{provider}/login    none      OAuth redirect (if configured)
//	GET    /auth/{provider}/callback none      OAuth completion
func (s *Server) setupRoutes(exec executor.Executor) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.SessionSecret, s.config.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// OAuth providers are feature-gated on their env config; an empty list is
	// fine and must not affect credentials login.
	var providers []*auth.Provider
	if s.config.GitHub.Enabled() {
		providers = append(providers, auth.NewGitHubProvider(
			s.config.GitHub.ClientID,
			s.config.GitHub.ClientSecret,
			s.config.BaseURL+"/auth/github/callback",
		))
	}
	if s.config.Google.Enabled() {
		providers = append(providers, auth.NewGoogleProvider(
			s.config.Google.ClientID,
			s.config.Google.ClientSecret,
			s.config.BaseURL+"/auth/google/callback",
		))
	}

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	snippetService := service.NewSnippetService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, tokens, providers, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	executeHandler := handler.NewExecuteHandler(exec, s.logger)

	if len(providers) > 0 {
		s.router.Route("/auth/{provider}", func(r chi.Router) {
			r.Get("/login", authHandler.HandleOAuthLogin)
			r.Get("/callback", authHandler.HandleOAuthCallback)
		})
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Post("/execute", executeHandler.HandleExecute)

		// Session-protected routes. RequireAuth answers 401 before any
		// handler work happens.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)

			r.Get("/snippets", snippetHandler.HandleList)
			r.Post("/snippets", snippetHandler.HandleCreate)
			r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
			r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
			r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
		})
	})

	return nil
}

// Router exposes the configured mux, mainly for tests that want to drive the
// full route table with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		// Execute requests block on the remote backend's synchronous wait;
		// the write timeout has to outlast Judge0's own run limits.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
