// Package server sets up the HTTP server, router, and all route
// definitions. It is the composition root: the database, services,
// handlers, and middleware are all wired together here, and main.go stays
// minimal.
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

	"github.com/sakif/daily-diet-api/internal/auth"
	"github.com/sakif/daily-diet-api/internal/handler"
	"github.com/sakif/daily-diet-api/internal/middleware"
	sqliteRepo "github.com/sakif/daily-diet-api/internal/repository/sqlite"
	"github.com/sakif/daily-diet-api/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port   int
	DBPath string
	// BcryptCost overrides the password hashing cost when > 0.
	// Tests set it to bcrypt's minimum; production leaves it at zero.
	BcryptCost int
}

// Server owns the router and the database connection. The DB is closed
// during graceful shutdown, after in-flight requests have drained.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the given config and wires the full dependency
// chain: sqlite.DB → services → handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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

	s.setupRoutes()

	return s, nil
}

// Router exposes the configured router, mainly for httptest-based tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database connection. Start does this itself on
// shutdown; callers that never Start (tests) should Close explicitly.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// Route structure:
//
//	POST   /users                        → register (sets session cookie)
//	POST   /login                        → login (rotates session cookie)
//	DELETE /login                        → logout                [session]
//	POST   /meals                        → create meal           [session]
//	GET    /meals                        → list meals            [session]
//	GET    /meals/quantity               → total count           [session]
//	GET    /meals/quantity/diets         → on-diet count         [session]
//	GET    /meals/quantity/free          → off-diet count        [session]
//	GET    /meals/quantity/diets/streak  → longest on-diet run   [session]
//	GET    /meals/{id}                   → get one meal          [session]
//	PATCH  /meals/{id}                   → partial update        [session]
//	DELETE /meals/{id}                   → delete (idempotent)   [session]
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	passwords := auth.NewPasswordService()
	if s.config.BcryptCost > 0 {
		passwords = auth.NewPasswordServiceWithCost(s.config.BcryptCost)
	}

	authService := service.NewAuthService(s.db.Users(), passwords, s.logger)
	mealService := service.NewMealService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	mealHandler := handler.NewMealHandler(mealService, s.logger)

	requireSession := auth.RequireSession(s.db.Users())

	s.router.Post("/users", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.With(requireSession).Delete("/login", authHandler.HandleLogout)

	// Every meal route is session-gated. The static /quantity routes must
	// be registered alongside /{id}; chi matches static segments first.
	s.router.Route("/meals", func(r chi.Router) {
		r.Use(requireSession)

		r.Post("/", mealHandler.HandleCreate)
		r.Get("/", mealHandler.HandleList)
		r.Get("/quantity", mealHandler.HandleQuantity)
		r.Get("/quantity/diets", mealHandler.HandleQuantityOnDiet)
		r.Get("/quantity/free", mealHandler.HandleQuantityOffDiet)
		r.Get("/quantity/diets/streak", mealHandler.HandleStreak)
		r.Get("/{id}", mealHandler.HandleGetByID)
		r.Patch("/{id}", mealHandler.HandleUpdate)
		r.Delete("/{id}", mealHandler.HandleDelete)
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to finish, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
