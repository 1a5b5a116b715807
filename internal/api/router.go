package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkarsten/tablehost/internal/api/handler"
	"github.com/mkarsten/tablehost/internal/api/middleware"
	"github.com/mkarsten/tablehost/internal/services/game"
	"github.com/mkarsten/tablehost/internal/services/user"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	UserService *user.Service
	GameService *game.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.UserService)
	gameHandler := handler.NewGameHandler(cfg.GameService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.UserService)
	adminMiddleware := middleware.RequireAdministrator()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// User routes (no auth required for registering/confirming/logging in)
	api.HandleFunc("/users/register", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/confirm", userHandler.Confirm).Methods(http.MethodGet)
	api.HandleFunc("/users/login", userHandler.Login).Methods(http.MethodPost)

	// Protected user routes
	userProtected := api.PathPrefix("/users").Subrouter()
	userProtected.Use(authMiddleware)
	userProtected.HandleFunc("/me", userHandler.GetMe).Methods(http.MethodGet)
	userProtected.HandleFunc("/logout", userHandler.Logout).Methods(http.MethodPost)

	// Administrator-only user routes
	userAdmin := api.PathPrefix("/users").Subrouter()
	userAdmin.Use(authMiddleware)
	userAdmin.Use(adminMiddleware)
	userAdmin.HandleFunc("/{username}/promote", userHandler.Promote).Methods(http.MethodPost)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/recruiting", gameHandler.FindRecruiting).Methods(http.MethodGet)
	games.HandleFunc("/archived", gameHandler.FindArchived).Methods(http.MethodGet)
	games.HandleFunc("/{id:[0-9]+}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id:[0-9]+}", gameHandler.Rename).Methods(http.MethodPatch)
	games.HandleFunc("/{id:[0-9]+}/start", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{id:[0-9]+}/archive", gameHandler.Archive).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
