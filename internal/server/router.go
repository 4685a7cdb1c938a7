// Package server assembles the HTTP API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/iudanet/areacheck/internal/server/handlers"
	"github.com/iudanet/areacheck/internal/server/middleware"
	"github.com/iudanet/areacheck/pkg/api"
)

// Credentials объединяет операции хранилища учетных данных, нужные API
type Credentials interface {
	handlers.CredentialStore
	handlers.IdentityResolver
}

// Tokens выпускает и проверяет токены
type Tokens interface {
	handlers.TokenIssuer
	middleware.TokenValidator
}

// RouterConfig содержит зависимости HTTP API
type RouterConfig struct {
	Logger      *slog.Logger
	Credentials Credentials
	Tokens      Tokens
	Points      handlers.PointService
	// DB проверяется health endpoint, может быть nil
	DB          handlers.Pinger
	Version     string
	CORSOrigins []string
}

// NewRouter создает http.Handler со всеми маршрутами API.
// Все запросы, кроме регистрации, входа и health check, проходят AuthMiddleware.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	authHandler := handlers.NewAuthHandler(logger, cfg.Credentials, cfg.Tokens)
	pointsHandler := handlers.NewPointsHandler(logger, cfg.Credentials, cfg.Points)
	healthHandler := handlers.NewHealthHandler(logger, cfg.DB, cfg.Version)

	r := chi.NewRouter()

	r.Use(middleware.LoggingWithSkip(logger, []string{api.PathHealth}))
	r.Use(middleware.RecoveryMiddleware(logger))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Use(middleware.AuthMiddleware(logger, cfg.Tokens, api.PathRegister, api.PathLogin, api.PathHealth))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.SendError(logger, w, "route not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.SendError(logger, w, "method not allowed", http.StatusMethodNotAllowed)
	})

	r.Post(api.PathRegister, authHandler.Register)
	r.Post(api.PathLogin, authHandler.Login)

	r.Post(api.PathCheck, pointsHandler.Check)
	r.Get(api.PathHistory, pointsHandler.History)
	r.Delete(api.PathClear, pointsHandler.Clear)

	r.Get(api.PathHealth, healthHandler.Health)

	return r
}
