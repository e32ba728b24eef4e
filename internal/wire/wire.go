package wire

import (
	"context"
	"net/http"
	"time"

	"movie-catalog/internal/adaptor"
	"movie-catalog/internal/cache"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/middleware"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and the router. ctx bounds background
// workers such as the rate limiter sweeper.
func Wiring(ctx context.Context, repo *repository.Repository, infra usecase.Infra, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, infra, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(ctx, handler, service, repo, infra.Cache, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	ctx context.Context,
	handler *adaptor.Handler,
	service *usecase.Service,
	repo *repository.Repository,
	c cache.Cache,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.App.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if config.RateLimit.Enabled {
		r.Use(middleware.RateLimitIP(ctx, config.RateLimit, logger))
	}

	r.Route(apiPrefix, func(r chi.Router) {
		wireMovie(r, handler.Movie, service.Auth, logger)
		r.Route("/accounts", func(r chi.Router) {
			wireAccounts(r, handler.Accounts, service.Auth, logger)
			wireAuth(r, handler.Auth)
		})
	})

	r.Get("/health", healthCheck(repo, c, logger))

	return r
}

func healthCheck(repo *repository.Repository, c cache.Cache, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok", "cache": "ok"}
		healthy := true

		if err := repo.DB.Ping(ctx); err != nil {
			logger.Warn("Health check: database unreachable", zap.Error(err))
			checks["database"] = "unavailable"
			healthy = false
		}
		if err := c.Ping(ctx); err != nil {
			logger.Warn("Health check: cache unreachable", zap.Error(err))
			checks["cache"] = "unavailable"
			healthy = false
		}

		if !healthy {
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.Response{
				Status:  false,
				Message: "Service unavailable",
				Data:    checks,
			})
			return
		}
		utils.ResponseSuccess(w, "OK", checks)
	}
}
