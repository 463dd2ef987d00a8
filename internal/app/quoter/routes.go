// Package quoter предоставляет маршруты основного приложения.
package quoter

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/calderondev/package-quoter/internal/http/handlers/snapshot/activate"
	"github.com/calderondev/package-quoter/internal/http/handlers/snapshot/catalog"
	"github.com/calderondev/package-quoter/internal/http/handlers/snapshot/create"
	"github.com/calderondev/package-quoter/internal/http/handlers/snapshot/health"
	"github.com/calderondev/package-quoter/internal/http/handlers/snapshot/list"
	"github.com/calderondev/package-quoter/internal/http/handlers/snapshot/preview"
	"github.com/calderondev/package-quoter/internal/http/handlers/snapshot/read"
	"github.com/calderondev/package-quoter/internal/http/handlers/snapshot/remove"
	"github.com/calderondev/package-quoter/internal/http/handlers/snapshot/update"
	"github.com/calderondev/package-quoter/internal/http/mware"
	services "github.com/calderondev/package-quoter/internal/services/snapshot"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, snapshotService *services.SnapshotService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mware.RateLimitMiddleware(logger))

		r.Get("/snapshots", list.New(logger, snapshotService).ServeHTTP)
		r.Post("/snapshots", create.New(logger, snapshotService).ServeHTTP)
		r.Post("/snapshots/preview", preview.New(logger, snapshotService).ServeHTTP)
		r.Get("/snapshots/{id}", read.New(logger, snapshotService).ServeHTTP)
		r.Put("/snapshots/{id}", update.New(logger, snapshotService).ServeHTTP)
		r.Delete("/snapshots/{id}", remove.New(logger, snapshotService).ServeHTTP)
		r.Patch("/snapshots/{id}/activate", activate.New(logger, snapshotService).ServeHTTP)
		r.Get("/catalog/optional-services", catalog.New(logger, snapshotService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
