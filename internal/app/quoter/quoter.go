// Package quoter собирает приложение: хранилище, миграции, кеш,
// публикацию событий, бизнес-логику и HTTP-сервер.
package quoter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/calderondev/package-quoter/internal/cache"
	"github.com/calderondev/package-quoter/internal/config"
	"github.com/calderondev/package-quoter/internal/events"
	"github.com/calderondev/package-quoter/internal/legacy"
	"github.com/calderondev/package-quoter/internal/lib/sl"
	"github.com/calderondev/package-quoter/internal/migrations"
	services "github.com/calderondev/package-quoter/internal/services/snapshot"
	"github.com/calderondev/package-quoter/internal/storage/repository"
)

// App держит вместе HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New инициализирует все зависимости приложения.
// Недоступный RabbitMQ не мешает старту: события просто не публикуются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var publisher *events.Publisher
	if cfg.RabbitConnection.URL != "" {
		conn, err := events.Connect(cfg.RabbitConnection.URL, cfg.RabbitConnection.Retries, cfg.RabbitConnection.RetryDelay)
		if err != nil {
			logger.Warn("rabbitmq unavailable, snapshot events disabled", sl.Err(err))
		} else if publisher, err = events.NewPublisher(conn); err != nil {
			logger.Warn("failed to set up event publisher, snapshot events disabled", sl.Err(err))
			publisher = nil
		}
	}

	catalog := legacy.Load(cfg.LegacyServicesPath, logger)

	var eventPublisher services.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}
	snapshotService := services.NewSnapshotService(db, cacheRedis, eventPublisher, catalog, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, snapshotService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
