// Package app wires configuration into a ready-to-use import service.
//
// Both the HTTP server and leadctl build their dependencies here so the
// optional backends (Redis, RabbitMQ, MinIO) are enabled the same way.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/LeadImport/internal/cache"
	"github.com/JonMunkholm/LeadImport/internal/config"
	"github.com/JonMunkholm/LeadImport/internal/core"
	"github.com/JonMunkholm/LeadImport/internal/database"
	"github.com/JonMunkholm/LeadImport/internal/metrics"
	"github.com/JonMunkholm/LeadImport/internal/queue"
	"github.com/JonMunkholm/LeadImport/internal/storage"
)

// App owns the service and every connection opened for it.
type App struct {
	Service *core.Service
	Pool    *pgxpool.Pool

	cache  *cache.ResultCache
	rabbit *queue.RabbitMQ
	logger *slog.Logger
}

// EngineOptions translates the import section of the config.
func EngineOptions(cfg config.ImportConfig, logger *slog.Logger) (core.EngineOptions, error) {
	pairs, err := cfg.RepairPairs()
	if err != nil {
		return core.EngineOptions{}, err
	}

	extra := make([]core.Repair, 0, len(pairs))
	for _, p := range pairs {
		extra = append(extra, core.Repair{Broken: p[0], Fixed: p[1]})
	}

	return core.EngineOptions{
		Logger:      logger,
		RepairTable: core.DefaultRepairTable.Extend(extra...),
		CountryCode: cfg.CountryCode,
		Deduplicate: cfg.Deduplicate,
	}, nil
}

// New connects to PostgreSQL and every configured backend, then builds the
// service. Connections opened before a failure are closed again.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (a *App, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	a = &App{logger: logger}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	engineOpts, err := EngineOptions(cfg.Import, logger)
	if err != nil {
		return nil, err
	}

	a.Pool, err = database.Connect(ctx, database.PoolConfig{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, a.Pool); err != nil {
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	leads := database.NewLeadRepository(a.Pool)
	deps := core.ServiceDeps{
		Store:    leads,
		Searches: leads,
		History:  database.NewImportHistoryRepository(a.Pool),
		Observer: metrics.NewObserver(),
		Logger:   logger,
	}

	var backend cache.Backend = cache.NewMemory()
	if cfg.Redis.URL != "" {
		r, err := cache.NewRedis(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		backend = r
		logger.Info("import results cached in redis")
	}
	a.cache = cache.NewResultCache(backend, cfg.Redis.ResultTTL)
	deps.Cache = a.cache

	if cfg.AMQP.URL != "" {
		a.rabbit, err = queue.NewRabbitMQ(cfg.AMQP.URL, queue.Topology{
			Exchange:   cfg.AMQP.Exchange,
			Queue:      cfg.AMQP.Queue,
			RoutingKey: cfg.AMQP.RoutingKey,
		})
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		deps.Events = queue.NewProducer(a.rabbit)
		logger.Info("import events enabled", "exchange", cfg.AMQP.Exchange)
	}

	if cfg.Minio.Endpoint != "" {
		archive, err := storage.New(ctx, storage.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("connect minio: %w", err)
		}
		deps.Archive = archive
		logger.Info("upload archive enabled", "bucket", cfg.Minio.Bucket)
	}

	a.Service = core.NewService(deps, core.ServiceOptions{
		Engine:        engineOpts,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		Timeout:       cfg.Upload.Timeout,
		HistoryLimit:  cfg.Import.HistoryLimit,
	})
	return a, nil
}

// Ping checks the database connection.
func (a *App) Ping(ctx context.Context) error {
	return a.Pool.Ping(ctx)
}

// Close releases every connection. It is safe on a partially built App.
func (a *App) Close() error {
	var errs []error
	if a.rabbit != nil {
		errs = append(errs, a.rabbit.Close())
	}
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	return errors.Join(errs...)
}
