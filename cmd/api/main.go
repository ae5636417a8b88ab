package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "delivery_admin_backend/internal/http"
	"delivery_admin_backend/internal/http/router"
	"delivery_admin_backend/internal/scheduler"
	"delivery_admin_backend/internal/search"
	"delivery_admin_backend/internal/search/cache"
	"delivery_admin_backend/internal/search/repository"
	"delivery_admin_backend/internal/search/snapshot"
	"delivery_admin_backend/platform/config"
	"delivery_admin_backend/platform/db"
	"delivery_admin_backend/platform/logger"
	"delivery_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "source", cfg.SearchSource)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	val := validator.New()
	health := apphttp.HealthChecks{}

	source, pool, err := initSource(ctx, cfg, val, log)
	if err != nil {
		log.Error("failed to initialize corpus source", "error", err)
		panic("failed to initialize corpus source: " + err.Error())
	}
	if pool != nil {
		defer pool.Close()
		health = append(health, pool)
	}

	holder := snapshot.NewHolder(source, log)
	if err := withRetry(ctx, log, "initial corpus load", 5, 2*time.Second, func() error {
		_, err := holder.Reload(ctx)
		return err
	}); err != nil {
		log.Error("failed to load corpus", "error", err)
		panic("failed to load corpus: " + err.Error())
	}
	health = append(health, holder)

	responseCache, closeCache := initCache(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	searchModule := search.NewModule(holder, responseCache, cfg, log)

	publishClient, closeClient := initSchedulerClient(cfg, log)
	if closeClient != nil {
		defer closeClient()
		searchModule.Service().SetSnapshotPublisher(publishClient)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: health,
		Modules: []apphttp.Module{
			searchModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return holder.Run(gctx, cfg.SearchRefreshInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// initSource builds the configured corpus source. The pool is non-nil only
// for the postgres source and must be closed by the caller.
func initSource(ctx context.Context, cfg *config.Config, val *validator.Validator, log *logger.Logger) (repository.ItemSource, *pgxpool.Pool, error) {
	switch cfg.SearchSource {
	case config.SourceStatic:
		return repository.NewReferenceSource(), nil, nil

	case config.SourceFile:
		return repository.FromRecords(repository.NewFileSource(cfg.SearchSeedFile), val), nil, nil

	case config.SourcePostgres:
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, "migrations")
		}); err != nil {
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("database migrations complete")

		var pool *pgxpool.Pool
		if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
			p, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			pool = p
			return nil
		}); err != nil {
			log.DatabaseError("connect", err)
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		log.Info("database connection established")
		return repository.FromRecords(repository.NewPostgresSource(pool), val), pool, nil

	case config.SourceObjectStore:
		store, err := repository.NewObjectStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.FromRecords(store, val), nil, nil
	}

	return nil, nil, fmt.Errorf("unknown corpus source %q", cfg.SearchSource)
}

func initCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (cache.Cache, func()) {
	if cfg.GetRedisURL() == "" || cfg.SearchCacheTTL <= 0 {
		log.Warn("response cache disabled")
		return cache.Noop{}, nil
	}

	redisCache, err := cache.NewRedisCache(cfg, cfg.SearchCacheTTL)
	if err != nil {
		log.Error("failed to initialize response cache", "error", err)
		return cache.Noop{}, nil
	}
	if err := redisCache.Ping(ctx); err != nil {
		// Cache failures are bypassed per request, an unreachable redis is not fatal.
		log.Warn("response cache unreachable", "error", err)
	}

	log.Info("response cache enabled", "ttl", cfg.SearchCacheTTL.String())
	return redisCache, func() {
		_ = redisCache.Close()
	}
}

func initSchedulerClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; snapshot publishing disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
