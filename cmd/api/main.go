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

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/openchess/stats-api/internal/analytics"
	"github.com/openchess/stats-api/internal/config"
	"github.com/openchess/stats-api/internal/handlers"
	"github.com/openchess/stats-api/internal/logic"
	"github.com/openchess/stats-api/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ClickHouse
	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		return fmt.Errorf("parse clickhouse url: %w", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		return fmt.Errorf("open clickhouse: %w", err)
	}
	defer ch.Close()

	// PostgreSQL
	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer pg.Close()

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	matchStore := logic.NewMatchStore(ch)
	runHistory := logic.NewRunHistory(pg)
	schemas := []logic.Schema{matchStore, runHistory}
	for _, s := range schemas {
		if err := s.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure %s schema: %w", s.Name(), err)
		}
	}

	cache := logic.NewResultCache(rdb, cfg.CacheTTL)
	dataset := logic.NewDataset(matchStore, cache, analytics.Options{
		MaxIter: cfg.KMeansMaxIter,
		NInit:   cfg.KMeansNInit,
		Seed:    cfg.KMeansSeed,
		Shards:  cfg.AggregateShards,
	}, sugar)

	clustering := logic.NewClusteringService(dataset, cache, runHistory, sugar)
	playerStats := logic.NewPlayerStatsService(dataset, cache, logic.PlayerStatsConfig{
		ExampleCount: cfg.ExampleUsers,
		TopMinGames:  cfg.TopPlayersMinGames,
	}, sugar)

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		Store:         matchStore,
		Versions:      cache,
		Logger:        logger,
	})
	pool.Start(ctx)
	defer pool.Stop()

	// Warm the cache in the background; failures only cost a cold first request
	go func() {
		if err := clustering.Precompute(ctx, cfg.PrecomputeClusters); err != nil {
			sugar.Warnw("Cluster precompute failed", "error", err)
		}
		if err := playerStats.Precompute(ctx); err != nil {
			sugar.Warnw("Player stats precompute failed", "error", err)
		}
		sugar.Infow("Precompute finished", "clusters", cfg.PrecomputeClusters)
	}()

	h := handlers.New(handlers.Config{
		WorkerPool: pool,
		Logger:     logger,
		Dependencies: map[string]handlers.Pinger{
			"postgres":   pg,
			"clickhouse": ch,
			"redis":      handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
		Schemas:     schemas,
		Clustering:  clustering,
		PlayerStats: playerStats,
		Breakdowns:  matchStore,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Handle("/metrics", promhttp.Handler())
	h.Mount(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("HTTP server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sugar.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
