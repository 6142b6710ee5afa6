package logic

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/openchess/stats-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedisClient defines the interface for Redis client
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// MatchStore persists the match log.
type MatchStore interface {
	LoadMatches(ctx context.Context) ([]models.MatchRecord, error)
	InsertMatches(ctx context.Context, matches []models.MatchRecord) error
}

// MatchBreakdowns answers grouped aggregate queries over the stored match log.
type MatchBreakdowns interface {
	Breakdown(ctx context.Context, req BreakdownRequest) ([]models.BreakdownRow, error)
}

// ResultCache memoizes JSON results per dataset version. Bumping the version
// invalidates everything cached under the previous one.
type ResultCache interface {
	Version(ctx context.Context) (int64, error)
	BumpVersion(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, key string, dst any) (bool, error)
	Put(ctx context.Context, version int64, key string, v any) error
}

// RunHistory records every computed clustering run.
type RunHistory interface {
	Record(ctx context.Context, run models.ClusterRun) error
	Recent(ctx context.Context, limit int) ([]models.ClusterRun, error)
}

// Schema is a store that can create its own tables.
type Schema interface {
	Name() string
	EnsureSchema(ctx context.Context) error
}

// ClusteringService runs and memoizes player clustering.
type ClusteringService interface {
	Cluster(ctx context.Context, req models.ClusterRequest) (*models.ClusterResult, error)
	Precompute(ctx context.Context, ks []int) error
	Runs(ctx context.Context, limit int) ([]models.ClusterRun, error)
}

// PlayerStatsService serves per-player profiles.
type PlayerStatsService interface {
	Profile(ctx context.Context, username string) (*models.PlayerProfile, error)
	ExampleUsernames(ctx context.Context) ([]string, error)
	TopPlayers(ctx context.Context) ([]models.PlayerProfile, error)
	Precompute(ctx context.Context) error
}
