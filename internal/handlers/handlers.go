package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/openchess/stats-api/internal/logic"
	"github.com/openchess/stats-api/internal/models"
)

// MaxBodySize limits the size of NDJSON request bodies to 1MB
const MaxBodySize = 1048576

// MaxPGNBodySize limits the size of PGN uploads to 16MB
const MaxPGNBodySize = 16 << 20

// IngestQueue defines the interface for the match ingestion worker pool
type IngestQueue interface {
	Enqueue(match models.MatchRecord) bool
	QueueDepth() int
}

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Config struct {
	WorkerPool IngestQueue
	Logger     *zap.Logger
	// Dependencies are checked by /ready, keyed by name
	Dependencies map[string]Pinger
	// Schemas are installed by /system/install
	Schemas []logic.Schema
	// Services
	Clustering  logic.ClusteringService
	PlayerStats logic.PlayerStatsService
	Breakdowns  logic.MatchBreakdowns
}

type Handler struct {
	pool        IngestQueue
	deps        map[string]Pinger
	schemas     []logic.Schema
	logger      *zap.SugaredLogger
	validator   *validator.Validate
	clustering  logic.ClusteringService
	playerStats logic.PlayerStatsService
	breakdowns  logic.MatchBreakdowns
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{
		pool:        cfg.WorkerPool,
		deps:        cfg.Dependencies,
		schemas:     cfg.Schemas,
		logger:      cfg.Logger.Sugar(),
		validator:   validator.New(),
		clustering:  cfg.Clustering,
		playerStats: cfg.PlayerStats,
		breakdowns:  cfg.Breakdowns,
	}
}
