// Package worker implements the buffered worker pool pattern for async match ingestion.
// This decouples HTTP request handling from database writes, providing:
// - Backpressure handling via load shedding
// - Batch inserts for efficient ClickHouse writes
// - Graceful shutdown with flush guarantees

package worker

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/openchess/stats-api/internal/models"
)

// Prometheus metrics
var (
	matchesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chess_matches_ingested_total",
		Help: "Total number of matches accepted into the queue",
	})

	matchesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chess_matches_processed_total",
		Help: "Total number of matches written by workers",
	})

	matchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chess_matches_failed_total",
		Help: "Total number of matches that failed processing",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chess_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chess_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})

	matchesLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chess_matches_load_shed_total",
		Help: "Total number of matches dropped due to load shedding",
	})
)

// ingestNamespace scopes ids generated for matches submitted without one.
var ingestNamespace = uuid.MustParse("0b7d3c1e-58a4-5f0e-8f61-3c2d9e4a7b10")

// MatchSink receives flushed batches.
type MatchSink interface {
	InsertMatches(ctx context.Context, matches []models.MatchRecord) error
}

// VersionBumper invalidates derived results once new matches are stored.
type VersionBumper interface {
	BumpVersion(ctx context.Context) (int64, error)
}

// Job represents a unit of work for the worker pool
type Job struct {
	Match     models.MatchRecord
	Timestamp time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	Store         MatchSink
	Versions      VersionBumper
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async match processing
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	// Start queue depth reporter
	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop closes the queue and waits for every worker to flush what it holds.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping worker pool...")
		close(p.jobQueue)
		p.wg.Wait()
		if p.cancel != nil {
			p.cancel()
		}
		p.logger.Info("Worker pool stopped")
	})
}

// Enqueue adds a match to the queue. It returns false without blocking when
// the queue is full or the pool has stopped.
func (p *Pool) Enqueue(match models.MatchRecord) bool {
	job := Job{
		Match:     Normalize(match),
		Timestamp: time.Now(),
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue match (pool stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- job:
		matchesIngested.Inc()
		return true
	default:
		matchesLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debugw("Worker started", "worker", id)

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch processing failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			matchesFailed.Add(float64(len(batch)))
		} else {
			p.logger.Infow("Batch processed", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			matchesProcessed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				// Channel closed, flush remaining
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// processBatch stores a batch and moves the dataset version so cached
// results computed from the old log stop being served.
func (p *Pool) processBatch(batch []Job) error {
	if len(batch) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	matches := make([]models.MatchRecord, len(batch))
	for i, job := range batch {
		matches[i] = job.Match
	}

	if err := p.config.Store.InsertMatches(ctx, matches); err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}

	if p.config.Versions != nil {
		version, err := p.config.Versions.BumpVersion(ctx)
		if err != nil {
			// The rows are stored; readers pick them up on the next bump.
			p.logger.Warnw("Failed to bump dataset version", "error", err)
			return nil
		}
		p.logger.Debugw("Dataset version bumped", "version", version, "matches", len(matches))
	}
	return nil
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}

// Normalize fills the defaults a submitted match may omit: a 0+0 time
// control, the variant it implies, an "Unknown" opening and a stable id.
// Player names are trimmed with inner whitespace collapsed.
func Normalize(m models.MatchRecord) models.MatchRecord {
	m.White = sanitizeName(m.White)
	m.Black = sanitizeName(m.Black)
	if strings.TrimSpace(m.TimeControl) == "" {
		m.TimeControl = "0+0"
	}
	if m.Variant == "" {
		m.Variant = models.VariantFromTimeControl(m.TimeControl)
	}
	if strings.TrimSpace(m.Opening) == "" {
		m.Opening = "Unknown"
	}
	if m.ID == "" {
		m.ID = uuid.NewSHA1(ingestNamespace, []byte(strings.Join([]string{
			m.Event, m.White, m.Black,
			strconv.Itoa(m.WhiteElo), strconv.Itoa(m.BlackElo),
			string(m.Result), m.ECO, m.Opening, strconv.Itoa(m.Moves), m.TimeControl,
			m.PlayedAt.UTC().Format(time.RFC3339Nano),
		}, "\x1f"))).String()
	}
	return m
}

// Helper functions

func sanitizeName(s string) string {
	// Fast path: nothing to collapse
	if !strings.ContainsAny(s, " \t\r\n") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
