package logic

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/openchess/stats-api/internal/analytics"
)

// Dataset holds the aggregated match log for the current dataset version and
// reloads it from the store when the version moves.
type Dataset struct {
	store  MatchStore
	cache  ResultCache
	opts   analytics.Options
	logger *zap.SugaredLogger

	mu      sync.Mutex
	version int64
	run     *analytics.Run
}

func NewDataset(store MatchStore, cache ResultCache, opts analytics.Options, logger *zap.SugaredLogger) *Dataset {
	opts.Logger = logger
	return &Dataset{store: store, cache: cache, opts: opts, logger: logger}
}

// Current returns the run for the latest dataset version and that version.
// When the version cannot be read the loaded run is kept.
func (d *Dataset) Current(ctx context.Context) (*analytics.Run, int64, error) {
	version, verr := d.cache.Version(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if verr != nil {
		d.logger.Warnw("Failed to read dataset version", "error", verr)
		version = d.version
	}
	if d.run != nil && d.version == version {
		return d.run, version, nil
	}

	matches, err := d.store.LoadMatches(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load matches: %w", err)
	}
	run, err := analytics.NewRun(ctx, matches, d.opts)
	if err != nil {
		return nil, 0, err
	}

	d.run, d.version = run, version
	datasetReloads.Inc()
	datasetPlayers.Set(float64(len(run.Features)))
	d.logger.Infow("Dataset loaded", "version", version, "matches", len(matches), "players", len(run.Features))
	return run, version, nil
}
