package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openchess/stats-api/internal/analytics"
	"github.com/openchess/stats-api/internal/models"
)

type clusteringService struct {
	data    *Dataset
	cache   ResultCache
	history RunHistory
	logger  *zap.SugaredLogger
}

// NewClusteringService serves clustering results, computing them on a cache
// miss. history may be nil.
func NewClusteringService(data *Dataset, cache ResultCache, history RunHistory, logger *zap.SugaredLogger) ClusteringService {
	return &clusteringService{data: data, cache: cache, history: history, logger: logger}
}

// Cluster returns the result for req on the current dataset. Cache and
// history failures are logged and never fail the call.
func (s *clusteringService) Cluster(ctx context.Context, req models.ClusterRequest) (*models.ClusterResult, error) {
	req = req.WithDefaults()

	run, version, err := s.data.Current(ctx)
	if err != nil {
		return nil, err
	}

	key := req.CacheKey()
	var cached models.ClusterResult
	hit, err := s.cache.Get(ctx, version, key, &cached)
	if err != nil {
		s.logger.Warnw("Cluster cache read failed", "key", key, "error", err)
	}
	if hit {
		cacheHits.WithLabelValues("clusters").Inc()
		return &cached, nil
	}
	cacheMisses.WithLabelValues("clusters").Inc()

	start := time.Now()
	res, err := run.Cluster(req)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	pipelineDuration.Observe(elapsed.Seconds())

	s.logger.Infow("Clustering computed",
		"key", key,
		"version", version,
		"players", len(res.PlayerFeatures),
		"iterations", res.Iterations,
		"duration", elapsed,
	)

	if err := s.cache.Put(ctx, version, key, res); err != nil {
		s.logger.Warnw("Cluster cache write failed", "key", key, "error", err)
	}

	if s.history != nil {
		entry := models.ClusterRun{
			ID:              res.RunID,
			NumClusters:     res.NumClusters,
			Mode:            res.Mode,
			XAxis:           req.XAxis,
			YAxis:           req.YAxis,
			Entities:        len(res.PlayerFeatures),
			Features:        len(res.Columns),
			SilhouetteScore: res.SilhouetteScore,
			Iterations:      res.Iterations,
			DurationMs:      elapsed.Milliseconds(),
			CreatedAt:       res.GeneratedAt,
		}
		if err := s.history.Record(ctx, entry); err != nil {
			s.logger.Warnw("Failed to record cluster run", "run_id", res.RunID, "error", err)
		}
	}

	return res, nil
}

// Precompute fills the cache for each k with the default axes. A k the data
// cannot support is skipped with a warning.
func (s *clusteringService) Precompute(ctx context.Context, ks []int) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, k := range ks {
		g.Go(func() error {
			_, err := s.Cluster(ctx, models.ClusterRequest{NumClusters: k})
			if analytics.IsValidation(err) {
				s.logger.Warnw("Skipping precompute", "k", k, "error", err)
				return nil
			}
			if err != nil {
				return fmt.Errorf("precompute k=%d: %w", k, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *clusteringService) Runs(ctx context.Context, limit int) ([]models.ClusterRun, error) {
	if s.history == nil {
		return nil, errors.New("run history is not configured")
	}
	return s.history.Recent(ctx, limit)
}
