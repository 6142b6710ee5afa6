package logic

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openchess/stats-api/internal/analytics"
	"github.com/openchess/stats-api/internal/models"
)

// PlayerStatsConfig sets how many example players are offered and how many
// games make a top player.
type PlayerStatsConfig struct {
	ExampleCount int
	TopMinGames  int
}

type playerStatsService struct {
	data   *Dataset
	cache  ResultCache
	cfg    PlayerStatsConfig
	logger *zap.SugaredLogger
}

func NewPlayerStatsService(data *Dataset, cache ResultCache, cfg PlayerStatsConfig, logger *zap.SugaredLogger) PlayerStatsService {
	if cfg.ExampleCount <= 0 {
		cfg.ExampleCount = 5
	}
	if cfg.TopMinGames <= 0 {
		cfg.TopMinGames = 50
	}
	return &playerStatsService{data: data, cache: cache, cfg: cfg, logger: logger}
}

func profileKey(username string) string { return "chess_stats_" + username }

const (
	examplesKey = "example_users"
	topKey      = "top_players"
)

// cached serves key from the cache or computes, stores and returns it.
func cached[T any](ctx context.Context, s *playerStatsService, kind, key string, compute func(*analytics.Run) (T, error)) (T, error) {
	var zero T
	run, version, err := s.data.Current(ctx)
	if err != nil {
		return zero, err
	}

	var hit T
	ok, err := s.cache.Get(ctx, version, key, &hit)
	if err != nil {
		s.logger.Warnw("Cache read failed", "key", key, "error", err)
	}
	if ok {
		cacheHits.WithLabelValues(kind).Inc()
		return hit, nil
	}
	cacheMisses.WithLabelValues(kind).Inc()

	v, err := compute(run)
	if err != nil {
		return zero, err
	}
	if err := s.cache.Put(ctx, version, key, v); err != nil {
		s.logger.Warnw("Cache write failed", "key", key, "error", err)
	}
	return v, nil
}

func (s *playerStatsService) Profile(ctx context.Context, username string) (*models.PlayerProfile, error) {
	return cached(ctx, s, "profile", profileKey(username), func(run *analytics.Run) (*models.PlayerProfile, error) {
		return run.Profile(username)
	})
}

func (s *playerStatsService) ExampleUsernames(ctx context.Context) ([]string, error) {
	return cached(ctx, s, "examples", examplesKey, func(run *analytics.Run) ([]string, error) {
		names := []string{}
		for _, a := range analytics.MostActivePlayers(run.Matches, s.cfg.ExampleCount) {
			names = append(names, a.Username)
		}
		return names, nil
	})
}

func (s *playerStatsService) TopPlayers(ctx context.Context) ([]models.PlayerProfile, error) {
	return cached(ctx, s, "top", fmt.Sprintf("%s_%d", topKey, s.cfg.TopMinGames), func(run *analytics.Run) ([]models.PlayerProfile, error) {
		return analytics.TopPlayers(run.Matches, s.cfg.TopMinGames)
	})
}

// Precompute warms the cache with the example players' profiles and the top
// players list.
func (s *playerStatsService) Precompute(ctx context.Context) error {
	names, err := s.ExampleUsernames(ctx)
	if err != nil {
		return fmt.Errorf("example usernames: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			if _, err := s.Profile(ctx, name); err != nil {
				return fmt.Errorf("profile %s: %w", name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		_, err := s.TopPlayers(ctx)
		return err
	})
	return g.Wait()
}
