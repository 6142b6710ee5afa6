package handlers

import (
	"context"
	"sync"

	"github.com/openchess/stats-api/internal/logic"
	"github.com/openchess/stats-api/internal/models"
)

// MockIngestQueue implements IngestQueue for testing
type MockIngestQueue struct {
	mu          sync.Mutex
	EnqueueFunc func(match models.MatchRecord) bool
	Enqueued    []models.MatchRecord
}

func (m *MockIngestQueue) Enqueue(match models.MatchRecord) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EnqueueFunc != nil && !m.EnqueueFunc(match) {
		return false
	}
	m.Enqueued = append(m.Enqueued, match)
	return true
}

func (m *MockIngestQueue) QueueDepth() int { return 0 }

// MockClusteringService
type MockClusteringService struct {
	ClusterFunc func(ctx context.Context, req models.ClusterRequest) (*models.ClusterResult, error)
	RunsFunc    func(ctx context.Context, limit int) ([]models.ClusterRun, error)
	LastRequest models.ClusterRequest
}

func (m *MockClusteringService) Cluster(ctx context.Context, req models.ClusterRequest) (*models.ClusterResult, error) {
	m.LastRequest = req
	if m.ClusterFunc != nil {
		return m.ClusterFunc(ctx, req)
	}
	return &models.ClusterResult{NumClusters: req.NumClusters, Mode: req.Mode}, nil
}

func (m *MockClusteringService) Precompute(ctx context.Context, ks []int) error { return nil }

func (m *MockClusteringService) Runs(ctx context.Context, limit int) ([]models.ClusterRun, error) {
	if m.RunsFunc != nil {
		return m.RunsFunc(ctx, limit)
	}
	return []models.ClusterRun{}, nil
}

// MockPlayerStatsService
type MockPlayerStatsService struct {
	ProfileFunc  func(ctx context.Context, username string) (*models.PlayerProfile, error)
	ExamplesFunc func(ctx context.Context) ([]string, error)
	TopFunc      func(ctx context.Context) ([]models.PlayerProfile, error)
}

func (m *MockPlayerStatsService) Profile(ctx context.Context, username string) (*models.PlayerProfile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, username)
	}
	return &models.PlayerProfile{Username: username}, nil
}

func (m *MockPlayerStatsService) ExampleUsernames(ctx context.Context) ([]string, error) {
	if m.ExamplesFunc != nil {
		return m.ExamplesFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockPlayerStatsService) TopPlayers(ctx context.Context) ([]models.PlayerProfile, error) {
	if m.TopFunc != nil {
		return m.TopFunc(ctx)
	}
	return []models.PlayerProfile{}, nil
}

func (m *MockPlayerStatsService) Precompute(ctx context.Context) error { return nil }

// MockBreakdowns
type MockBreakdowns struct {
	LastRequest logic.BreakdownRequest
	Rows        []models.BreakdownRow
}

func (m *MockBreakdowns) Breakdown(ctx context.Context, req logic.BreakdownRequest) ([]models.BreakdownRow, error) {
	m.LastRequest = req
	return m.Rows, nil
}

// MockSchema
type MockSchema struct {
	name string
	err  error
}

func (m *MockSchema) Name() string                           { return m.name }
func (m *MockSchema) EnsureSchema(ctx context.Context) error { return m.err }
