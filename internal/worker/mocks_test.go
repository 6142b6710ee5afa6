package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/openchess/stats-api/internal/models"
)

// MockSink records every inserted batch
type MockSink struct {
	mu      sync.Mutex
	Batches [][]models.MatchRecord
	Fail    bool
}

func (m *MockSink) InsertMatches(ctx context.Context, matches []models.MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("clickhouse unavailable")
	}
	cp := make([]models.MatchRecord, len(matches))
	copy(cp, matches)
	m.Batches = append(m.Batches, cp)
	return nil
}

func (m *MockSink) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.Batches {
		n += len(b)
	}
	return n
}

// MockVersions counts version bumps
type MockVersions struct {
	mu    sync.Mutex
	Bumps int64
}

func (m *MockVersions) BumpVersion(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bumps++
	return m.Bumps, nil
}

func (m *MockVersions) Count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Bumps
}
