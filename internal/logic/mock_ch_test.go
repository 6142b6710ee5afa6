package logic

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/openchess/stats-api/internal/models"
)

// MockConn implements driver.Conn for testing
type MockConn struct {
	driver.Conn
	Rows       [][]interface{}
	Batch      *MockBatch
	ExecCalls  []string
	QueryCalls int
	Queries    []string
}

func (m *MockConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	m.QueryCalls++
	m.Queries = append(m.Queries, query)
	return &MockRows{Data: m.Rows}, nil
}

func (m *MockConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	if m.Batch == nil {
		m.Batch = &MockBatch{}
	}
	return m.Batch, nil
}

func (m *MockConn) Exec(ctx context.Context, query string, args ...interface{}) error {
	m.ExecCalls = append(m.ExecCalls, query)
	return nil
}

type MockBatch struct {
	driver.Batch
	Appended [][]interface{}
	Sent     bool
}

func (m *MockBatch) Append(v ...interface{}) error {
	m.Appended = append(m.Appended, v)
	return nil
}

func (m *MockBatch) Send() error {
	m.Sent = true
	return nil
}

func (m *MockBatch) Abort() error { return nil }

type MockRows struct {
	driver.Rows
	Data  [][]interface{}
	Index int
}

func (m *MockRows) Next() bool {
	m.Index++
	return m.Index <= len(m.Data)
}

func (m *MockRows) Scan(dest ...interface{}) error {
	row := m.Data[m.Index-1]
	for i, val := range row {
		if i < len(dest) {
			setDest(dest[i], val)
		}
	}
	return nil
}

func (m *MockRows) Close() error { return nil }
func (m *MockRows) Err() error   { return nil }

func setDest(dest interface{}, val interface{}) {
	v := reflect.ValueOf(dest).Elem()
	if val == nil {
		v.Set(reflect.Zero(v.Type()))
		return
	}
	valV := reflect.ValueOf(val)
	if valV.Type().ConvertibleTo(v.Type()) {
		v.Set(valV.Convert(v.Type()))
	} else {
		v.Set(valV)
	}
}

// MockPgPool implements PgPool for testing
type MockPgPool struct {
	ExecSQL  []string
	ExecArgs [][]any
	Rows     [][]any
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return &MockPgRows{data: m.Rows}, nil
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.ExecSQL = append(m.ExecSQL, sql)
	m.ExecArgs = append(m.ExecArgs, args)
	return pgconn.CommandTag{}, nil
}

type MockPgRows struct {
	pgx.Rows
	data [][]any
	curr int
}

func (r *MockPgRows) Close()     {}
func (r *MockPgRows) Err() error { return nil }
func (r *MockPgRows) Next() bool {
	r.curr++
	return r.curr <= len(r.data)
}
func (r *MockPgRows) Scan(dest ...any) error {
	for i, val := range r.data[r.curr-1] {
		setDest(dest[i], val)
	}
	return nil
}

// MockRedis implements RedisClient over an in-memory map
type MockRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	Fail bool
}

func NewMockRedis() *MockRedis {
	return &MockRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

var errRedisDown = errors.New("redis down")

func (m *MockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return redis.NewStringResult("", errRedisDown)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *MockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return redis.NewStatusResult("", errRedisDown)
	}
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *MockRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

// MemoryMatchStore implements MatchStore in memory
type MemoryMatchStore struct {
	mu        sync.Mutex
	Matches   []models.MatchRecord
	LoadCalls int
}

func (s *MemoryMatchStore) LoadMatches(ctx context.Context) ([]models.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LoadCalls++
	out := make([]models.MatchRecord, len(s.Matches))
	copy(out, s.Matches)
	return out, nil
}

func (s *MemoryMatchStore) InsertMatches(ctx context.Context, matches []models.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Matches = append(s.Matches, matches...)
	return nil
}

// MemoryRunHistory implements RunHistory in memory
type MemoryRunHistory struct {
	mu   sync.Mutex
	Runs []models.ClusterRun
}

func (h *MemoryRunHistory) Record(ctx context.Context, run models.ClusterRun) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Runs = append(h.Runs, run)
	return nil
}

func (h *MemoryRunHistory) Recent(ctx context.Context, limit int) ([]models.ClusterRun, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit > len(h.Runs) {
		limit = len(h.Runs)
	}
	return h.Runs[:limit], nil
}
