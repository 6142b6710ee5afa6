package logic

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/openchess/stats-api/internal/models"
)

const matchesSchema = `
CREATE TABLE IF NOT EXISTS chess_stats.matches (
	id           String,
	event        String,
	white        String,
	black        String,
	white_elo    Int32,
	black_elo    Int32,
	result       LowCardinality(String),
	eco          LowCardinality(String),
	opening      String,
	moves        Int32,
	time_control LowCardinality(String),
	variant      LowCardinality(String),
	played_at    DateTime64(3, 'UTC'),
	seq          UInt64,
	ingested_at  DateTime64(3, 'UTC') DEFAULT now64(3)
) ENGINE = ReplacingMergeTree(ingested_at)
ORDER BY id`

// Tables created before seq existed gain it here; old rows read as 0 and
// keep sorting ahead of everything ingested since.
const matchesSeqColumn = `ALTER TABLE chess_stats.matches ADD COLUMN IF NOT EXISTS seq UInt64 AFTER played_at`

// ClickHouseMatchStore is the MatchStore kept in ClickHouse.
type ClickHouseMatchStore struct {
	ch  driver.Conn
	now func() time.Time

	// seq is the last arrival sequence number handed out.
	seq atomic.Uint64
}

// NewMatchStore returns a MatchStore backed by the ClickHouse matches table.
func NewMatchStore(ch driver.Conn) *ClickHouseMatchStore {
	return &ClickHouseMatchStore{ch: ch, now: time.Now}
}

// reserveSeq hands out n consecutive arrival numbers. They start at the wall
// clock in nanoseconds so a restarted process keeps counting upwards, and
// never repeat across concurrent batches.
func (s *ClickHouseMatchStore) reserveSeq(n int) uint64 {
	for {
		last := s.seq.Load()
		start := max(last+1, uint64(s.now().UnixNano()))
		if s.seq.CompareAndSwap(last, start+uint64(n)-1) {
			return start
		}
	}
}

func (s *ClickHouseMatchStore) Name() string { return "clickhouse" }

func (s *ClickHouseMatchStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{"CREATE DATABASE IF NOT EXISTS chess_stats", matchesSchema, matchesSeqColumn} {
		if err := s.ch.Exec(ctx, strings.TrimSpace(stmt)); err != nil {
			return fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	return nil
}

// LoadMatches reads the whole log in arrival order. Re-ingested games are
// collapsed by id.
func (s *ClickHouseMatchStore) LoadMatches(ctx context.Context) ([]models.MatchRecord, error) {
	rows, err := s.ch.Query(ctx, `
		SELECT id, event, white, black, white_elo, black_elo, result, eco,
			opening, moves, time_control, variant, played_at
		FROM chess_stats.matches FINAL
		ORDER BY seq, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []models.MatchRecord
	for rows.Next() {
		var (
			m                         models.MatchRecord
			whiteElo, blackElo, moves int32
			result                    string
		)
		if err := rows.Scan(
			&m.ID, &m.Event, &m.White, &m.Black, &whiteElo, &blackElo, &result, &m.ECO,
			&m.Opening, &moves, &m.TimeControl, &m.Variant, &m.PlayedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.WhiteElo, m.BlackElo, m.Moves = int(whiteElo), int(blackElo), int(moves)
		m.Result = models.Result(result)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

// InsertMatches writes matches in one ClickHouse batch, numbering them in
// slice order.
func (s *ClickHouseMatchStore) InsertMatches(ctx context.Context, matches []models.MatchRecord) error {
	if len(matches) == 0 {
		return nil
	}

	batch, err := s.ch.PrepareBatch(ctx, `
		INSERT INTO chess_stats.matches (
			id, event, white, black, white_elo, black_elo, result, eco,
			opening, moves, time_control, variant, played_at, seq
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	first := s.reserveSeq(len(matches))
	for i := range matches {
		m := &matches[i]
		playedAt := m.PlayedAt
		if playedAt.IsZero() {
			playedAt = time.Unix(0, 0).UTC()
		}
		if err := batch.Append(
			m.ID, m.Event, m.White, m.Black, int32(m.WhiteElo), int32(m.BlackElo), string(m.Result), m.ECO,
			m.Opening, int32(m.Moves), m.TimeControl, m.VariantLabel(), playedAt, first+uint64(i),
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append match %s: %w", m.ID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Breakdown runs an aggregate query built from req.
func (s *ClickHouseMatchStore) Breakdown(ctx context.Context, req BreakdownRequest) ([]models.BreakdownRow, error) {
	query, args, err := BuildBreakdownQuery(req)
	if err != nil {
		return nil, err
	}

	rows, err := s.ch.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query breakdown: %w", err)
	}
	defer rows.Close()

	out := []models.BreakdownRow{}
	for rows.Next() {
		var r models.BreakdownRow
		if err := rows.Scan(&r.Value, &r.Label); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
