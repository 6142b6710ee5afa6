package logic

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openchess/stats-api/internal/models"
)

const clusterRunsSchema = `
CREATE TABLE IF NOT EXISTS cluster_runs (
	id               UUID PRIMARY KEY,
	num_clusters     INTEGER NOT NULL,
	mode             TEXT NOT NULL,
	x_axis           TEXT NOT NULL,
	y_axis           TEXT NOT NULL,
	entities         INTEGER NOT NULL,
	features         INTEGER NOT NULL,
	silhouette_score DOUBLE PRECISION,
	iterations       INTEGER NOT NULL,
	duration_ms      BIGINT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresRunHistory is the RunHistory kept in Postgres.
type PostgresRunHistory struct {
	pg PgPool
}

// NewRunHistory returns a RunHistory backed by the Postgres cluster_runs
// table.
func NewRunHistory(pg PgPool) *PostgresRunHistory {
	return &PostgresRunHistory{pg: pg}
}

func (h *PostgresRunHistory) Name() string { return "postgres" }

func (h *PostgresRunHistory) EnsureSchema(ctx context.Context) error {
	if _, err := h.pg.Exec(ctx, clusterRunsSchema); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	return nil
}

func (h *PostgresRunHistory) Record(ctx context.Context, run models.ClusterRun) error {
	_, err := h.pg.Exec(ctx, `
		INSERT INTO cluster_runs (
			id, num_clusters, mode, x_axis, y_axis, entities, features,
			silhouette_score, iterations, duration_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`, run.ID, run.NumClusters, string(run.Mode), run.XAxis, run.YAxis, run.Entities, run.Features,
		run.SilhouetteScore, run.Iterations, run.DurationMs, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cluster run: %w", err)
	}
	return nil
}

func (h *PostgresRunHistory) Recent(ctx context.Context, limit int) ([]models.ClusterRun, error) {
	rows, err := h.pg.Query(ctx, `
		SELECT id, num_clusters, mode, x_axis, y_axis, entities, features,
			silhouette_score, iterations, duration_ms, created_at
		FROM cluster_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cluster runs: %w", err)
	}
	defer rows.Close()

	runs := []models.ClusterRun{}
	for rows.Next() {
		var (
			r    models.ClusterRun
			id   uuid.UUID
			mode string
		)
		if err := rows.Scan(&id, &r.NumClusters, &mode, &r.XAxis, &r.YAxis, &r.Entities, &r.Features,
			&r.SilhouetteScore, &r.Iterations, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cluster run: %w", err)
		}
		r.ID = id.String()
		r.Mode = models.ClusterMode(mode)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
