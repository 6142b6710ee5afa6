package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/openchess/stats-api/internal/models"
)

// Column name prefixes for label-count columns in all-features mode.
const (
	variantColumnPrefix = "variant:"
	openingColumnPrefix = "opening:"
)

// baseColumns are the leading columns of an all-features matrix.
var baseColumns = []string{
	models.ColumnGames,
	models.ColumnAvgElo,
	models.ColumnAvgOpponentElo,
}

// FeatureMatrix is a dense numeric table with one row per player. Every row
// has len(Columns) values.
type FeatureMatrix struct {
	Columns []string
	Players []string
	Rows    [][]float64

	// Vocabularies used to build the label-count columns (all-features only).
	Variants []string
	Openings []string
}

// Shape returns (rows, columns).
func (m *FeatureMatrix) Shape() (int, int) {
	return len(m.Rows), len(m.Columns)
}

// Column returns a copy of column j.
func (m *FeatureMatrix) Column(j int) []float64 {
	out := make([]float64, len(m.Rows))
	for i, row := range m.Rows {
		out[i] = row[j]
	}
	return out
}

// BuildMatrix builds the feature matrix for the requested mode.
func BuildMatrix(records []models.EntityFeatureRecord, mode models.ClusterMode, xAxis, yAxis string) (*FeatureMatrix, error) {
	switch mode {
	case models.ModeFixed, "":
		return BuildFixedMatrix(records, xAxis, yAxis)
	case models.ModeAllFeatures:
		return BuildAllFeaturesMatrix(records)
	}
	return nil, fmt.Errorf("unknown cluster mode %q", mode)
}

// BuildFixedMatrix builds a two-column matrix from two named numeric columns.
func BuildFixedMatrix(records []models.EntityFeatureRecord, xAxis, yAxis string) (*FeatureMatrix, error) {
	for _, axis := range []string{xAxis, yAxis} {
		if !models.IsNumericColumn(axis) {
			return nil, fmt.Errorf("%w: %q is not a feature column", ErrInvalidAxis, axis)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no players to cluster", ErrEmptyInput)
	}

	m := &FeatureMatrix{
		Columns: []string{xAxis, yAxis},
		Players: make([]string, len(records)),
		Rows:    make([][]float64, len(records)),
	}
	for i := range records {
		r := &records[i]
		x, _ := r.Numeric(xAxis)
		y, _ := r.Numeric(yAxis)
		m.Players[i] = r.Player
		m.Rows[i] = []float64{x, y}
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// BuildAllFeaturesMatrix builds [games, avg_elo, avg_opponent_elo] followed by
// one count column per variant label and one per opening label seen anywhere
// in records. Both vocabularies are sorted; labels a player never played are
// filled with 0.
func BuildAllFeaturesMatrix(records []models.EntityFeatureRecord) (*FeatureMatrix, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no players to cluster", ErrEmptyInput)
	}

	variants := vocabulary(records, func(r *models.EntityFeatureRecord) models.CountMap { return r.Variants })
	openings := vocabulary(records, func(r *models.EntityFeatureRecord) models.CountMap { return r.Openings })

	columns := make([]string, 0, len(baseColumns)+len(variants)+len(openings))
	columns = append(columns, baseColumns...)
	for _, v := range variants {
		columns = append(columns, variantColumnPrefix+v)
	}
	for _, o := range openings {
		columns = append(columns, openingColumnPrefix+o)
	}

	m := &FeatureMatrix{
		Columns:  columns,
		Players:  make([]string, len(records)),
		Rows:     make([][]float64, len(records)),
		Variants: variants,
		Openings: openings,
	}
	for i := range records {
		r := &records[i]
		row := make([]float64, 0, len(columns))
		row = append(row, float64(r.Games), r.AvgElo, r.AvgOpponentElo)
		for _, v := range variants {
			row = append(row, float64(r.Variants.Get(v)))
		}
		for _, o := range openings {
			row = append(row, float64(r.Openings.Get(o)))
		}
		m.Players[i] = r.Player
		m.Rows[i] = row
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// vocabulary returns the sorted union of labels across records.
func vocabulary(records []models.EntityFeatureRecord, counts func(*models.EntityFeatureRecord) models.CountMap) []string {
	seen := make(map[string]struct{})
	for i := range records {
		for _, k := range counts(&records[i]).Keys() {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// validate rejects any column holding a NaN or infinite value so the
// clustering engine only ever sees finite numbers.
func (m *FeatureMatrix) validate() error {
	for j, name := range m.Columns {
		for i, row := range m.Rows {
			if v := row[j]; math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %q has undefined value for %q", ErrInvalidFeatureColumn, name, m.Players[i])
			}
		}
	}
	return nil
}
