package models

// Numeric feature column names understood by fixed-axis clustering.
const (
	ColumnGames          = "games"
	ColumnAvgElo         = "avg_elo"
	ColumnAvgOpponentElo = "avg_opponent_elo"
	ColumnWinRate        = "win_rate"
	ColumnAvgMoves       = "avg_moves"
)

// NumericColumns lists every numeric per-player column in a stable order.
var NumericColumns = []string{
	ColumnGames,
	ColumnAvgElo,
	ColumnAvgOpponentElo,
	ColumnWinRate,
	ColumnAvgMoves,
}

// EntityFeatureRecord is the aggregate of every match a player appears in.
type EntityFeatureRecord struct {
	Player            string   `json:"player"`
	Games             int      `json:"games"`
	AvgElo            float64  `json:"avg_elo"`
	AvgOpponentElo    float64  `json:"avg_opponent_elo"`
	Wins              int      `json:"wins"`
	Losses            int      `json:"losses"`
	Draws             int      `json:"draws"`
	WinRate           float64  `json:"win_rate"`
	AvgMoves          float64  `json:"avg_moves"`
	MostCommonVariant string   `json:"most_common_variant,omitempty"`
	MostCommonOpening string   `json:"most_common_opening,omitempty"`
	Variants          CountMap `json:"variants"`
	Openings          CountMap `json:"openings"`
}

// Numeric returns the value of a named numeric column.
func (r *EntityFeatureRecord) Numeric(column string) (float64, bool) {
	switch column {
	case ColumnGames:
		return float64(r.Games), true
	case ColumnAvgElo:
		return r.AvgElo, true
	case ColumnAvgOpponentElo:
		return r.AvgOpponentElo, true
	case ColumnWinRate:
		return r.WinRate, true
	case ColumnAvgMoves:
		return r.AvgMoves, true
	}
	return 0, false
}

// IsNumericColumn reports whether column names a numeric feature.
func IsNumericColumn(column string) bool {
	for _, c := range NumericColumns {
		if c == column {
			return true
		}
	}
	return false
}
