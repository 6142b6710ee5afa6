package logic

import (
	"fmt"
	"time"
)

// BreakdownRequest holds parameters for an aggregate query over the match log
type BreakdownRequest struct {
	Dimension     string    `json:"dimension"`      // Group by: variant, opening, eco, result, time_control
	Metric        string    `json:"metric"`         // Select: games, avg_elo, avg_moves, white_score
	FilterPlayer  string    `json:"filter_player"`  // WHERE white = ? OR black = ?
	FilterVariant string    `json:"filter_variant"` // WHERE variant = ?
	FilterOpening string    `json:"filter_opening"` // WHERE opening LIKE 'family%'
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Limit         int       `json:"limit"`
}

// allowedDimensions maps safe API values to SQL columns
var allowedDimensions = map[string]string{
	"variant":      "variant",
	"opening":      "splitByRegexp('[:#,]', opening)[1]",
	"eco":          "eco",
	"result":       "result",
	"time_control": "time_control",
	"month":        "toStartOfMonth(played_at)",
}

// BuildBreakdownQuery constructs a safe ClickHouse SQL query
func BuildBreakdownQuery(req BreakdownRequest) (string, []interface{}, error) {
	// 1. Validate Dimension
	groupByCol, ok := allowedDimensions[req.Dimension]
	if !ok && req.Dimension != "" {
		return "", nil, fmt.Errorf("invalid dimension: %s", req.Dimension)
	}

	// 2. Select Clause (Metric)
	var selectClause string
	switch req.Metric {
	case "", "games":
		selectClause = "toFloat64(count())"
	case "avg_elo":
		selectClause = "avg((white_elo + black_elo) / 2)"
	case "avg_moves":
		selectClause = "avg(moves)"
	case "white_score":
		// Draws count half, as in a tournament table
		selectClause = "(countIf(result = '1-0') + countIf(result = '1/2-1/2') / 2) / count() * 100"
	default:
		return "", nil, fmt.Errorf("invalid metric: %s", req.Metric)
	}

	// 3. Build Query
	query := fmt.Sprintf("SELECT %s AS value", selectClause)
	var args []interface{}

	if groupByCol != "" {
		query += fmt.Sprintf(", toString(%s) AS label", groupByCol)
	} else {
		query += ", 'all' AS label"
	}

	query += " FROM chess_stats.matches FINAL WHERE 1=1"

	// 4. Filters
	if req.FilterPlayer != "" {
		query += " AND (white = ? OR black = ?)"
		args = append(args, req.FilterPlayer, req.FilterPlayer)
	}
	if req.FilterVariant != "" {
		query += " AND variant = ?"
		args = append(args, req.FilterVariant)
	}
	if req.FilterOpening != "" {
		query += " AND opening LIKE ?"
		args = append(args, req.FilterOpening+"%")
	}
	if !req.StartDate.IsZero() {
		query += " AND played_at >= ?"
		args = append(args, req.StartDate)
	}
	if !req.EndDate.IsZero() {
		query += " AND played_at <= ?"
		args = append(args, req.EndDate)
	}

	// 5. Group By
	if groupByCol != "" {
		query += " GROUP BY label"
	}

	// 6. Order By
	query += " ORDER BY value DESC, label"

	// 7. Limit
	limit := req.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	return query, args, nil
}
