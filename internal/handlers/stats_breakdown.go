package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/openchess/stats-api/internal/logic"
)

// GetMatchBreakdown returns an aggregate of the stored matches grouped by one dimension
// @Summary Match Breakdown
// @Tags Stats
// @Produce json
// @Param dimension query string false "variant, opening, eco, result, time_control or month"
// @Param metric query string false "games, avg_elo, avg_moves or white_score"
// @Param player query string false "Only games of this player"
// @Param variant query string false "Only this variant"
// @Param opening query string false "Opening name prefix"
// @Param from query string false "RFC3339 start"
// @Param to query string false "RFC3339 end"
// @Param limit query int false "Rows" default(100)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /stats/breakdown [get]
func (h *Handler) GetMatchBreakdown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := logic.BreakdownRequest{
		Dimension:     q.Get("dimension"),
		Metric:        q.Get("metric"),
		FilterPlayer:  strings.TrimSpace(q.Get("player")),
		FilterVariant: q.Get("variant"),
		FilterOpening: q.Get("opening"),
		Limit:         queryInt(r, "limit", 100, 1000),
	}

	var err error
	if req.StartDate, err = parseTime(q.Get("from")); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid from: "+err.Error())
		return
	}
	if req.EndDate, err = parseTime(q.Get("to")); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid to: "+err.Error())
		return
	}

	// Reject bad dimensions before touching the store
	if _, _, err := logic.BuildBreakdownQuery(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.breakdowns.Breakdown(r.Context(), req)
	if err != nil {
		h.logger.Errorw("Failed to get match breakdown", "dimension", req.Dimension, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to get match breakdown")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"dimension": req.Dimension,
		"metric":    req.Metric,
		"rows":      rows,
	})
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
