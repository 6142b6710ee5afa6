package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openchess/stats-api/internal/analytics"
)

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check all dependencies
	checks := make(map[string]bool, len(h.deps))
	allHealthy := true
	for name, dep := range h.deps {
		err := dep.Ping(ctx)
		checks[name] = err == nil
		if err != nil {
			h.logger.Warnw("Readiness check failed", "dependency", name, "error", err)
			allHealthy = false
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	queued := 0
	if h.pool != nil {
		queued = h.pool.QueueDepth()
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":      allHealthy,
		"checks":     checks,
		"queueDepth": queued,
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// analyticsError maps pipeline errors to a status: caller mistakes are 400
// with their kind, an unknown player is 404, anything else is logged and 500.
func (h *Handler) analyticsError(w http.ResponseWriter, err error, message string) {
	switch {
	case analytics.IsValidation(err):
		h.jsonResponse(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
			"kind":  analytics.ErrorKind(err),
		})
	case errors.Is(err, analytics.ErrPlayerNotFound):
		h.jsonResponse(w, http.StatusNotFound, map[string]string{
			"error": err.Error(),
			"kind":  analytics.ErrorKind(err),
		})
	default:
		h.logger.Errorw(message, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, message)
	}
}

// queryInt reads an integer query parameter clamped to [1, max].
func queryInt(r *http.Request, key string, def, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
