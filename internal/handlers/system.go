package handlers

import (
	"net/http"
)

// InstallDatabase creates the tables each configured store needs
// @Summary Install Database Schema
// @Description Creates the ClickHouse matches table and the PostgreSQL cluster_runs table
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /system/install [post]
func (h *Handler) InstallDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results := make(map[string]string, len(h.schemas))
	hasError := false

	for _, s := range h.schemas {
		if err := s.EnsureSchema(ctx); err != nil {
			h.logger.Errorw("failed to install schema", "db", s.Name(), "error", err)
			results[s.Name()] = "failed: " + err.Error()
			hasError = true
			continue
		}
		h.logger.Infow("successfully installed schema", "db", s.Name())
		results[s.Name()] = "success"
	}

	statusCode := http.StatusOK
	if hasError {
		statusCode = http.StatusInternalServerError
	}

	h.jsonResponse(w, statusCode, map[string]interface{}{
		"status":  "completed",
		"results": results,
		"error":   hasError,
	})
}
