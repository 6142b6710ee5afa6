package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/openchess/stats-api/internal/models"
	"github.com/openchess/stats-api/internal/pgn"
	"github.com/openchess/stats-api/internal/worker"
)

// PGNContentType selects the PGN decoder for an ingest request.
const PGNContentType = "application/x-chess-pgn"

// IngestMatches handles POST /api/v1/ingest/matches
// @Summary Ingest Matches
// @Description Accepts newline-separated JSON match records, or a PGN file when sent as application/x-chess-pgn
// @Tags Ingestion
// @Accept json
// @Accept application/x-chess-pgn
// @Produce json
// @Param body body []models.MatchRecord true "Matches"
// @Success 202 {object} map[string]interface{} "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 413 {object} map[string]string "Payload Too Large"
// @Router /ingest/matches [post]
func (h *Handler) IngestMatches(w http.ResponseWriter, r *http.Request) {
	isPGN := false
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && mt == PGNContentType {
			isPGN = true
		}
	}

	limit := int64(MaxBodySize)
	if isPGN {
		limit = MaxPGNBodySize
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	defer r.Body.Close()

	var (
		matches  []models.MatchRecord
		rejected int
	)
	if isPGN {
		reader := pgn.NewReader(bytes.NewReader(body))
		for {
			m, err := reader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				h.logger.Warnw("Failed to read PGN", "error", err)
				h.errorResponse(w, http.StatusBadRequest, "Malformed PGN: "+err.Error())
				return
			}
			matches = append(matches, *m)
		}
		rejected = reader.SkippedTotal()
	} else {
		matches, rejected = h.decodeNDJSON(body)
	}

	processed, dropped := 0, 0
	for i, m := range matches {
		// Validate what will be stored: names are only comparable once
		// whitespace is collapsed.
		m = worker.Normalize(m)
		if err := h.validator.Struct(&m); err != nil {
			h.logger.Warnw("Validation failed for match", "error", err, "index", i)
			rejected++
			continue
		}
		if !h.pool.Enqueue(m) {
			dropped = len(matches) - i
			h.logger.Warnw("Worker pool queue full, dropping remaining matches in batch", "dropped", dropped)
			break
		}
		processed++
	}

	h.logger.Infow("Matches ingested", "format", format(isPGN), "processed", processed, "rejected", rejected, "dropped", dropped)
	h.jsonResponse(w, http.StatusAccepted, map[string]interface{}{
		"status":    "accepted",
		"processed": processed,
		"rejected":  rejected,
		"dropped":   dropped,
	})
}

// decodeNDJSON parses one match per line. Blank lines are ignored and
// undecodable lines are counted as rejected.
func (h *Handler) decodeNDJSON(body []byte) ([]models.MatchRecord, int) {
	var (
		matches  []models.MatchRecord
		rejected int
	)
	for i, line := range bytes.Split(body, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var m models.MatchRecord
		if err := json.Unmarshal(line, &m); err != nil {
			h.logger.Warnw("Failed to unmarshal match", "error", err, "lineNum", i)
			rejected++
			continue
		}
		matches = append(matches, m)
	}
	return matches, rejected
}

func format(isPGN bool) string {
	if isPGN {
		return "pgn"
	}
	return "ndjson"
}
