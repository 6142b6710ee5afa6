package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/openchess/stats-api/internal/analytics"
	"github.com/openchess/stats-api/internal/models"
)

// RunKMeans handles POST /api/v1/kmeans
// @Summary Cluster Players
// @Description Groups players by k-means over fixed axes or every aggregated feature
// @Tags Clustering
// @Accept json
// @Produce json
// @Param body body models.ClusterRequest false "Clustering parameters"
// @Success 200 {object} models.ClusterResult
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Internal Error"
// @Router /kmeans [post]
func (h *Handler) RunKMeans(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	var req models.ClusterRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}
	req = req.WithDefaults()

	if err := h.validator.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "NumClusters" {
					err = fmt.Errorf("%w: num_clusters must be in [1, 50], got %d", analytics.ErrInvalidClusterCount, req.NumClusters)
					h.analyticsError(w, err, "Invalid cluster count")
					return
				}
			}
		}
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.clustering.Cluster(r.Context(), req)
	if err != nil {
		h.analyticsError(w, err, "Failed to cluster players")
		return
	}

	h.jsonResponse(w, http.StatusOK, res)
}

// ListClusterRuns handles GET /api/v1/kmeans/runs
// @Summary Recent Clustering Runs
// @Tags Clustering
// @Produce json
// @Param limit query int false "Number of runs" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /kmeans/runs [get]
func (h *Handler) ListClusterRuns(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20, 200)

	runs, err := h.clustering.Runs(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("Failed to list cluster runs", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to list cluster runs")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{"runs": runs})
}
