package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GetPlayerProfile returns the statistical profile of one player
// @Summary Player Profile
// @Tags Players
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.PlayerProfile
// @Failure 404 {object} map[string]string "Unknown player"
// @Router /players/{username} [get]
func (h *Handler) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		h.errorResponse(w, http.StatusBadRequest, "Missing username")
		return
	}

	profile, err := h.playerStats.Profile(r.Context(), username)
	if err != nil {
		h.analyticsError(w, err, "Failed to get player profile")
		return
	}

	h.jsonResponse(w, http.StatusOK, profile)
}

// GetExampleUsers returns the most active usernames
// @Summary Example Users
// @Tags Players
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /players/examples [get]
func (h *Handler) GetExampleUsers(w http.ResponseWriter, r *http.Request) {
	names, err := h.playerStats.ExampleUsernames(r.Context())
	if err != nil {
		h.analyticsError(w, err, "Failed to get example users")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{"examples": names})
}

// GetTopPlayers returns profiles of players over the games threshold
// @Summary Top Players
// @Tags Players
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /players/top [get]
func (h *Handler) GetTopPlayers(w http.ResponseWriter, r *http.Request) {
	top, err := h.playerStats.TopPlayers(r.Context())
	if err != nil {
		h.analyticsError(w, err, "Failed to get top players")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{"top_players": top})
}
