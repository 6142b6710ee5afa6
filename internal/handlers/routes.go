package handlers

import (
	"github.com/go-chi/chi/v5"
)

// Mount registers the API routes under /api/v1 and the probes at the root.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ingest/matches", h.IngestMatches)

		r.Post("/kmeans", h.RunKMeans)
		r.Get("/kmeans/runs", h.ListClusterRuns)

		r.Get("/players/examples", h.GetExampleUsers)
		r.Get("/players/top", h.GetTopPlayers)
		r.Get("/players/{username}", h.GetPlayerProfile)

		r.Get("/stats/breakdown", h.GetMatchBreakdown)

		r.Post("/system/install", h.InstallDatabase)
	})
}
