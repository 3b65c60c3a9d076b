package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(Recovery)
	r.Use(Logger)
	r.Use(PrivateSubnetOnly)
	r.Use(CORS)
	r.Use(JSONContentType)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.GetStatus)
		r.Get("/health", h.CheckHealth)

		// Hotspot control and configuration
		r.Post("/hotspot", h.ControlHotspot)
		r.Get("/hotspot/config", h.GetHotspotConfig)
		r.Put("/hotspot/config", h.UpdateHotspotConfig)
		r.Get("/channels", h.GetChannels)

		// Stations
		r.Get("/stations", h.GetStations)
		r.Post("/stations/{mac}/disconnect", h.DisconnectStation)

		// Blocklist
		r.Get("/blocklist", h.GetBlockList)
		r.Post("/blocklist", h.AddToBlockList)
		r.Delete("/blocklist/{mac}", h.RemoveFromBlockList)
	})

	return r
}
