package api

import (
	"net/http"

	"github.com/maksimkurb/keen-softap/src/internal/config"
)

// GetStatus returns the hotspot state.
// GET /api/v1/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.hotspot.HotspotConfig()
	if err != nil {
		WriteInternalError(w, "Failed to load hotspot configuration: "+err.Error())
		return
	}

	writeJSONData(w, StatusResponse{
		Version:   h.version,
		State:     h.hotspot.State(),
		Interface: h.iface,
		SSID:      cfg.SSID,
	})
}

// ControlHotspot starts or stops the hotspot. The request returns before
// the radio is up; poll the status endpoint to follow progress.
// POST /api/v1/hotspot
func (h *Handler) ControlHotspot(w http.ResponseWriter, r *http.Request) {
	var req HotspotControlRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	var action string
	switch req.State {
	case "started":
		h.hotspot.StartHotspot()
		action = "start"
	case "stopped":
		h.hotspot.StopHotspot()
		action = "stop"
	default:
		WriteInvalidRequest(w, "state must be \"started\" or \"stopped\"")
		return
	}

	writeJSON(w, http.StatusAccepted, HotspotControlResponse{
		State:   h.hotspot.State(),
		Message: "Hotspot " + action + " requested",
	})
}

// GetHotspotConfig returns the stored hotspot configuration.
// GET /api/v1/hotspot/config
func (h *Handler) GetHotspotConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.hotspot.HotspotConfig()
	if err != nil {
		WriteInternalError(w, "Failed to load hotspot configuration: "+err.Error())
		return
	}
	writeJSONData(w, HotspotConfigResponse{Hotspot: cfg})
}

// UpdateHotspotConfig replaces the hotspot configuration. A running hotspot
// is reconfigured.
// PUT /api/v1/hotspot/config
func (h *Handler) UpdateHotspotConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.HotspotConfig
	if err := decodeJSON(r, &cfg); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := h.hotspot.SetHotspotConfig(ctx, cfg); err != nil {
		writeDomainError(w, err)
		return
	}

	stored, err := h.hotspot.HotspotConfig()
	if err != nil {
		WriteInternalError(w, "Failed to load hotspot configuration: "+err.Error())
		return
	}
	writeJSONData(w, HotspotConfigResponse{Hotspot: stored})
}

// GetChannels returns the channels supported by the radio.
// GET /api/v1/channels
func (h *Handler) GetChannels(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, ChannelsResponse{Channels: h.hotspot.ChannelsTable()})
}

// CheckHealth reports that the API is serving.
// GET /api/v1/health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, map[string]string{"status": "ok"})
}
