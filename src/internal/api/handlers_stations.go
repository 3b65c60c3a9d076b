package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/keen-softap/src/internal/address"
)

// GetStations returns the connected stations.
// GET /api/v1/stations
func (h *Handler) GetStations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	stations, err := h.hotspot.Stations(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONData(w, StationsResponse{Stations: stations})
}

// DisconnectStation kicks a station off the hotspot.
// POST /api/v1/stations/{mac}/disconnect
func (h *Handler) DisconnectStation(w http.ResponseWriter, r *http.Request) {
	mac, ok := macParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := h.hotspot.DisconnectStation(ctx, mac); err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// GetBlockList returns the blocked devices.
// GET /api/v1/blocklist
func (h *Handler) GetBlockList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	devices, err := h.hotspot.BlockList(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONData(w, BlockListResponse{Devices: devices})
}

// AddToBlockList blocks a device.
// POST /api/v1/blocklist
func (h *Handler) AddToBlockList(w http.ResponseWriter, r *http.Request) {
	var req BlockRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}
	mac := address.ParseMAC(req.MAC)
	if !mac.IsValid() {
		WriteInvalidRequest(w, "Invalid MAC address: "+req.MAC)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := h.hotspot.AddBlockList(ctx, mac, req.DeviceName); err != nil {
		writeDomainError(w, err)
		return
	}
	writeCreated(w, BlockRequest{MAC: mac.String(), DeviceName: req.DeviceName})
}

// RemoveFromBlockList unblocks a device.
// DELETE /api/v1/blocklist/{mac}
func (h *Handler) RemoveFromBlockList(w http.ResponseWriter, r *http.Request) {
	mac, ok := macParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := h.hotspot.DelBlockList(ctx, mac); err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

func macParam(w http.ResponseWriter, r *http.Request) (address.MAC, bool) {
	raw := chi.URLParam(r, "mac")
	mac := address.ParseMAC(raw)
	if !mac.IsValid() {
		WriteInvalidRequest(w, "Invalid MAC address: "+raw)
		return address.InvalidMAC, false
	}
	return mac, true
}
