package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

const requestTimeout = 10 * time.Second

// Hotspot is the control surface of the state machine used by the API.
type Hotspot interface {
	State() models.ApState
	StartHotspot()
	StopHotspot()
	HotspotConfig() (config.HotspotConfig, error)
	SetHotspotConfig(ctx context.Context, cfg config.HotspotConfig) error
	Stations(ctx context.Context) ([]models.StationInfo, error)
	DisconnectStation(ctx context.Context, mac address.MAC) error
	BlockList(ctx context.Context) ([]config.BlockedDevice, error)
	AddBlockList(ctx context.Context, mac address.MAC, deviceName string) error
	DelBlockList(ctx context.Context, mac address.MAC) error
	ChannelsTable() config.ChannelsTable
}

// Handler manages all API endpoints and dependencies.
type Handler struct {
	hotspot Hotspot
	iface   string
	version VersionInfo
}

// NewHandler creates a new API handler for the hotspot on interfaceName.
func NewHandler(hotspot Hotspot, interfaceName string, version VersionInfo) *Handler {
	return &Handler{
		hotspot: hotspot,
		iface:   interfaceName,
		version: version,
	}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// writeCreated writes a 201 Created response with data.
func writeCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, data)
}

// writeNoContent writes a 204 No Content response.
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON decodes JSON from the request body.
func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}
