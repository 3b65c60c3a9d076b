package api

import (
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// StatusResponse returns the hotspot status.
type StatusResponse struct {
	Version   VersionInfo    `json:"version"`
	State     models.ApState `json:"state"`
	Interface string         `json:"interface"`
	SSID      string         `json:"ssid"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// HotspotControlRequest starts or stops the hotspot.
type HotspotControlRequest struct {
	State string `json:"state"` // "started", "stopped"
}

type HotspotControlResponse struct {
	State   models.ApState `json:"state"`
	Message string         `json:"message,omitempty"`
}

type HotspotConfigResponse struct {
	Hotspot config.HotspotConfig `json:"hotspot"`
}

type StationsResponse struct {
	Stations []models.StationInfo `json:"stations"`
}

type BlockListResponse struct {
	Devices []config.BlockedDevice `json:"devices"`
}

// BlockRequest adds a device to the blocklist.
type BlockRequest struct {
	MAC        string `json:"mac"`
	DeviceName string `json:"device_name,omitempty"`
}

// ChannelsResponse lists the channels supported per band. Empty until the
// hotspot was started once.
type ChannelsResponse struct {
	Channels config.ChannelsTable `json:"channels"`
}
