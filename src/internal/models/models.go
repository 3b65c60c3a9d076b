// Package models holds the value types shared by the hotspot control plane.
package models

import "github.com/maksimkurb/keen-softap/src/internal/address"

const (
	// Obtaining stands in for a station's name or IP until DHCP assigns one.
	Obtaining = "obtaining..."
	// Unknown replaces host names that are not valid DNS labels.
	Unknown = "unknown"
)

// StationInfo describes a client device associated with the hotspot.
type StationInfo struct {
	DeviceName string      `json:"device_name"`
	MAC        address.MAC `json:"mac_address"`
	IPAddress  string      `json:"ip_address"`
}

// NewJoiningStation returns the placeholder record for a station that has
// associated but not completed DHCP.
func NewJoiningStation(mac address.MAC) StationInfo {
	return StationInfo{DeviceName: Obtaining, MAC: mac, IPAddress: Obtaining}
}

// Resolved reports whether DHCP filled in the station's address.
func (s StationInfo) Resolved() bool {
	return s.IPAddress != Obtaining && s.IPAddress != ""
}

// ApState is the externally visible hotspot state.
type ApState int

const (
	ApStateIdle ApState = iota
	ApStateStarting
	ApStateStarted
	ApStateClosing
)

func (s ApState) String() string {
	switch s {
	case ApStateIdle:
		return "idle"
	case ApStateStarting:
		return "starting"
	case ApStateStarted:
		return "started"
	case ApStateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

func (s ApState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
