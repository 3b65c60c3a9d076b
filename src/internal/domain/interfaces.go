// Package domain defines core interfaces for dependency injection and abstraction.
//
// The state machine and the facade depend on these interfaces only, so every
// collaborator touching the host (radio, DHCP daemon, firewall, settings file)
// can be replaced by a mock in tests.
package domain

import (
	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/dhcpd"
	"github.com/maksimkurb/keen-softap/src/internal/hal"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

// SettingsStore holds the persisted hotspot settings.
//
// The store is read at every hotspot start and written whenever the hotspot
// configuration or the blocklist changes.
type SettingsStore interface {
	// General returns the interface and network settings.
	General() config.GeneralConfig

	// CountryCode returns the configured regulatory domain, possibly empty.
	CountryCode() string

	// HotspotConfig returns the persisted access point configuration.
	HotspotConfig() (config.HotspotConfig, error)

	// SaveHotspotConfig validates and persists an access point configuration.
	SaveHotspotConfig(cfg config.HotspotConfig) error

	BlockList() []config.BlockedDevice
	SaveBlockList(devices []config.BlockedDevice) error

	// ChannelsTable returns the channels table cached for the session.
	ChannelsTable() config.ChannelsTable
	SaveChannelsTable(table config.ChannelsTable)
}

// HotspotDriver controls the radio. See hal.Driver.
type HotspotDriver = hal.Driver

// DhcpService binds addresses to the hotspot interface and serves DHCP on it.
type DhcpService interface {
	// StartServer selects non-conflicting addresses, binds them to the
	// interface and starts the DHCP daemon.
	StartServer(interfaceName string, wantIPv4, wantIPv6 bool) (dhcpd.Binding, error)

	// StopServer stops the DHCP daemon and clears the interface addresses.
	// It is safe to call on a stopped server.
	StopServer(interfaceName string) error

	// GetConnectedStations parses the lease table, keyed by MAC.
	GetConnectedStations(interfaceName string) map[string]models.StationInfo

	// Bound returns the addresses of the running server.
	Bound() dhcpd.Binding
}

// NatController toggles internet sharing.
type NatController interface {
	// SetNat returns false only when the interface names are rejected.
	SetNat(enable bool, inInterface, outInterface string) bool
}

// InterfaceInspector lists interface addresses for diagnostics.
type InterfaceInspector interface {
	FetchAddresses(interfaceName string) ([]address.Address, []address.Address, error)
	HardwareAddr(interfaceName string) (address.MAC, error)
}
