package mocks

import (
	"github.com/maksimkurb/keen-softap/src/internal/config"
)

// MockStore is an in-memory implementation of the domain.SettingsStore
// interface.
type MockStore struct {
	GeneralConfig config.GeneralConfig
	Hotspot       config.HotspotConfig
	Blocked       []config.BlockedDevice
	Channels      config.ChannelsTable

	HotspotConfigErr     error
	SaveHotspotConfigErr error
	SaveBlockListErr     error

	SaveHotspotConfigCalls int
	SaveBlockListCalls     int
}

// NewMockStore creates a store for interfaceName holding the default
// hotspot configuration.
func NewMockStore(interfaceName string) *MockStore {
	return &MockStore{
		GeneralConfig: config.GeneralConfig{
			Interface:   interfaceName,
			IPv4Gateway: config.DefaultIPv4Gateway,
			StateDir:    config.DefaultStateDir,
		},
		Hotspot:  config.DefaultHotspotConfig(),
		Channels: config.ChannelsTable{},
	}
}

func (m *MockStore) General() config.GeneralConfig {
	return m.GeneralConfig
}

func (m *MockStore) CountryCode() string {
	return m.GeneralConfig.CountryCode
}

func (m *MockStore) HotspotConfig() (config.HotspotConfig, error) {
	return m.Hotspot, m.HotspotConfigErr
}

func (m *MockStore) SaveHotspotConfig(cfg config.HotspotConfig) error {
	m.SaveHotspotConfigCalls++
	if m.SaveHotspotConfigErr != nil {
		return m.SaveHotspotConfigErr
	}
	m.Hotspot = cfg
	return nil
}

func (m *MockStore) BlockList() []config.BlockedDevice {
	return append([]config.BlockedDevice(nil), m.Blocked...)
}

func (m *MockStore) SaveBlockList(devices []config.BlockedDevice) error {
	m.SaveBlockListCalls++
	if m.SaveBlockListErr != nil {
		return m.SaveBlockListErr
	}
	m.Blocked = append([]config.BlockedDevice(nil), devices...)
	return nil
}

func (m *MockStore) ChannelsTable() config.ChannelsTable {
	return m.Channels
}

func (m *MockStore) SaveChannelsTable(table config.ChannelsTable) {
	m.Channels = table
}
