package mocks

import (
	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/hal"
)

// MockDriver is a mock implementation of the hal.Driver interface.
//
// Unset function fields succeed. Registered events are kept so tests can
// fire them through Events.
type MockDriver struct {
	Interface string

	EnableAPFunc       func() error
	DisableAPFunc      func() error
	SetConfigFunc      func(cfg config.HotspotConfig) error
	StationsFunc       func() ([]address.MAC, error)
	AddBlockFunc       func(mac address.MAC) error
	DelBlockFunc       func(mac address.MAC) error
	DisconnectFunc     func(mac address.MAC) error
	FrequenciesFunc    func(band config.Band) ([]int, error)
	SetCountryCodeFunc func(code string) error

	Events hal.Events

	// Track calls for verification in tests
	EnableAPCalls       int
	DisableAPCalls      int
	SetConfigCalls      []config.HotspotConfig
	AddBlockCalls       []address.MAC
	DelBlockCalls       []address.MAC
	DisconnectCalls     []address.MAC
	SetCountryCodeCalls []string
}

// NewMockDriver creates a mock driver for interfaceName with default behavior.
func NewMockDriver(interfaceName string) *MockDriver {
	return &MockDriver{Interface: interfaceName}
}

func (m *MockDriver) InterfaceName() string {
	return m.Interface
}

func (m *MockDriver) EnableAP() error {
	m.EnableAPCalls++
	if m.EnableAPFunc != nil {
		return m.EnableAPFunc()
	}
	return nil
}

func (m *MockDriver) DisableAP() error {
	m.DisableAPCalls++
	if m.DisableAPFunc != nil {
		return m.DisableAPFunc()
	}
	return nil
}

func (m *MockDriver) SetConfig(cfg config.HotspotConfig) error {
	m.SetConfigCalls = append(m.SetConfigCalls, cfg)
	if m.SetConfigFunc != nil {
		return m.SetConfigFunc(cfg)
	}
	return nil
}

func (m *MockDriver) Stations() ([]address.MAC, error) {
	if m.StationsFunc != nil {
		return m.StationsFunc()
	}
	return nil, nil
}

func (m *MockDriver) AddBlock(mac address.MAC) error {
	m.AddBlockCalls = append(m.AddBlockCalls, mac)
	if m.AddBlockFunc != nil {
		return m.AddBlockFunc(mac)
	}
	return nil
}

func (m *MockDriver) DelBlock(mac address.MAC) error {
	m.DelBlockCalls = append(m.DelBlockCalls, mac)
	if m.DelBlockFunc != nil {
		return m.DelBlockFunc(mac)
	}
	return nil
}

func (m *MockDriver) Disconnect(mac address.MAC) error {
	m.DisconnectCalls = append(m.DisconnectCalls, mac)
	if m.DisconnectFunc != nil {
		return m.DisconnectFunc(mac)
	}
	return nil
}

// Frequencies returns channels 1-11 for 2.4GHz and 36-48 for 5GHz by default.
func (m *MockDriver) Frequencies(band config.Band) ([]int, error) {
	if m.FrequenciesFunc != nil {
		return m.FrequenciesFunc(band)
	}
	switch band {
	case config.Band24GHz:
		return []int{2412, 2417, 2422, 2427, 2432, 2437, 2442, 2447, 2452, 2457, 2462}, nil
	case config.Band5GHz:
		return []int{5180, 5200, 5220, 5240}, nil
	default:
		return nil, nil
	}
}

func (m *MockDriver) SetCountryCode(code string) error {
	m.SetCountryCodeCalls = append(m.SetCountryCodeCalls, code)
	if m.SetCountryCodeFunc != nil {
		return m.SetCountryCodeFunc(code)
	}
	return nil
}

func (m *MockDriver) RegisterEvents(ev hal.Events) {
	m.Events = ev
}
