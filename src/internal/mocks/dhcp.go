package mocks

import (
	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/dhcpd"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

// MockDhcpService is a mock implementation of the domain.DhcpService interface.
type MockDhcpService struct {
	StartServerFunc          func(interfaceName string, wantIPv4, wantIPv6 bool) (dhcpd.Binding, error)
	StopServerFunc           func(interfaceName string) error
	GetConnectedStationsFunc func(interfaceName string) map[string]models.StationInfo

	bound dhcpd.Binding

	// Track calls for verification in tests
	StartServerCalls int
	StopServerCalls  int
}

// NewMockDhcpService creates a mock that binds 192.168.62.1/24 on start.
func NewMockDhcpService() *MockDhcpService {
	return &MockDhcpService{}
}

func (m *MockDhcpService) StartServer(interfaceName string, wantIPv4, wantIPv6 bool) (dhcpd.Binding, error) {
	m.StartServerCalls++
	if m.StartServerFunc != nil {
		b, err := m.StartServerFunc(interfaceName, wantIPv4, wantIPv6)
		if err == nil {
			m.bound = b
		}
		return b, err
	}
	m.bound = dhcpd.Binding{IPv4: address.NewIPv4("192.168.62.1", 24), IPv6: address.Invalid}
	return m.bound, nil
}

func (m *MockDhcpService) StopServer(interfaceName string) error {
	m.StopServerCalls++
	m.bound = dhcpd.Binding{}
	if m.StopServerFunc != nil {
		return m.StopServerFunc(interfaceName)
	}
	return nil
}

func (m *MockDhcpService) GetConnectedStations(interfaceName string) map[string]models.StationInfo {
	if m.GetConnectedStationsFunc != nil {
		return m.GetConnectedStationsFunc(interfaceName)
	}
	return map[string]models.StationInfo{}
}

func (m *MockDhcpService) Bound() dhcpd.Binding {
	return m.bound
}

// MockDhcpServer is a mock implementation of the dhcpd.Server interface.
type MockDhcpServer struct {
	StartFunc      func(interfaceName string) error
	LeaseLinesFunc func() ([]string, error)

	Ranges []dhcpd.Range
	Exit   func(err error)

	StartCalls   int
	StopCalls    int
	ReleaseCalls int
}

func (m *MockDhcpServer) AddRange(r dhcpd.Range) error {
	m.Ranges = append(m.Ranges, r)
	return nil
}

func (m *MockDhcpServer) RemoveRange(tag string) error {
	kept := m.Ranges[:0]
	for _, r := range m.Ranges {
		if r.Tag != tag {
			kept = append(kept, r)
		}
	}
	m.Ranges = kept
	return nil
}

func (m *MockDhcpServer) Start(interfaceName string) error {
	m.StartCalls++
	if m.StartFunc != nil {
		return m.StartFunc(interfaceName)
	}
	return nil
}

func (m *MockDhcpServer) Stop(string) error {
	m.StopCalls++
	return nil
}

func (m *MockDhcpServer) LeaseLines() ([]string, error) {
	if m.LeaseLinesFunc != nil {
		return m.LeaseLinesFunc()
	}
	return nil, nil
}

func (m *MockDhcpServer) OnExit(fn func(err error)) {
	m.Exit = fn
}

func (m *MockDhcpServer) Release() error {
	m.ReleaseCalls++
	return nil
}
