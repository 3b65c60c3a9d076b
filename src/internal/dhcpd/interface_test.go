package dhcpd

import (
	"errors"
	"testing"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/log"
)

func init() {
	log.DisableLogs()
}

type fakeAddressManager struct {
	usedV4   []address.Address
	usedV6   []address.Address
	mac      address.MAC
	fetchErr error
	addErr   error

	added   []address.Address
	cleared []string
}

func (f *fakeAddressManager) FetchAddressesExcept(string) ([]address.Address, []address.Address, error) {
	return f.usedV4, f.usedV6, f.fetchErr
}

func (f *fakeAddressManager) AddAddress(_ string, addr address.Address) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, addr)
	return nil
}

func (f *fakeAddressManager) ClearAllAddresses(iface string) error {
	f.cleared = append(f.cleared, iface)
	return nil
}

func (f *fakeAddressManager) HardwareAddr(string) (address.MAC, error) {
	if !f.mac.IsValid() {
		return address.InvalidMAC, errors.New("no MAC")
	}
	return f.mac, nil
}

type fakeServer struct {
	ranges   []Range
	started  int
	stopped  int
	released int
	startErr error
	leases   []string
	leaseErr error
}

func (f *fakeServer) AddRange(r Range) error {
	f.ranges = append(f.ranges, r)
	return nil
}

func (f *fakeServer) RemoveRange(tag string) error {
	kept := f.ranges[:0]
	for _, r := range f.ranges {
		if r.Tag != tag {
			kept = append(kept, r)
		}
	}
	f.ranges = kept
	return nil
}

func (f *fakeServer) Start(string) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started++
	return nil
}

func (f *fakeServer) Stop(string) error {
	f.stopped++
	return nil
}

func (f *fakeServer) Release() error {
	f.released++
	return nil
}

func (f *fakeServer) LeaseLines() ([]string, error) { return f.leases, f.leaseErr }

func (f *fakeServer) OnExit(func(err error)) {}

func newTestInterface(t *testing.T, addrs *fakeAddressManager, server *fakeServer) *Interface {
	t.Helper()
	d, err := NewInterface(addrs, server, "192.168.62.1")
	if err != nil {
		t.Fatalf("NewInterface() error = %v", err)
	}
	return d
}

func TestStartServer_IPv4(t *testing.T) {
	addrs := &fakeAddressManager{usedV4: []address.Address{address.ParseCIDR("192.168.62.20/24")}}
	server := &fakeServer{}
	d := newTestInterface(t, addrs, server)

	binding, err := d.StartServer("wlan0", true, false)
	if err != nil {
		t.Fatalf("StartServer() error = %v", err)
	}
	if binding.IPv4.CIDR() != "192.168.63.1/24" {
		t.Errorf("IPv4 = %s, want 192.168.63.1/24", binding.IPv4.CIDR())
	}
	if binding.IPv6.IsValid() {
		t.Errorf("IPv6 should not be bound")
	}
	if len(addrs.added) != 1 || !addrs.added[0].Equal(binding.IPv4) {
		t.Errorf("added = %v", addrs.added)
	}
	if len(server.ranges) != 1 || server.ranges[0].StartIP != "192.168.63.3" || server.ranges[0].Tag != "wlan0" {
		t.Errorf("ranges = %+v", server.ranges)
	}
	if server.started != 1 {
		t.Errorf("server started %d times", server.started)
	}
	if d.Bound() != binding {
		t.Errorf("Bound() = %+v", d.Bound())
	}
}

func TestStartServer_IPv6(t *testing.T) {
	addrs := &fakeAddressManager{
		usedV6: []address.Address{address.NewIPv6("2001:db8:1:2::1", 64)},
		mac:    address.ParseMAC("00:11:22:33:44:55"),
	}
	server := &fakeServer{}
	d := newTestInterface(t, addrs, server)

	binding, err := d.StartServer("p2p-wlan0-0", true, true)
	if err != nil {
		t.Fatalf("StartServer() error = %v", err)
	}
	if binding.IPv6.String() != "2001:db8:1:2:211:22ff:fe33:4455" {
		t.Errorf("IPv6 = %s", binding.IPv6)
	}
	if len(server.ranges) != 2 {
		t.Fatalf("ranges = %+v", server.ranges)
	}
	for _, r := range server.ranges {
		if r.Tag != P2PTag {
			t.Errorf("range tag = %s, want %s", r.Tag, P2PTag)
		}
	}
}

func TestStartServer_Failures(t *testing.T) {
	tests := []struct {
		name   string
		addrs  *fakeAddressManager
		server *fakeServer
	}{
		{
			name:   "enumeration fails",
			addrs:  &fakeAddressManager{fetchErr: errors.New("netlink")},
			server: &fakeServer{},
		},
		{
			name:   "subnets exhausted",
			addrs:  &fakeAddressManager{usedV4: []address.Address{address.ParseCIDR("192.168.0.1/16")}},
			server: &fakeServer{},
		},
		{
			name:   "bind fails",
			addrs:  &fakeAddressManager{addErr: errors.New("permission denied")},
			server: &fakeServer{},
		},
		{
			name:   "service fails",
			addrs:  &fakeAddressManager{},
			server: &fakeServer{startErr: errors.New("exec: dnsmasq not found")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestInterface(t, tt.addrs, tt.server)
			if _, err := d.StartServer("wlan0", true, false); err == nil {
				t.Errorf("StartServer() should fail")
			}
			if tt.server.started != 0 {
				t.Errorf("server should not be running")
			}
		})
	}
}

func TestStopServer_Idempotent(t *testing.T) {
	addrs := &fakeAddressManager{}
	server := &fakeServer{}
	d := newTestInterface(t, addrs, server)

	if _, err := d.StartServer("wlan0", true, false); err != nil {
		t.Fatalf("StartServer() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := d.StopServer("wlan0"); err != nil {
			t.Fatalf("StopServer() #%d error = %v", i, err)
		}
	}
	if len(server.ranges) != 0 {
		t.Errorf("ranges left after stop: %+v", server.ranges)
	}
	if len(addrs.cleared) != 2 || server.released != 2 {
		t.Errorf("cleared=%v released=%d", addrs.cleared, server.released)
	}
	if d.Bound().IPv4.IsValid() {
		t.Errorf("binding should be cleared")
	}
}

func TestGetConnectedStations(t *testing.T) {
	server := &fakeServer{leases: []string{"1 aa:bb:cc:dd:ee:ff 192.168.62.9 phone *"}}
	d := newTestInterface(t, &fakeAddressManager{}, server)

	stations := d.GetConnectedStations("wlan0")
	if s, ok := stations["aa:bb:cc:dd:ee:ff"]; !ok || s.IPAddress != "192.168.62.9" {
		t.Errorf("GetConnectedStations() = %v", stations)
	}

	server.leaseErr = errors.New("permission denied")
	if got := d.GetConnectedStations("wlan0"); len(got) != 0 {
		t.Errorf("expected empty map on read error, got %v", got)
	}
}

func TestNewInterface_InvalidGateway(t *testing.T) {
	for _, gw := range []string{"not-an-ip", "10.0.5.1", "fd00::1"} {
		if _, err := NewInterface(&fakeAddressManager{}, &fakeServer{}, gw); err == nil {
			t.Errorf("expected error for gateway %q", gw)
		}
	}
}
