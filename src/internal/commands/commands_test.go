package commands

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/vishvananda/netlink"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/domain"
	"github.com/maksimkurb/keen-softap/src/internal/hal"
	"github.com/maksimkurb/keen-softap/src/internal/mocks"
	"github.com/maksimkurb/keen-softap/src/internal/models"
	"github.com/maksimkurb/keen-softap/src/internal/networking"
)

const iwOutput = `Wiphy phy0
	Band 1:
		Frequencies:
			* 2412 MHz [1] (20.0 dBm)
			* 2437 MHz [6] (20.0 dBm)
	Band 2:
		Frequencies:
			* 5180 MHz [36] (23.0 dBm)
`

// fakeNetlink answers link lookups; other methods panic through the nil
// embedded interface.
type fakeNetlink struct {
	networking.Netlink
	links map[string]netlink.Link
}

func (f *fakeNetlink) LinkByName(name string) (netlink.Link, error) {
	if l, ok := f.links[name]; ok {
		return l, nil
	}
	return nil, errors.New("Link not found")
}

type fakeRadio struct {
	info hal.RadioInfo
	err  error
}

func (f fakeRadio) Lookup(string) (hal.RadioInfo, error) { return f.info, f.err }

func (f fakeRadio) Stations(string) ([]address.MAC, error) { return nil, nil }

type fakeRunner struct {
	out  []byte
	err  error
	args []string
}

func (f *fakeRunner) Output(name string, args ...string) ([]byte, error) {
	f.args = append([]string{name}, args...)
	return f.out, f.err
}

func dummyLink(name string, up bool) netlink.Link {
	attrs := netlink.NewLinkAttrs()
	attrs.Name = name
	if up {
		attrs.Flags = net.FlagUp
	}
	return &netlink.Dummy{LinkAttrs: attrs}
}

func testConfig() *config.Config {
	cfg := &config.Config{
		General: &config.GeneralConfig{
			Interface:         "wlan0",
			UpstreamInterface: "eth0",
			EnableNAT:         true,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func testProbe(runner *fakeRunner) *systemProbe {
	return &systemProbe{
		netlink: &fakeNetlink{links: map[string]netlink.Link{
			"wlan0": dummyLink("wlan0", false),
			"eth0":  dummyLink("eth0", true),
		}},
		radio:  fakeRadio{info: hal.RadioInfo{PHY: 0, MAC: address.ParseMAC("02:00:00:00:00:01")}},
		runner: runner,
		lookPath: func(file string) (string, error) {
			if file == "dnsmasq" {
				return "", errors.New("executable file not found in $PATH")
			}
			return "/usr/sbin/" + file, nil
		},
		forwarding: func() (bool, error) { return false, nil },
	}
}

func TestReadChannelsTable(t *testing.T) {
	runner := &fakeRunner{out: []byte(iwOutput)}
	probe := testProbe(runner)

	info, table, err := probe.readChannelsTable("", "wlan0")
	if err != nil {
		t.Fatalf("readChannelsTable() error = %v", err)
	}
	if info.PHYName() != "phy0" {
		t.Errorf("PHYName() = %q, want phy0", info.PHYName())
	}
	if got := strings.Join(runner.args, " "); got != "iw phy phy0 info" {
		t.Errorf("ran %q, want %q", got, "iw phy phy0 info")
	}
	if len(table[config.Band24GHz]) != 2 || len(table[config.Band5GHz]) != 1 {
		t.Errorf("table = %v", table)
	}
}

func TestReadChannelsTable_RadioMissing(t *testing.T) {
	probe := testProbe(&fakeRunner{})
	probe.radio = fakeRadio{err: errors.New("interface not found")}

	if _, _, err := probe.readChannelsTable("iw", "wlan0"); err == nil {
		t.Error("expected error for missing radio")
	}
}

func TestFormatChannelsTable(t *testing.T) {
	got := formatChannelsTable(config.ChannelsTable{
		config.Band5GHz:  {36, 40},
		config.Band24GHz: {1, 6, 11},
	})
	want := "  2.4GHz: 1 6 11\n  5GHz:   36 40\n"
	if got != want {
		t.Errorf("formatChannelsTable() = %q, want %q", got, want)
	}

	if got := formatChannelsTable(nil); !strings.Contains(got, "no usable channels") {
		t.Errorf("formatChannelsTable(nil) = %q", got)
	}
}

func TestFormatLeases(t *testing.T) {
	if got := formatLeases(nil); got != "No leases\n" {
		t.Errorf("formatLeases(nil) = %q", got)
	}

	got := formatLeases(map[string]models.StationInfo{
		"bb": {MAC: address.ParseMAC("BB:00:00:00:00:02"), IPAddress: "192.168.62.20", DeviceName: "phone"},
		"aa": {MAC: address.ParseMAC("AA:00:00:00:00:01"), IPAddress: "192.168.62.10", DeviceName: "laptop"},
	})
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("formatLeases() lines = %d, want 3:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[1], "laptop") || !strings.Contains(lines[2], "phone") {
		t.Errorf("formatLeases() not sorted by MAC:\n%s", got)
	}
}

func TestSelfCheck_RunChecks(t *testing.T) {
	cfg := testConfig()
	cfg.Hotspot.Band = config.Band5GHz
	cfg.Hotspot.Channel = 149

	cmd := &SelfCheckCommand{
		ctx:   &AppContext{},
		cfg:   cfg,
		probe: testProbe(&fakeRunner{out: []byte(iwOutput)}),
	}

	results := cmd.runChecks()
	byDesc := make(map[string]checkResult)
	for _, r := range results {
		byDesc[r.Description] = r
	}

	tests := []struct {
		desc   string
		ok     bool
		substr string
	}{
		{"Hotspot interface", true, "is down"},
		{"Upstream interface", true, "is up"},
		{"hostapd", true, "/usr/sbin/hostapd"},
		{"dnsmasq", false, "NOT found"},
		{"iw", true, "/usr/sbin/iw"},
		{"Wireless device", true, "phy0"},
		{"Hotspot channel", true, "channel 6 in 2.4GHz will be used"},
		{"IPv4 forwarding", true, "disabled"},
	}
	for _, tt := range tests {
		r, ok := byDesc[tt.desc]
		if !ok {
			t.Errorf("missing check %q", tt.desc)
			continue
		}
		if r.OK != tt.ok {
			t.Errorf("%s: OK = %v, want %v (%s)", tt.desc, r.OK, tt.ok, r.Message)
		}
		if !strings.Contains(r.Message, tt.substr) {
			t.Errorf("%s: message %q does not contain %q", tt.desc, r.Message, tt.substr)
		}
	}

	if cfg.Hotspot.Channel != 149 {
		t.Errorf("self-check modified the configuration: channel = %d", cfg.Hotspot.Channel)
	}
}

func TestSelfCheck_MissingInterface(t *testing.T) {
	cfg := testConfig()
	cfg.General.Interface = "wlan9"
	cfg.General.EnableNAT = false

	probe := testProbe(&fakeRunner{out: []byte(iwOutput)})
	probe.radio = fakeRadio{err: errors.New("no such device")}
	cmd := &SelfCheckCommand{ctx: &AppContext{}, cfg: cfg, probe: probe}

	for _, r := range cmd.runChecks() {
		switch r.Description {
		case "Hotspot interface", "Wireless device":
			if r.OK {
				t.Errorf("%s: OK = true, want false", r.Description)
			}
		case "IPv4 forwarding", "Hotspot channel":
			t.Errorf("unexpected check %q", r.Description)
		}
	}
}

func TestUndoCommand_Run(t *testing.T) {
	nat := &mocks.MockNat{}
	cmd := &UndoCommand{cfg: testConfig(), upstream: "eth0", nat: nat}

	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(nat.Calls) != 1 {
		t.Fatalf("SetNat calls = %d, want 1", len(nat.Calls))
	}
	want := mocks.NatCall{Enable: false, In: "wlan0", Out: "eth0"}
	if nat.Calls[0] != want {
		t.Errorf("SetNat call = %+v, want %+v", nat.Calls[0], want)
	}

	nat.SetNatFunc = func(bool, string, string) bool { return false }
	if err := cmd.Run(); err == nil {
		t.Error("expected error when SetNat rejects the interfaces")
	}
}

func newTestServiceManager(autoStart bool) (*ServiceManager, *mocks.MockDriver) {
	cfg := testConfig()
	cfg.General.AutoStart = autoStart
	cfg.General.EnableNAT = false

	driver := mocks.NewMockDriver("wlan0")
	deps := domain.NewTestDependencies(
		mocks.NewMockStore("wlan0"),
		driver,
		mocks.NewMockDhcpService(),
		&mocks.MockDhcpServer{},
		&mocks.MockNat{},
		nil,
	)
	return NewServiceManager(cfg, deps), driver
}

func TestServiceManager_AutoStart(t *testing.T) {
	sm, driver := newTestServiceManager(true)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := sm.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	// Round trip through the queue so the start has been processed.
	if _, err := sm.Hotspot().Stations(ctx); err != nil {
		t.Fatalf("Stations() error = %v", err)
	}
	if got := sm.Hotspot().State(); got != models.ApStateStarted {
		t.Errorf("State() = %s, want Started", got)
	}

	if err := sm.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if sm.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
	if driver.EnableAPCalls != 1 || driver.DisableAPCalls != 1 {
		t.Errorf("EnableAP/DisableAP calls = %d/%d, want 1/1", driver.EnableAPCalls, driver.DisableAPCalls)
	}
	if got := sm.Hotspot().State(); got != models.ApStateIdle {
		t.Errorf("State() after Stop = %s, want Idle", got)
	}
}

func TestServiceManager_NoAutoStart(t *testing.T) {
	sm, driver := newTestServiceManager(false)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := sm.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := sm.Hotspot().Stations(ctx); err != nil {
		t.Fatalf("Stations() error = %v", err)
	}
	if err := sm.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if driver.EnableAPCalls != 0 {
		t.Errorf("EnableAP calls = %d, want 0", driver.EnableAPCalls)
	}
	if err := sm.Stop(); err == nil {
		t.Error("Stop() on a stopped service should fail")
	}
}
