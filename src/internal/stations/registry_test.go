package stations

import (
	"errors"
	"testing"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/mocks"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

func init() {
	log.DisableLogs()
}

func newRegistry() (*Registry, *mocks.MockDriver, *mocks.MockStore) {
	driver := mocks.NewMockDriver("wlan0")
	store := mocks.NewMockStore("wlan0")
	return NewRegistry(driver, store), driver, store
}

func TestStationJoinLeave(t *testing.T) {
	r, _, _ := newRegistry()

	target := address.ParseMAC("AA:BB:CC:DD:EE:FF")
	other := address.ParseMAC("00:11:22:33:44:55")

	if _, added := r.StationJoin(other); !added {
		t.Fatal("expected other station to be added")
	}

	info, added := r.StationJoin(target)
	if !added {
		t.Fatal("expected station to be added")
	}
	if info.DeviceName != models.Obtaining || info.IPAddress != models.Obtaining {
		t.Errorf("expected placeholder details, got %+v", info)
	}
	if _, added := r.StationJoin(target); added {
		t.Error("expected repeated join to be ignored")
	}

	if _, removed := r.StationLeave(target); !removed {
		t.Fatal("expected station to be removed")
	}

	got := r.Stations()
	if len(got) != 1 || got[0].MAC != other {
		t.Errorf("Stations() = %+v, want only %s", got, other)
	}

	if _, removed := r.StationLeave(target); removed {
		t.Error("expected leave of an unknown station to be ignored")
	}
}

func TestStationJoinLeave_Empty(t *testing.T) {
	r, _, _ := newRegistry()
	mac := address.ParseMAC("AA:BB:CC:DD:EE:FF")

	r.StationJoin(mac)
	r.StationLeave(mac)

	if n := len(r.Stations()); n != 0 {
		t.Errorf("expected empty station table, got %d entries", n)
	}
}

func TestStationJoin_InvalidMAC(t *testing.T) {
	r, _, _ := newRegistry()

	if _, added := r.StationJoin(address.InvalidMAC); added {
		t.Error("expected invalid MAC to be rejected")
	}
}

func TestResolve(t *testing.T) {
	r, _, _ := newRegistry()
	mac := address.ParseMAC("aa:bb:cc:dd:ee:ff")
	r.StationJoin(mac)

	r.Resolve(map[string]models.StationInfo{
		"aa:bb:cc:dd:ee:ff": {DeviceName: "phone", MAC: mac, IPAddress: "192.168.62.10"},
		"00:11:22:33:44:55": {DeviceName: "gone", IPAddress: "192.168.62.11"},
	})

	got := r.Stations()
	if len(got) != 1 {
		t.Fatalf("expected 1 station, got %d", len(got))
	}
	if got[0].DeviceName != "phone" || got[0].IPAddress != "192.168.62.10" {
		t.Errorf("expected resolved station, got %+v", got[0])
	}
}

func TestSync(t *testing.T) {
	r, _, _ := newRegistry()
	stale := address.ParseMAC("aa:bb:cc:dd:ee:01")
	kept := address.ParseMAC("aa:bb:cc:dd:ee:02")
	fresh := address.ParseMAC("aa:bb:cc:dd:ee:03")
	r.StationJoin(stale)
	r.StationJoin(kept)

	joined, left := r.Sync([]address.MAC{kept, fresh, address.InvalidMAC})

	if len(joined) != 1 || joined[0].MAC != fresh {
		t.Errorf("joined = %+v, want %s", joined, fresh)
	}
	if len(left) != 1 || left[0].MAC != stale {
		t.Errorf("left = %+v, want %s", left, stale)
	}
	got := r.Stations()
	if len(got) != 2 || got[0].MAC != kept || got[1].MAC != fresh {
		t.Errorf("Stations() = %+v", got)
	}

	if joined, left := r.Sync(nil); len(joined) != 0 || len(left) != 2 {
		t.Errorf("Sync(nil) joined %d, left %d", len(joined), len(left))
	}
}

func TestClear(t *testing.T) {
	r, _, store := newRegistry()
	store.Blocked = []config.BlockedDevice{{MAC: "aa:bb:cc:dd:ee:ff"}}
	r.StationJoin(address.ParseMAC("00:11:22:33:44:55"))

	r.Clear()

	if len(r.Stations()) != 0 {
		t.Error("expected no stations after Clear")
	}
	if len(r.BlockList()) != 1 {
		t.Error("expected blocklist to survive Clear")
	}
}

func TestAddBlockList(t *testing.T) {
	mac := address.ParseMAC("aa:bb:cc:dd:ee:ff")

	tests := []struct {
		name       string
		apply      bool
		driverErr  error
		wantErr    bool
		wantDriver int
	}{
		{name: "persist only", apply: false, wantDriver: 0},
		{name: "persist and apply", apply: true, wantDriver: 1},
		{name: "driver failure", apply: true, driverErr: errors.New("busy"), wantErr: true, wantDriver: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, driver, store := newRegistry()
			if tt.driverErr != nil {
				driver.AddBlockFunc = func(address.MAC) error { return tt.driverErr }
			}

			err := r.AddBlockList(mac, "laptop", tt.apply)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddBlockList() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(driver.AddBlockCalls) != tt.wantDriver {
				t.Errorf("expected %d driver calls, got %d", tt.wantDriver, len(driver.AddBlockCalls))
			}
			if len(store.Blocked) != 1 || store.Blocked[0].MAC != "aa:bb:cc:dd:ee:ff" || store.Blocked[0].DeviceName != "laptop" {
				t.Errorf("unexpected persisted blocklist: %+v", store.Blocked)
			}
		})
	}
}

func TestAddBlockList_UpdatesExisting(t *testing.T) {
	r, _, store := newRegistry()
	store.Blocked = []config.BlockedDevice{{MAC: "AA:BB:CC:DD:EE:FF", DeviceName: "old"}}

	if err := r.AddBlockList(address.ParseMAC("aa:bb:cc:dd:ee:ff"), "new", false); err != nil {
		t.Fatalf("AddBlockList() error = %v", err)
	}
	if len(store.Blocked) != 1 || store.Blocked[0].DeviceName != "new" {
		t.Errorf("expected existing entry to be renamed, got %+v", store.Blocked)
	}
}

func TestAddBlockList_StoreFailure(t *testing.T) {
	r, driver, store := newRegistry()
	store.SaveBlockListErr = errors.New("read-only")

	if err := r.AddBlockList(address.ParseMAC("aa:bb:cc:dd:ee:ff"), "", true); err == nil {
		t.Error("expected store error")
	}
	if len(driver.AddBlockCalls) != 0 {
		t.Error("driver must not be called when persisting fails")
	}
}

func TestDelBlockList(t *testing.T) {
	r, driver, store := newRegistry()
	store.Blocked = []config.BlockedDevice{
		{MAC: "aa:bb:cc:dd:ee:ff"},
		{MAC: "00:11:22:33:44:55"},
	}

	if err := r.DelBlockList(address.ParseMAC("AA:BB:CC:DD:EE:FF"), true); err != nil {
		t.Fatalf("DelBlockList() error = %v", err)
	}
	if len(store.Blocked) != 1 || store.Blocked[0].MAC != "00:11:22:33:44:55" {
		t.Errorf("unexpected blocklist: %+v", store.Blocked)
	}
	if len(driver.DelBlockCalls) != 1 {
		t.Errorf("expected 1 driver call, got %d", len(driver.DelBlockCalls))
	}

	if err := r.DelBlockList(address.ParseMAC("aa:bb:cc:dd:ee:ff"), true); err == nil {
		t.Error("expected error removing a MAC that is not blocked")
	}
}

func TestEnableAllBlockList(t *testing.T) {
	r, driver, store := newRegistry()
	store.Blocked = []config.BlockedDevice{
		{MAC: "aa:bb:cc:dd:ee:ff"},
		{MAC: "00:11:22:33:44:55"},
	}
	driver.AddBlockFunc = func(mac address.MAC) error {
		if mac.String() == "aa:bb:cc:dd:ee:ff" {
			return errors.New("busy")
		}
		return nil
	}

	if err := r.EnableAllBlockList(); err == nil {
		t.Error("expected joined error")
	}
	if len(driver.AddBlockCalls) != 2 {
		t.Errorf("expected every entry to be tried, got %d calls", len(driver.AddBlockCalls))
	}
}

func TestDisconnectStation(t *testing.T) {
	r, driver, _ := newRegistry()

	if err := r.DisconnectStation(address.ParseMAC("aa:bb:cc:dd:ee:ff")); err != nil {
		t.Fatalf("DisconnectStation() error = %v", err)
	}
	if len(driver.DisconnectCalls) != 1 {
		t.Errorf("expected 1 driver call, got %d", len(driver.DisconnectCalls))
	}
	if err := r.DisconnectStation(address.InvalidMAC); err == nil {
		t.Error("expected error for an invalid MAC")
	}
}
