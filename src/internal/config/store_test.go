package config

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configFile, []byte(validTOML), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	config, err := LoadConfig(configFile)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	return NewFileStore(config), configFile
}

func TestFileStore_SaveHotspotConfig(t *testing.T) {
	store, configFile := newTestStore(t)

	h, _ := store.HotspotConfig()
	h.Channel = 40
	if err := store.SaveHotspotConfig(h); err != nil {
		t.Fatalf("SaveHotspotConfig() error = %v", err)
	}

	reloaded, err := LoadConfig(configFile)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if reloaded.Hotspot.Channel != 40 {
		t.Errorf("Channel = %d after reload, want 40", reloaded.Hotspot.Channel)
	}
}

func TestFileStore_SaveHotspotConfig_Invalid(t *testing.T) {
	store, _ := newTestStore(t)

	before, _ := store.HotspotConfig()
	bad := before
	bad.SecurityType = "wep"
	if err := store.SaveHotspotConfig(bad); err == nil {
		t.Fatal("Expected validation error")
	}
	after, _ := store.HotspotConfig()
	if after != before {
		t.Errorf("Stored config changed after failed save: %+v", after)
	}
}

func TestFileStore_BlockList(t *testing.T) {
	store, configFile := newTestStore(t)

	list := store.BlockList()
	if len(list) != 1 {
		t.Fatalf("BlockList() = %v", list)
	}
	list = append(list, BlockedDevice{MAC: "11:22:33:44:55:66"})
	if err := store.SaveBlockList(list); err != nil {
		t.Fatalf("SaveBlockList() error = %v", err)
	}

	reloaded, _ := LoadConfig(configFile)
	if len(reloaded.BlockList) != 2 {
		t.Errorf("BlockList after reload = %v", reloaded.BlockList)
	}

	if err := store.SaveBlockList([]BlockedDevice{{MAC: "bogus"}}); err == nil {
		t.Error("Expected validation error for bad MAC")
	}
	if len(store.BlockList()) != 2 {
		t.Error("BlockList changed after failed save")
	}
}

func TestFileStore_InMemory(t *testing.T) {
	store := NewFileStore(&Config{General: &GeneralConfig{Interface: "wlan0"}})

	h, err := store.HotspotConfig()
	if err != nil || h != DefaultHotspotConfig() {
		t.Errorf("HotspotConfig() = %+v, %v", h, err)
	}
	h.SSID = "memory"
	if err := store.SaveHotspotConfig(h); err != nil {
		t.Errorf("SaveHotspotConfig() on in-memory store error = %v", err)
	}
}

func TestFileStore_ChannelsTable(t *testing.T) {
	store, _ := newTestStore(t)

	store.SaveChannelsTable(ChannelsTable{Band24GHz: {1, 6, 11}})
	table := store.ChannelsTable()
	table[Band24GHz][0] = 99

	if got := store.ChannelsTable()[Band24GHz][0]; got != 1 {
		t.Errorf("ChannelsTable() returned shared storage, got %d", got)
	}
}
