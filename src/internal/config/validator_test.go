package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		General: &GeneralConfig{
			Interface:         "wlan0",
			UpstreamInterface: "eth0",
			EnableNAT:         true,
			IPv4Gateway:       "192.168.62.1",
			CountryCode:       "US",
			StateDir:          "/tmp/keen-softap",
		},
		API: &APIConfig{Enabled: true, Listen: "127.0.0.1:12121"},
		Hotspot: &HotspotConfig{
			SSID:         "test",
			PresharedKey: "password1",
			SecurityType: SecurityWPA2PSK,
			Band:         Band24GHz,
			Channel:      6,
		},
	}
}

func TestValidateConfig_Success(t *testing.T) {
	if err := validConfig().ValidateConfig(); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestValidateConfig_MissingGeneral(t *testing.T) {
	config := &Config{}

	if err := config.ValidateConfig(); err == nil {
		t.Error("Expected error for missing general config")
	}
}

func TestValidateConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		fieldPath string
	}{
		{
			name:      "bad interface name",
			mutate:    func(c *Config) { c.General.Interface = "wlan 0" },
			fieldPath: "general.interface",
		},
		{
			name:      "nat without upstream",
			mutate:    func(c *Config) { c.General.UpstreamInterface = "" },
			fieldPath: "general.upstream_interface",
		},
		{
			name:      "upstream equals interface",
			mutate:    func(c *Config) { c.General.UpstreamInterface = "wlan0" },
			fieldPath: "general.upstream_interface",
		},
		{
			name:      "public gateway",
			mutate:    func(c *Config) { c.General.IPv4Gateway = "8.8.8.8" },
			fieldPath: "general.ipv4_gateway",
		},
		{
			name:      "private gateway outside 192.168/16",
			mutate:    func(c *Config) { c.General.IPv4Gateway = "10.0.5.1" },
			fieldPath: "general.ipv4_gateway",
		},
		{
			name:      "lower-case country",
			mutate:    func(c *Config) { c.General.CountryCode = "us" },
			fieldPath: "general.country_code",
		},
		{
			name:      "bad api listen",
			mutate:    func(c *Config) { c.API.Listen = "12121" },
			fieldPath: "api.listen",
		},
		{
			name:      "unknown band",
			mutate:    func(c *Config) { c.Hotspot.Band = "6GHz" },
			fieldPath: "hotspot.band",
		},
		{
			name:      "short key",
			mutate:    func(c *Config) { c.Hotspot.PresharedKey = "short" },
			fieldPath: "hotspot.preshared_key",
		},
		{
			name:      "missing key",
			mutate:    func(c *Config) { c.Hotspot.PresharedKey = "" },
			fieldPath: "hotspot.preshared_key",
		},
		{
			name:      "long ssid",
			mutate:    func(c *Config) { c.Hotspot.SSID = strings.Repeat("x", 33) },
			fieldPath: "hotspot.ssid",
		},
		{
			name: "bad blocklist mac",
			mutate: func(c *Config) {
				c.BlockList = []*BlockedDevice{{MAC: "aa-bb-cc-dd-ee-ff"}}
			},
			fieldPath: "blocklist.0.mac",
		},
		{
			name: "duplicate blocklist mac",
			mutate: func(c *Config) {
				c.BlockList = []*BlockedDevice{{MAC: "aa:bb:cc:dd:ee:ff"}, {MAC: "AA:BB:CC:DD:EE:FF"}}
			},
			fieldPath: "blocklist.1.mac",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.ValidateConfig()
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Expected ValidationErrors, got %v", err)
			}
			found := false
			for _, e := range verrs {
				if e.FieldPath == tt.fieldPath {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected error on %s, got %v", tt.fieldPath, verrs)
			}
		})
	}
}

func TestValidateHotspot_OpenNeedsNoKey(t *testing.T) {
	h := &HotspotConfig{SSID: "open", SecurityType: SecurityOpen, Band: Band24GHz, Channel: 1}
	if errs := ValidateHotspot(h); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}
}

func TestIsValidCountryCode(t *testing.T) {
	tests := map[string]bool{"DE": true, "00": true, "de": false, "DEU": false, "": false}
	for code, want := range tests {
		if got := IsValidCountryCode(code); got != want {
			t.Errorf("IsValidCountryCode(%q) = %v, want %v", code, got, want)
		}
	}
}
