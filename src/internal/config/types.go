package config

import (
	"path/filepath"
)

// Band is a Wi-Fi frequency band.
type Band string

const (
	Band24GHz Band = "2.4GHz"
	Band5GHz  Band = "5GHz"
)

// SecurityType is the hotspot authentication mode.
type SecurityType string

const (
	SecurityOpen    SecurityType = "open"
	SecurityWPA2PSK SecurityType = "wpa2-psk"
	SecurityWPA3SAE SecurityType = "wpa3-sae"
)

const (
	DefaultChannel     = 6
	DefaultIPv4Gateway = "192.168.62.1"
	DefaultAPIListen   = "0.0.0.0:12121"
	DefaultStateDir    = "/var/run/keen-softap"
	DefaultSSID        = "keen-softap"
)

// ChannelsTable maps a band to the channels the radio supports in it.
type ChannelsTable map[Band][]int

type Config struct {
	// General holds interface and network settings.
	General *GeneralConfig `toml:"general"`
	// API holds HTTP API settings.
	API *APIConfig `toml:"api"`
	// Hotspot is the access point configuration pushed to the radio.
	Hotspot *HotspotConfig `toml:"hotspot"`
	// BlockList lists devices that may not associate with the hotspot.
	BlockList []*BlockedDevice `toml:"blocklist,omitempty"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// Interface is the wireless interface running the access point.
	Interface string `toml:"interface" json:"interface" validate:"required,ifname"`
	// UpstreamInterface is the interface the hotspot shares its connection from.
	UpstreamInterface string `toml:"upstream_interface" json:"upstream_interface" validate:"omitempty,ifname"`
	// EnableNAT shares the upstream connection with hotspot clients.
	EnableNAT bool `toml:"enable_nat" json:"enable_nat"`
	// EnableIPv6 binds an IPv6 prefix to the hotspot interface.
	EnableIPv6 bool `toml:"enable_ipv6" json:"enable_ipv6"`
	// IPv4Gateway is the first candidate address for the hotspot (default: 192.168.62.1).
	IPv4Gateway string `toml:"ipv4_gateway" json:"ipv4_gateway" validate:"omitempty,hotspot_gateway"`
	// CountryCode is the ISO 3166-1 regulatory domain, e.g. "DE".
	CountryCode string `toml:"country_code" json:"country_code" validate:"omitempty,country_code"`
	// StateDir holds generated hostapd/dnsmasq configs, control sockets and leases.
	StateDir string `toml:"state_dir" json:"state_dir" validate:"required"`
	// AutoStart starts the hotspot when the service starts.
	AutoStart bool `toml:"auto_start" json:"auto_start"`
}

type APIConfig struct {
	// Enabled starts the HTTP API with the service.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Listen is the API listen address in host:port form.
	Listen string `toml:"listen" json:"listen" validate:"hostport_or_empty"`
}

type HotspotConfig struct {
	SSID         string       `toml:"ssid" json:"ssid" validate:"required,max=32"`
	PresharedKey string       `toml:"preshared_key" json:"preshared_key,omitempty" validate:"omitempty,min=8,max=63,printascii"`
	SecurityType SecurityType `toml:"security_type" json:"security_type" validate:"required,oneof=open wpa2-psk wpa3-sae"`
	Band         Band         `toml:"band" json:"band" validate:"required,oneof=2.4GHz 5GHz"`
	// Channel is corrected to the default channel when the radio does not support it.
	Channel int `toml:"channel" json:"channel" validate:"min=1,max=196"`
	// MaxConnections limits associated stations (0 = driver default).
	MaxConnections int  `toml:"max_connections" json:"max_connections" validate:"min=0,max=2007"`
	Hidden         bool `toml:"hidden" json:"hidden"`
}

type BlockedDevice struct {
	MAC        string `toml:"mac" json:"mac" validate:"required,mac_address"`
	DeviceName string `toml:"device_name" json:"device_name,omitempty"`
}

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

func (c *Config) GetConfigPath() string {
	return c._absConfigFilePath
}

// StatePath returns name inside the state directory.
func (c *Config) StatePath(name string) string {
	return filepath.Join(c.General.StateDir, name)
}

// DefaultHotspotConfig returns the configuration used when [hotspot] is absent.
func DefaultHotspotConfig() HotspotConfig {
	return HotspotConfig{
		SSID:         DefaultSSID,
		SecurityType: SecurityOpen,
		Band:         Band24GHz,
		Channel:      DefaultChannel,
	}
}

// ApplyDefaults fills sections and fields left out of the file.
func (c *Config) ApplyDefaults() {
	if c.General == nil {
		c.General = &GeneralConfig{}
	}
	if c.General.IPv4Gateway == "" {
		c.General.IPv4Gateway = DefaultIPv4Gateway
	}
	if c.General.StateDir == "" {
		c.General.StateDir = DefaultStateDir
	}
	if c.API == nil {
		c.API = &APIConfig{Enabled: true}
	}
	if c.API.Listen == "" {
		c.API.Listen = DefaultAPIListen
	}
	if c.Hotspot == nil {
		h := DefaultHotspotConfig()
		c.Hotspot = &h
	}
	if c.Hotspot.Band == "" {
		c.Hotspot.Band = Band24GHz
	}
	if c.Hotspot.Channel == 0 {
		c.Hotspot.Channel = DefaultChannel
	}
	if c.Hotspot.SecurityType == "" {
		c.Hotspot.SecurityType = SecurityOpen
		if c.Hotspot.PresharedKey != "" {
			c.Hotspot.SecurityType = SecurityWPA2PSK
		}
	}
}
