package hal

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/keen-softap/src/internal/config"
)

const hostapdConfigTemplate = `# Generated by keen-softap, changes will be overwritten.
interface={interface}
driver=nl80211
ctrl_interface={ctrl_dir}
ssid2={ssid_hex}
utf8_ssid=1
hw_mode={hw_mode}
channel={channel}
ieee80211n=1
wmm_enabled=1
ignore_broadcast_ssid={hidden}
macaddr_acl=0
deny_mac_file={deny_file}
{options}`

// HostapdConfigParams are the inputs of RenderHostapdConfig.
type HostapdConfigParams struct {
	Interface   string
	CtrlDir     string
	DenyFile    string
	CountryCode string
	Hotspot     config.HotspotConfig
}

// RenderHostapdConfig renders a hostapd configuration file.
func RenderHostapdConfig(p HostapdConfigParams) string {
	h := p.Hotspot

	hwMode := "g"
	if h.Band == config.Band5GHz {
		hwMode = "a"
	}
	hidden := "0"
	if h.Hidden {
		hidden = "1"
	}

	var options []string
	if p.CountryCode != "" {
		options = append(options, "country_code="+p.CountryCode, "ieee80211d=1")
	}
	if h.Band == config.Band5GHz {
		options = append(options, "ieee80211ac=1")
	}
	if h.MaxConnections > 0 {
		options = append(options, fmt.Sprintf("max_num_sta=%d", h.MaxConnections))
	}

	switch h.SecurityType {
	case config.SecurityWPA2PSK:
		options = append(options,
			"auth_algs=1",
			"wpa=2",
			"wpa_key_mgmt=WPA-PSK",
			"rsn_pairwise=CCMP",
			"wpa_passphrase="+h.PresharedKey)
	case config.SecurityWPA3SAE:
		options = append(options,
			"auth_algs=1",
			"wpa=2",
			"wpa_key_mgmt=SAE",
			"ieee80211w=2",
			"rsn_pairwise=CCMP",
			"sae_password="+h.PresharedKey)
	default:
		options = append(options, "auth_algs=1")
	}

	t := fasttemplate.New(hostapdConfigTemplate, "{", "}")
	return t.ExecuteString(map[string]interface{}{
		"interface": p.Interface,
		"ctrl_dir":  p.CtrlDir,
		"ssid_hex":  hex.EncodeToString([]byte(h.SSID)),
		"hw_mode":   hwMode,
		"channel":   fmt.Sprintf("%d", h.Channel),
		"hidden":    hidden,
		"deny_file": p.DenyFile,
		"options":   strings.Join(options, "\n") + "\n",
	})
}
