package hal

import (
	"fmt"

	"github.com/mdlayher/wifi"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/utils"
)

// RadioInfo describes the wireless device behind an interface.
type RadioInfo struct {
	PHY  int
	MAC  address.MAC
	IsAP bool
}

// PHYName returns the name used by iw, e.g. "phy0".
func (r RadioInfo) PHYName() string {
	return fmt.Sprintf("phy%d", r.PHY)
}

// Radio queries wireless devices.
type Radio interface {
	Lookup(interfaceName string) (RadioInfo, error)
	Stations(interfaceName string) ([]address.MAC, error)
}

// NL80211Radio queries the kernel through nl80211.
type NL80211Radio struct{}

func (NL80211Radio) Lookup(interfaceName string) (RadioInfo, error) {
	c, err := wifi.New()
	if err != nil {
		return RadioInfo{}, fmt.Errorf("open nl80211: %w", err)
	}
	defer utils.CloseOrWarn(c)

	ifi, err := findInterface(c, interfaceName)
	if err != nil {
		return RadioInfo{}, err
	}
	return RadioInfo{
		PHY:  ifi.PHY,
		MAC:  address.MACFromHardwareAddr(ifi.HardwareAddr),
		IsAP: ifi.Type == wifi.InterfaceTypeAP,
	}, nil
}

func (NL80211Radio) Stations(interfaceName string) ([]address.MAC, error) {
	c, err := wifi.New()
	if err != nil {
		return nil, fmt.Errorf("open nl80211: %w", err)
	}
	defer utils.CloseOrWarn(c)

	ifi, err := findInterface(c, interfaceName)
	if err != nil {
		return nil, err
	}
	stations, err := c.StationInfo(ifi)
	if err != nil {
		return nil, fmt.Errorf("station info of %s: %w", interfaceName, err)
	}

	var macs []address.MAC
	for _, sta := range stations {
		if mac := address.MACFromHardwareAddr(sta.HardwareAddr); mac.IsValid() {
			macs = append(macs, mac)
		}
	}
	return macs, nil
}

func findInterface(c *wifi.Client, interfaceName string) (*wifi.Interface, error) {
	ifaces, err := c.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list wifi interfaces: %w", err)
	}
	for _, ifi := range ifaces {
		if ifi.Name == interfaceName {
			return ifi, nil
		}
	}
	return nil, fmt.Errorf("%s is not a wireless interface", interfaceName)
}
