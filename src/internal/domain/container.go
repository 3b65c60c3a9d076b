package domain

import (
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/dhcpd"
	"github.com/maksimkurb/keen-softap/src/internal/errors"
	"github.com/maksimkurb/keen-softap/src/internal/hal"
	"github.com/maksimkurb/keen-softap/src/internal/networking"
)

// AppDependencies is a dependency injection container that holds all application dependencies.
//
// Usage:
//
//	deps, err := domain.NewAppDependencies(domain.AppConfig{Config: cfg})
//	if err != nil {
//	    return err
//	}
//	driver := deps.Driver()
type AppDependencies struct {
	store      SettingsStore
	driver     HotspotDriver
	dhcp       DhcpService
	dhcpServer dhcpd.Server
	nat        NatController
	interfaces InterfaceInspector
}

// AppConfig holds configuration for creating application dependencies.
type AppConfig struct {
	// Config is the loaded configuration. Required.
	Config *config.Config

	// HostapdBinary, DnsmasqBinary and IwBinary override the helper
	// programs looked up in PATH.
	HostapdBinary string
	DnsmasqBinary string
	IwBinary      string

	// DisableNAT skips iptables initialization, for hosts without it.
	DisableNAT bool
}

// NewAppDependencies creates a new dependency container with production implementations.
func NewAppDependencies(cfg AppConfig) (*AppDependencies, error) {
	if cfg.Config == nil {
		return nil, errors.NewInternalError("configuration is required", nil)
	}

	store := config.NewFileStore(cfg.Config)
	general := store.General()

	interfaces := networking.NewInterfaceManager(nil)
	server := dhcpd.NewDnsmasq(cfg.DnsmasqBinary, general.StateDir)
	dhcp, err := dhcpd.NewInterface(interfaces, server, general.IPv4Gateway)
	if err != nil {
		return nil, err
	}

	driver := hal.NewHostapdDriver(hal.HostapdOptions{
		Interface:     general.Interface,
		StateDir:      general.StateDir,
		HostapdBinary: cfg.HostapdBinary,
		IwBinary:      cfg.IwBinary,
	})

	var nat NatController = disabledNat{}
	if !cfg.DisableNAT {
		mgr, err := networking.NewSystemNatManager()
		if err != nil {
			return nil, err
		}
		nat = mgr
	}

	return &AppDependencies{
		store:      store,
		driver:     driver,
		dhcp:       dhcp,
		dhcpServer: server,
		nat:        nat,
		interfaces: interfaces,
	}, nil
}

// NewTestDependencies creates a dependency container with mock implementations.
//
// This is a convenience method for testing. Provide mock implementations for
// any dependencies you want to control in your tests.
func NewTestDependencies(
	store SettingsStore,
	driver HotspotDriver,
	dhcp DhcpService,
	dhcpServer dhcpd.Server,
	nat NatController,
	interfaces InterfaceInspector,
) *AppDependencies {
	return &AppDependencies{
		store:      store,
		driver:     driver,
		dhcp:       dhcp,
		dhcpServer: dhcpServer,
		nat:        nat,
		interfaces: interfaces,
	}
}

// Store returns the settings store.
func (d *AppDependencies) Store() SettingsStore {
	return d.store
}

// Driver returns the radio driver.
func (d *AppDependencies) Driver() HotspotDriver {
	return d.driver
}

// Dhcp returns the DHCP interface layer.
func (d *AppDependencies) Dhcp() DhcpService {
	return d.dhcp
}

// DhcpServer returns the DHCP daemon behind Dhcp, for exit notifications.
func (d *AppDependencies) DhcpServer() dhcpd.Server {
	return d.dhcpServer
}

// Nat returns the NAT manager.
func (d *AppDependencies) Nat() NatController {
	return d.nat
}

// Interfaces returns the interface address reader.
func (d *AppDependencies) Interfaces() InterfaceInspector {
	return d.interfaces
}

// disabledNat is used when NAT support is turned off at startup.
type disabledNat struct{}

func (disabledNat) SetNat(bool, string, string) bool {
	return false
}
