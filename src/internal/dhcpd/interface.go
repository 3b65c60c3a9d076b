package dhcpd

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/errors"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

// AddressManager reads and binds interface addresses.
type AddressManager interface {
	FetchAddressesExcept(interfaceName string) ([]address.Address, []address.Address, error)
	AddAddress(interfaceName string, addr address.Address) error
	ClearAllAddresses(interfaceName string) error
	HardwareAddr(interfaceName string) (address.MAC, error)
}

// Binding is the address pair bound to the hotspot interface.
type Binding struct {
	IPv4 address.Address
	IPv6 address.Address
}

// Interface starts and stops the DHCP service of the hotspot interface and
// owns the addresses bound for the session.
type Interface struct {
	addrs       AddressManager
	server      Server
	gateway     address.Address
	ulaAttempts int
	rnd         io.Reader

	bound Binding
	tag   string
}

// NewInterface creates an Interface whose first IPv4 candidate is gateway.
func NewInterface(addrs AddressManager, server Server, gateway string) (*Interface, error) {
	gw := address.NewIPv4(gateway, 24)
	if !gw.InHotspotSpace() {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid IPv4 gateway %q, want an address inside %s", gateway, address.HotspotIPv4Space), nil)
	}
	return &Interface{
		addrs:       addrs,
		server:      server,
		gateway:     gw,
		ulaAttempts: address.DefaultULAAttempts,
	}, nil
}

// SetRandom replaces the random source used for unique local prefixes.
func (d *Interface) SetRandom(rnd io.Reader) {
	d.rnd = rnd
}

// Bound returns the addresses bound by the last successful StartServer.
func (d *Interface) Bound() Binding {
	return d.bound
}

// StartServer picks and binds addresses for interfaceName and starts the
// DHCP service for them. Any failure aborts the start.
func (d *Interface) StartServer(interfaceName string, wantIPv4, wantIPv6 bool) (Binding, error) {
	usedV4, usedV6, err := d.addrs.FetchAddressesExcept(interfaceName)
	if err != nil {
		return Binding{}, errors.NewDHCPError("failed to enumerate addresses in use", err)
	}

	binding := Binding{IPv4: address.Invalid, IPv6: address.Invalid}

	if wantIPv4 {
		binding.IPv4, err = SelectIPv4(d.gateway, usedV4)
		if err != nil {
			return Binding{}, err
		}
	}
	if wantIPv6 {
		mac, err := d.addrs.HardwareAddr(interfaceName)
		if err != nil {
			log.Warnf("Cannot derive EUI-64 address for %s: %v", interfaceName, err)
		}
		binding.IPv6, err = SelectIPv6(usedV6, mac, d.ulaAttempts, d.rnd)
		if err != nil {
			return Binding{}, err
		}
	}

	tag := RangeTag(interfaceName)
	for _, addr := range []address.Address{binding.IPv4, binding.IPv6} {
		if !addr.IsValid() {
			continue
		}
		if err := d.addrs.AddAddress(interfaceName, addr); err != nil {
			return Binding{}, errors.NewDHCPError(fmt.Sprintf("failed to bind %s", addr.CIDR()), err)
		}
		if err := d.addRange(addr, tag); err != nil {
			return Binding{}, err
		}
	}

	if err := d.server.Start(interfaceName); err != nil {
		return Binding{}, errors.NewDHCPError("failed to start DHCP service", err)
	}

	d.bound = binding
	d.tag = tag
	log.Infof("DHCP service started on %s (IPv4: %s, IPv6: %s)",
		interfaceName, describe(binding.IPv4), describe(binding.IPv6))
	return binding, nil
}

// StopServer stops the DHCP service and clears the addresses of
// interfaceName. Every step runs even if an earlier one fails.
func (d *Interface) StopServer(interfaceName string) error {
	tag := d.tag
	if tag == "" {
		tag = RangeTag(interfaceName)
	}

	errs := []error{
		d.server.RemoveRange(tag),
		d.server.Stop(interfaceName),
		d.addrs.ClearAllAddresses(interfaceName),
		d.server.Release(),
	}
	d.bound = Binding{}
	d.tag = ""

	if err := stderrors.Join(errs...); err != nil {
		return errors.NewDHCPError("failed to stop DHCP service cleanly", err)
	}
	log.Debugf("DHCP service stopped on %s", interfaceName)
	return nil
}

// GetConnectedStations parses the lease table of the DHCP service.
func (d *Interface) GetConnectedStations(interfaceName string) map[string]models.StationInfo {
	lines, err := d.server.LeaseLines()
	if err != nil {
		log.Warnf("Failed to read DHCP leases for %s: %v", interfaceName, err)
		return map[string]models.StationInfo{}
	}
	return ParseLeases(lines)
}

func (d *Interface) addRange(addr address.Address, tag string) error {
	var (
		r   Range
		err error
	)
	if addr.Family() == address.FamilyIPv4 {
		r, err = NewIPv4Range(addr, tag)
	} else {
		r, err = NewIPv6Range(addr, tag)
	}
	if err != nil {
		return errors.NewDHCPError("failed to compute DHCP range", err)
	}
	if err := d.server.AddRange(r); err != nil {
		return errors.NewDHCPError(fmt.Sprintf("failed to register range %s", r), err)
	}
	return nil
}

func describe(a address.Address) string {
	if !a.IsValid() {
		return "none"
	}
	return a.CIDR()
}
