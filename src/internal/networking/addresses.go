package networking

import (
	stderrors "errors"
	"fmt"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/errors"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// InterfaceManager reads and mutates the addresses bound to network
// interfaces. Only IPv4 addresses are mutated; IPv6 requests are logged and
// reported as successful.
type InterfaceManager struct {
	nl Netlink
}

func NewInterfaceManager(nl Netlink) *InterfaceManager {
	if nl == nil {
		nl = SystemNetlink{}
	}
	return &InterfaceManager{nl: nl}
}

// FetchAddresses returns the addresses bound to interfaceName, or to every
// interface when the name is empty. An interface without addresses is not an
// error.
func (m *InterfaceManager) FetchAddresses(interfaceName string) ([]address.Address, []address.Address, error) {
	links, err := m.links(interfaceName)
	if err != nil {
		return nil, nil, err
	}
	return m.collect(links, "")
}

// FetchAddressesExcept returns the addresses of every interface but exclude.
func (m *InterfaceManager) FetchAddressesExcept(exclude string) ([]address.Address, []address.Address, error) {
	links, err := m.links("")
	if err != nil {
		return nil, nil, err
	}
	return m.collect(links, exclude)
}

// HardwareAddr returns the MAC address of the interface.
func (m *InterfaceManager) HardwareAddr(interfaceName string) (address.MAC, error) {
	iface, err := GetInterface(m.nl, interfaceName)
	if err != nil {
		return address.InvalidMAC, errors.NewNetworkError(fmt.Sprintf("interface %s not found", interfaceName), err)
	}
	mac := address.MACFromHardwareAddr(iface.Attrs().HardwareAddr)
	if !mac.IsValid() {
		return address.InvalidMAC, errors.NewNetworkError(fmt.Sprintf("interface %s has no MAC address", interfaceName), nil)
	}
	return mac, nil
}

// AddAddress binds addr to the interface unless it is already bound.
func (m *InterfaceManager) AddAddress(interfaceName string, addr address.Address) error {
	if !addr.IsValid() {
		return errors.NewValidationError("cannot add invalid address", nil)
	}
	if addr.Family() == address.FamilyIPv6 {
		log.Infof("Not binding IPv6 address %s to %s: IPv6 addresses are not mutated", addr.CIDR(), interfaceName)
		return nil
	}

	iface, bound, err := m.bound(interfaceName, addr)
	if err != nil {
		return err
	}
	if bound {
		log.Debugf("Address %s is already bound to %s", addr.CIDR(), interfaceName)
		return nil
	}

	log.Debugf("Adding address %s to %s", addr.CIDR(), interfaceName)
	if err := m.nl.AddrAdd(iface.Link, &netlink.Addr{IPNet: addr.IPNet()}); err != nil && !stderrors.Is(err, unix.EEXIST) {
		return errors.NewNetworkError(fmt.Sprintf("failed to add %s to %s", addr.CIDR(), interfaceName), err)
	}
	return nil
}

// DeleteAddress unbinds addr from the interface if it is bound.
func (m *InterfaceManager) DeleteAddress(interfaceName string, addr address.Address) error {
	if !addr.IsValid() {
		return errors.NewValidationError("cannot delete invalid address", nil)
	}
	if addr.Family() == address.FamilyIPv6 {
		log.Infof("Not removing IPv6 address %s from %s: IPv6 addresses are not mutated", addr.CIDR(), interfaceName)
		return nil
	}

	iface, bound, err := m.bound(interfaceName, addr)
	if err != nil {
		return err
	}
	if !bound {
		log.Debugf("Address %s is not bound to %s", addr.CIDR(), interfaceName)
		return nil
	}
	return m.del(iface, addr)
}

// ClearAllAddresses removes every IPv4 address of the interface, continuing
// past individual failures. It fails only when the addresses cannot be listed.
func (m *InterfaceManager) ClearAllAddresses(interfaceName string) error {
	iface, err := GetInterface(m.nl, interfaceName)
	if err != nil {
		return errors.NewNetworkError(fmt.Sprintf("interface %s not found", interfaceName), err)
	}
	addrs, err := m.nl.AddrList(iface.Link, netlink.FAMILY_V4)
	if err != nil {
		return errors.NewNetworkError(fmt.Sprintf("failed to list addresses of %s", interfaceName), err)
	}

	for _, a := range addrs {
		addr := address.FromIPNet(a.IPNet)
		if !addr.IsValid() {
			continue
		}
		if err := m.del(iface, addr); err != nil {
			log.Warnf("%v", err)
		}
	}
	return nil
}

func (m *InterfaceManager) del(iface *Interface, addr address.Address) error {
	log.Debugf("Deleting address %s from %s", addr.CIDR(), iface.Name())
	err := m.nl.AddrDel(iface.Link, &netlink.Addr{IPNet: addr.IPNet()})
	if err != nil && !stderrors.Is(err, unix.EADDRNOTAVAIL) {
		return errors.NewNetworkError(fmt.Sprintf("failed to delete %s from %s", addr.CIDR(), iface.Name()), err)
	}
	return nil
}

func (m *InterfaceManager) bound(interfaceName string, addr address.Address) (*Interface, bool, error) {
	iface, err := GetInterface(m.nl, interfaceName)
	if err != nil {
		return nil, false, errors.NewNetworkError(fmt.Sprintf("interface %s not found", interfaceName), err)
	}
	v4, _, err := m.collect([]netlink.Link{iface.Link}, "")
	if err != nil {
		return nil, false, err
	}
	for _, existing := range v4 {
		if existing.Equal(addr) && existing.PrefixLength() == addr.PrefixLength() {
			return iface, true, nil
		}
	}
	return iface, false, nil
}

func (m *InterfaceManager) links(interfaceName string) ([]netlink.Link, error) {
	if interfaceName == "" {
		links, err := m.nl.LinkList()
		if err != nil {
			return nil, errors.NewNetworkError("failed to list interfaces", err)
		}
		return links, nil
	}
	link, err := m.nl.LinkByName(interfaceName)
	if err != nil {
		return nil, errors.NewNetworkError(fmt.Sprintf("interface %s not found", interfaceName), err)
	}
	return []netlink.Link{link}, nil
}

func (m *InterfaceManager) collect(links []netlink.Link, exclude string) ([]address.Address, []address.Address, error) {
	var v4, v6 []address.Address
	for _, link := range links {
		if exclude != "" && link.Attrs().Name == exclude {
			continue
		}
		addrs, err := m.nl.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			return nil, nil, errors.NewNetworkError(fmt.Sprintf("failed to list addresses of %s", link.Attrs().Name), err)
		}
		for _, a := range addrs {
			addr := address.FromIPNet(a.IPNet)
			switch addr.Family() {
			case address.FamilyIPv4:
				v4 = append(v4, addr)
			case address.FamilyIPv6:
				v6 = append(v6, addr)
			}
		}
	}
	return v4, v6, nil
}
