package networking

import (
	"errors"
	"net"
	"testing"

	"github.com/maksimkurb/keen-softap/src/internal/address"
)

func TestFetchAddresses(t *testing.T) {
	nl := newFakeNetlink(
		&mockNetlinkLink{name: "wlan0", index: 3},
		&mockNetlinkLink{name: "eth0", index: 2},
	)
	nl.bind("wlan0", "192.168.62.1/24")
	nl.bind("wlan0", "fe80::1/64")
	nl.bind("eth0", "10.0.0.5/8")

	m := NewInterfaceManager(nl)

	v4, v6, err := m.FetchAddresses("wlan0")
	if err != nil {
		t.Fatalf("FetchAddresses() error = %v", err)
	}
	if len(v4) != 1 || v4[0].CIDR() != "192.168.62.1/24" {
		t.Errorf("v4 = %v", v4)
	}
	if len(v6) != 1 || v6[0].String() != "fe80::1" {
		t.Errorf("v6 = %v", v6)
	}

	v4, _, err = m.FetchAddresses("")
	if err != nil {
		t.Fatalf("FetchAddresses(\"\") error = %v", err)
	}
	if len(v4) != 2 {
		t.Errorf("expected addresses of every interface, got %v", v4)
	}

	v4, _, err = m.FetchAddressesExcept("wlan0")
	if err != nil {
		t.Fatalf("FetchAddressesExcept() error = %v", err)
	}
	if len(v4) != 1 || v4[0].String() != "10.0.0.5" {
		t.Errorf("FetchAddressesExcept() = %v", v4)
	}
}

func TestFetchAddresses_NoAddressesIsNotAnError(t *testing.T) {
	m := NewInterfaceManager(newFakeNetlink(&mockNetlinkLink{name: "wlan0"}))

	v4, v6, err := m.FetchAddresses("wlan0")
	if err != nil {
		t.Fatalf("FetchAddresses() error = %v", err)
	}
	if len(v4) != 0 || len(v6) != 0 {
		t.Errorf("expected no addresses")
	}
}

func TestFetchAddresses_EnumerationFailure(t *testing.T) {
	nl := newFakeNetlink()
	nl.listErr = errors.New("netlink socket closed")

	if _, _, err := NewInterfaceManager(nl).FetchAddresses(""); err == nil {
		t.Errorf("expected error on enumeration failure")
	}
	if _, _, err := NewInterfaceManager(nl).FetchAddresses("missing0"); err == nil {
		t.Errorf("expected error for unknown interface")
	}
}

func TestAddAddress_Idempotent(t *testing.T) {
	nl := newFakeNetlink(&mockNetlinkLink{name: "wlan0"})
	m := NewInterfaceManager(nl)
	addr := address.NewIPv4("192.168.62.1", 24)

	if err := m.AddAddress("wlan0", addr); err != nil {
		t.Fatalf("AddAddress() error = %v", err)
	}
	if err := m.AddAddress("wlan0", addr); err != nil {
		t.Fatalf("second AddAddress() error = %v", err)
	}
	if nl.addrAddCalls != 1 {
		t.Errorf("AddrAdd called %d times, want 1", nl.addrAddCalls)
	}
}

func TestDeleteAddress_Idempotent(t *testing.T) {
	nl := newFakeNetlink(&mockNetlinkLink{name: "wlan0"})
	nl.bind("wlan0", "192.168.62.1/24")
	m := NewInterfaceManager(nl)
	addr := address.NewIPv4("192.168.62.1", 24)

	if err := m.DeleteAddress("wlan0", addr); err != nil {
		t.Fatalf("DeleteAddress() error = %v", err)
	}
	if err := m.DeleteAddress("wlan0", addr); err != nil {
		t.Fatalf("second DeleteAddress() error = %v", err)
	}
	if nl.addrDelCalls != 1 {
		t.Errorf("AddrDel called %d times, want 1", nl.addrDelCalls)
	}
}

func TestAddAddress_IPv6IsNotMutated(t *testing.T) {
	nl := newFakeNetlink(&mockNetlinkLink{name: "wlan0"})
	m := NewInterfaceManager(nl)

	if err := m.AddAddress("wlan0", address.NewIPv6("fd00::1", 64)); err != nil {
		t.Fatalf("AddAddress() error = %v", err)
	}
	if nl.addrAddCalls != 0 {
		t.Errorf("IPv6 address should not be added")
	}
	if err := m.AddAddress("wlan0", address.Invalid); err == nil {
		t.Errorf("expected error for invalid address")
	}
}

func TestClearAllAddresses(t *testing.T) {
	nl := newFakeNetlink(&mockNetlinkLink{name: "wlan0"})
	nl.bind("wlan0", "192.168.62.1/24")
	nl.bind("wlan0", "192.168.99.1/24")
	nl.bind("wlan0", "fd00::1/64")

	if err := NewInterfaceManager(nl).ClearAllAddresses("wlan0"); err != nil {
		t.Fatalf("ClearAllAddresses() error = %v", err)
	}
	if nl.addrDelCalls != 2 {
		t.Errorf("AddrDel called %d times, want 2", nl.addrDelCalls)
	}
	if err := NewInterfaceManager(nl).ClearAllAddresses("missing0"); err == nil {
		t.Errorf("expected error for unknown interface")
	}
}

func TestHardwareAddr(t *testing.T) {
	hw, _ := net.ParseMAC("02:11:22:33:44:55")
	nl := newFakeNetlink(&mockNetlinkLink{name: "wlan0", mac: hw}, &mockNetlinkLink{name: "lo"})
	m := NewInterfaceManager(nl)

	mac, err := m.HardwareAddr("wlan0")
	if err != nil || mac.String() != "02:11:22:33:44:55" {
		t.Errorf("HardwareAddr() = %v, %v", mac, err)
	}
	if _, err := m.HardwareAddr("lo"); err == nil {
		t.Errorf("expected error for interface without MAC")
	}
}
