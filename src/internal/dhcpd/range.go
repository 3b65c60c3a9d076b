package dhcpd

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/maksimkurb/keen-softap/src/internal/address"
)

// P2PTag is shared by every P2P interface so they can serve one range.
const P2PTag = "p2p"

// Range is an address range handed to the DHCP service.
type Range struct {
	Family     address.Family
	StartIP    string
	EndIP      string
	SubnetMask string
	Tag        string
}

func (r Range) String() string {
	return fmt.Sprintf("%s %s-%s/%s tag=%s", r.Family, r.StartIP, r.EndIP, r.SubnetMask, r.Tag)
}

// RangeTag returns the tag used for the range of an interface.
func RangeTag(interfaceName string) string {
	if strings.Contains(strings.ToLower(interfaceName), P2PTag) {
		return P2PTag
	}
	return interfaceName
}

// NewIPv4Range returns hosts .3 to .254 of the /24 containing gateway.
func NewIPv4Range(gateway address.Address, tag string) (Range, error) {
	if gateway.Family() != address.FamilyIPv4 {
		return Range{}, fmt.Errorf("not an IPv4 address: %q", gateway.CIDR())
	}
	network := netip.PrefixFrom(gateway.Addr(), 24).Masked().Addr().As4()

	start, end := network, network
	start[3] = 3
	end[3] = 254
	return Range{
		Family:     address.FamilyIPv4,
		StartIP:    netip.AddrFrom4(start).String(),
		EndIP:      netip.AddrFrom4(end).String(),
		SubnetMask: address.PrefixLengthToMask(24),
		Tag:        tag,
	}, nil
}

// NewIPv6Range returns ::3 to ::fffe of the /64 containing gateway.
func NewIPv6Range(gateway address.Address, tag string) (Range, error) {
	if gateway.Family() != address.FamilyIPv6 {
		return Range{}, fmt.Errorf("not an IPv6 address: %q", gateway.CIDR())
	}
	network := netip.PrefixFrom(gateway.Addr(), 64).Masked().Addr().As16()

	start, end := network, network
	start[15] = 0x03
	end[14], end[15] = 0xff, 0xfe
	return Range{
		Family:     address.FamilyIPv6,
		StartIP:    netip.AddrFrom16(start).String(),
		EndIP:      netip.AddrFrom16(end).String(),
		SubnetMask: "64",
		Tag:        tag,
	}, nil
}
