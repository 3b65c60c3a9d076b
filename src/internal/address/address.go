package address

import (
	"net"
	"net/netip"
	"strconv"
)

// Family is the IP family of an Address.
type Family uint8

const (
	FamilyInvalid Family = iota
	FamilyIPv4
	FamilyIPv6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	default:
		return "invalid"
	}
}

// Address is an interface address: an IP with its prefix length.
//
// Two addresses are equal when they have the same family and text, whatever
// their prefix lengths.
type Address struct {
	family       Family
	prefixLength int
	text         string
}

// Invalid is returned by every factory on malformed input.
var Invalid = Address{}

// HotspotIPv4Space is the private range hotspot subnets are allocated from.
var HotspotIPv4Space = netip.MustParsePrefix("192.168.0.0/16")

// NewIPv4 validates a dotted-quad string and a prefix length in [0, 32].
func NewIPv4(text string, prefixLength int) Address {
	ip, err := netip.ParseAddr(text)
	if err != nil || !ip.Is4() || prefixLength < 0 || prefixLength > 32 {
		return Invalid
	}
	return Address{family: FamilyIPv4, prefixLength: prefixLength, text: ip.String()}
}

// NewIPv4WithMask is NewIPv4 with the prefix given as a dotted-quad mask.
func NewIPv4WithMask(text, mask string) Address {
	length, ok := MaskToPrefixLength(mask)
	if !ok {
		return Invalid
	}
	return NewIPv4(text, length)
}

// NewIPv6 validates an IPv6 string and a prefix length in [0, 128]. The
// stored text is the canonical RFC 5952 form.
func NewIPv6(text string, prefixLength int) Address {
	ip, err := netip.ParseAddr(text)
	if err != nil || !ip.Is6() || ip.Is4In6() || ip.Zone() != "" || prefixLength < 0 || prefixLength > 128 {
		return Invalid
	}
	return Address{family: FamilyIPv6, prefixLength: prefixLength, text: ip.String()}
}

// Parse picks the factory from the textual form.
func Parse(text string, prefixLength int) Address {
	ip, err := netip.ParseAddr(text)
	if err != nil {
		return Invalid
	}
	if ip.Is4() {
		return NewIPv4(text, prefixLength)
	}
	return NewIPv6(text, prefixLength)
}

// ParseCIDR parses "ip/len".
func ParseCIDR(cidr string) Address {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return Invalid
	}
	return Parse(p.Addr().String(), p.Bits())
}

// FromIPNet converts a netlink/net address into an Address.
func FromIPNet(n *net.IPNet) Address {
	if n == nil {
		return Invalid
	}
	ones, bits := n.Mask.Size()
	if bits == 0 {
		return Invalid
	}
	if v4 := n.IP.To4(); v4 != nil && bits == 32 {
		return NewIPv4(v4.String(), ones)
	}
	return NewIPv6(n.IP.String(), ones)
}

func (a Address) IsValid() bool { return a.family != FamilyInvalid }
func (a Address) Family() Family { return a.family }
func (a Address) PrefixLength() int { return a.prefixLength }
func (a Address) String() string { return a.text }
func (a Address) Equal(b Address) bool { return a.family == b.family && a.text == b.text }

// CIDR returns "ip/len", or an empty string for Invalid.
func (a Address) CIDR() string {
	if !a.IsValid() {
		return ""
	}
	return a.text + "/" + strconv.Itoa(a.prefixLength)
}

// Addr returns the IP without prefix.
func (a Address) Addr() netip.Addr {
	if !a.IsValid() {
		return netip.Addr{}
	}
	return netip.MustParseAddr(a.text)
}

// Prefix returns the masked network prefix.
func (a Address) Prefix() netip.Prefix {
	if !a.IsValid() {
		return netip.Prefix{}
	}
	return netip.PrefixFrom(a.Addr(), a.prefixLength).Masked()
}

// Network returns the network portion with the same prefix length.
func (a Address) Network() Address {
	if !a.IsValid() {
		return Invalid
	}
	return Address{family: a.family, prefixLength: a.prefixLength, text: a.Prefix().Addr().String()}
}

// Host returns the host portion, i.e. the address with the network bits cleared.
func (a Address) Host() netip.Addr {
	if !a.IsValid() {
		return netip.Addr{}
	}
	ip := a.Addr().AsSlice()
	network := a.Prefix().Addr().AsSlice()
	for i := range ip {
		ip[i] &^= network[i]
	}
	host, _ := netip.AddrFromSlice(ip)
	return host
}

// Mask returns the dotted-quad mask of an IPv4 address, or the
// colon-separated mask of an IPv6 one.
func (a Address) Mask() string {
	switch a.family {
	case FamilyIPv4:
		return PrefixLengthToMask(a.prefixLength)
	case FamilyIPv6:
		m, _ := netip.AddrFromSlice(IPv6Mask(a.prefixLength))
		return m.String()
	default:
		return ""
	}
}

// IPNet converts to the net package form used by netlink.
func (a Address) IPNet() *net.IPNet {
	if !a.IsValid() {
		return nil
	}
	bits := 32
	if a.family == FamilyIPv6 {
		bits = 128
	}
	return &net.IPNet{IP: net.IP(a.Addr().AsSlice()), Mask: net.CIDRMask(a.prefixLength, bits)}
}

// IsLinkLocal reports fe80::/10 and 169.254.0.0/16 addresses.
func (a Address) IsLinkLocal() bool {
	return a.IsValid() && a.Addr().IsLinkLocalUnicast()
}

// InHotspotSpace reports IPv4 addresses inside HotspotIPv4Space.
func (a Address) InHotspotSpace() bool {
	return a.family == FamilyIPv4 && HotspotIPv4Space.Contains(a.Addr())
}

// IsULA reports fc00::/7 addresses.
func (a Address) IsULA() bool {
	return a.family == FamilyIPv6 && a.Addr().IsPrivate()
}

// Overlaps reports whether the networks of a and b share any address.
func (a Address) Overlaps(b Address) bool {
	if !a.IsValid() || !b.IsValid() || a.family != b.family {
		return false
	}
	return a.Prefix().Overlaps(b.Prefix())
}
