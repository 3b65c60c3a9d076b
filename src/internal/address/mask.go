package address

import (
	"math/bits"
	"net/netip"
)

// MaskToPrefixLength counts the leading one-bits of a dotted-quad IPv4 mask.
func MaskToPrefixLength(mask string) (int, bool) {
	m, err := netip.ParseAddr(mask)
	if err != nil || !m.Is4() {
		return 0, false
	}
	b := m.As4()
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return bits.LeadingZeros32(^v), true
}

// PrefixLengthToMask builds the dotted-quad mask for a prefix length in [0, 32].
func PrefixLengthToMask(length int) string {
	if length < 0 || length > 32 {
		return ""
	}
	var v uint32
	if length > 0 {
		v = ^uint32(0) << (32 - length)
	}
	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}).String()
}

// IPv6Mask builds a 16-byte mask with the first length bits set.
func IPv6Mask(length int) []byte {
	mask := make([]byte, 16)
	if length < 0 {
		return mask
	}
	for i := 0; i < 16 && length > 0; i++ {
		if length >= 8 {
			mask[i] = 0xff
			length -= 8
			continue
		}
		mask[i] = byte(0xff << (8 - length))
		length = 0
	}
	return mask
}

// IPv6MaskLength counts the leading one-bits of a 16-byte mask.
func IPv6MaskLength(mask []byte) int {
	n := 0
	for _, b := range mask {
		if b == 0xff {
			n += 8
			continue
		}
		return n + bits.LeadingZeros8(^b)
	}
	return n
}
