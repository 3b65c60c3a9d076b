package address

import (
	"crypto/rand"
	"io"
	"net/netip"
)

const (
	// DefaultULAAttempts bounds the number of random prefixes GenerateULA
	// draws before giving up.
	DefaultULAAttempts = 10

	ulaMarker = 0xfd
)

// FromEUI64 returns the address in the /64 of prefix whose interface
// identifier is the modified EUI-64 form of mac.
func FromEUI64(prefix Address, mac MAC) Address {
	if prefix.Family() != FamilyIPv6 || !mac.IsValid() {
		return Invalid
	}
	p := prefix.Addr().As16()
	m := mac.Bytes()

	var out [16]byte
	copy(out[:8], p[:8])
	out[8] = m[0] ^ 0x02
	out[9] = m[1]
	out[10] = m[2]
	out[11] = 0xff
	out[12] = 0xfe
	out[13] = m[3]
	out[14] = m[4]
	out[15] = m[5]

	return NewIPv6(netip.AddrFrom16(out).String(), 64)
}

// GenerateULA draws random fd00::/8 routing prefixes until one does not
// collide with existing, and returns host ::1 in it. A candidate collides
// when it equals an existing address or their networks overlap. Returns
// Invalid after attempts draws, on a read error or when prefixLength is out
// of [8, 64]. A nil rnd reads from crypto/rand.
func GenerateULA(prefixLength int, existing []Address, attempts int, rnd io.Reader) Address {
	if prefixLength < 8 || prefixLength > 64 {
		return Invalid
	}
	if rnd == nil {
		rnd = rand.Reader
	}

	for i := 0; i < attempts; i++ {
		var b [16]byte
		if _, err := io.ReadFull(rnd, b[:8]); err != nil {
			return Invalid
		}
		b[0] = ulaMarker
		b[15] = 1

		candidate := NewIPv6(netip.AddrFrom16(b).String(), prefixLength)
		if !collides(candidate, existing) {
			return candidate
		}
	}
	return Invalid
}

func collides(candidate Address, existing []Address) bool {
	for _, e := range existing {
		if candidate.Equal(e) || candidate.Overlaps(e) {
			return true
		}
	}
	return false
}
