package dhcpd

import (
	"fmt"
	"io"
	"net/netip"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/errors"
)

const subnetCandidates = 256

// SelectIPv4 returns the first /24 gateway address, starting from preferred
// and advancing the third octet, whose network does not overlap any of used.
// The host part of preferred is kept, and preferred must lie in
// address.HotspotIPv4Space.
func SelectIPv4(preferred address.Address, used []address.Address) (address.Address, error) {
	if preferred.Family() != address.FamilyIPv4 {
		return address.Invalid, errors.NewDHCPError("invalid IPv4 gateway", nil)
	}
	if !preferred.InHotspotSpace() {
		return address.Invalid, errors.NewDHCPError(fmt.Sprintf("IPv4 gateway %s is outside %s", preferred, address.HotspotIPv4Space), nil)
	}

	base := preferred.Addr().As4()
	for i := 0; i < subnetCandidates; i++ {
		candidate := base
		candidate[2] = byte((int(base[2]) + i) % subnetCandidates)

		addr := address.NewIPv4(netip.AddrFrom4(candidate).String(), 24)
		if !overlapsAny(addr, used) {
			return addr, nil
		}
	}
	return address.Invalid, errors.NewDHCPError("no free /24 subnet left", nil)
}

// SelectIPv6 shares the /64 of the first global address in used by deriving
// an EUI-64 address from mac. When there is no such address, or its prefix
// is longer than /64, it generates a unique local prefix instead.
func SelectIPv6(used []address.Address, mac address.MAC, attempts int, rnd io.Reader) (address.Address, error) {
	for _, a := range used {
		if a.Family() != address.FamilyIPv6 || a.IsLinkLocal() || a.IsULA() || a.Addr().IsLoopback() {
			continue
		}
		if a.PrefixLength() > 64 {
			break
		}
		if derived := address.FromEUI64(a, mac); derived.IsValid() {
			return derived, nil
		}
		break
	}

	ula := address.GenerateULA(64, used, attempts, rnd)
	if !ula.IsValid() {
		return address.Invalid, errors.NewDHCPError("failed to generate a unique local IPv6 prefix", nil)
	}
	return ula, nil
}

func overlapsAny(candidate address.Address, used []address.Address) bool {
	for _, u := range used {
		if candidate.Overlaps(u) {
			return true
		}
	}
	return false
}
