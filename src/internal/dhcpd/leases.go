package dhcpd

import (
	"strings"

	"github.com/miekg/dns"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

const (
	leaseMinTokens  = 5
	leaseDUIDMarker = "duid"
	macTokenLength  = 17
)

// ParseLeases turns dnsmasq lease lines into stations keyed by MAC. Lines
// with fewer than five tokens are skipped. The IPv6 section starting at the
// "duid" line is not parsed.
func ParseLeases(lines []string) map[string]models.StationInfo {
	stations := make(map[string]models.StationInfo)

	for _, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) > 0 && tokens[0] == leaseDUIDMarker {
			break
		}
		if len(tokens) < leaseMinTokens {
			continue
		}

		macToken := tokens[1]
		if len(macToken) > macTokenLength {
			macToken = macToken[len(macToken)-macTokenLength:]
		}
		mac := address.ParseMAC(macToken)
		if !mac.IsValid() {
			continue
		}

		stations[mac.String()] = models.StationInfo{
			DeviceName: sanitizeHostname(tokens[3]),
			MAC:        mac,
			IPAddress:  tokens[2],
		}
	}

	return stations
}

func sanitizeHostname(name string) string {
	if name == "*" {
		return models.Unknown
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return models.Unknown
	}
	return strings.TrimSuffix(name, ".")
}
