package address

import (
	"fmt"
	"net"
	"strings"
)

// MAC is a 48-bit hardware address in lower-case "aa:bb:cc:dd:ee:ff" form.
type MAC struct {
	text string
}

// InvalidMAC is returned by ParseMAC on malformed input.
var InvalidMAC = MAC{}

const macTextLength = 17

// ParseMAC accepts exactly six colon-separated hex octets.
func ParseMAC(text string) MAC {
	if len(text) != macTextLength {
		return InvalidMAC
	}
	for i := 0; i < macTextLength; i++ {
		c := text[i]
		if i%3 == 2 {
			if c != ':' {
				return InvalidMAC
			}
			continue
		}
		if !isHex(c) {
			return InvalidMAC
		}
	}
	return MAC{text: strings.ToLower(text)}
}

// MACFromHardwareAddr converts a 6-byte net.HardwareAddr.
func MACFromHardwareAddr(hw net.HardwareAddr) MAC {
	if len(hw) != 6 {
		return InvalidMAC
	}
	return ParseMAC(hw.String())
}

func (m MAC) IsValid() bool { return m.text != "" }
func (m MAC) String() string { return m.text }

// Bytes returns the six octets, or nil for InvalidMAC.
func (m MAC) Bytes() []byte {
	if !m.IsValid() {
		return nil
	}
	hw, err := net.ParseMAC(m.text)
	if err != nil {
		return nil
	}
	return hw
}

func (m MAC) MarshalText() ([]byte, error) {
	return []byte(m.text), nil
}

func (m *MAC) UnmarshalText(b []byte) error {
	parsed := ParseMAC(string(b))
	if !parsed.IsValid() {
		return fmt.Errorf("invalid MAC address %q", b)
	}
	*m = parsed
	return nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
