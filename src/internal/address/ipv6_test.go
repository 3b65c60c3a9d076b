package address

import (
	"bytes"
	"testing"
)

func TestFromEUI64(t *testing.T) {
	prefix := NewIPv6("2001:db8:1:2::", 64)
	mac := ParseMAC("00:11:22:33:44:55")

	got := FromEUI64(prefix, mac)
	if got.String() != "2001:db8:1:2:211:22ff:fe33:4455" {
		t.Errorf("FromEUI64() = %s", got)
	}
	if got.PrefixLength() != 64 {
		t.Errorf("PrefixLength() = %d, want 64", got.PrefixLength())
	}

	again := FromEUI64(prefix, mac)
	if got != again {
		t.Errorf("FromEUI64 is not deterministic: %s vs %s", got, again)
	}

	// host bits of the prefix are ignored
	if other := FromEUI64(NewIPv6("2001:db8:1:2::abcd", 64), mac); other != got {
		t.Errorf("FromEUI64 kept prefix host bits: %s", other)
	}
}

func TestFromEUI64_Invalid(t *testing.T) {
	if FromEUI64(NewIPv4("192.168.1.1", 24), ParseMAC("00:11:22:33:44:55")).IsValid() {
		t.Errorf("IPv4 prefix should yield Invalid")
	}
	if FromEUI64(NewIPv6("2001:db8::", 64), InvalidMAC).IsValid() {
		t.Errorf("invalid MAC should yield Invalid")
	}
}

func TestGenerateULA_Marker(t *testing.T) {
	for i := 0; i < 50; i++ {
		a := GenerateULA(64, nil, DefaultULAAttempts, nil)
		if !a.IsValid() {
			t.Fatalf("GenerateULA returned Invalid with no collisions")
		}
		if b := a.Addr().As16(); b[0] != 0xfd {
			t.Fatalf("first byte = %#x, want 0xfd (%s)", b[0], a)
		}
		if !a.IsULA() {
			t.Errorf("%s is not a ULA", a)
		}
	}
}

func TestGenerateULA_AvoidsCollisions(t *testing.T) {
	first := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}
	second := []byte{0x00, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x01}
	rnd := bytes.NewReader(append(append([]byte{}, first...), second...))

	existing := []Address{NewIPv6("fd11:2233:4455:6677::5", 64)}

	got := GenerateULA(64, existing, DefaultULAAttempts, rnd)
	if got.String() != "fdaa:bbcc:ddee:ff01::1" {
		t.Fatalf("GenerateULA() = %s, want fdaa:bbcc:ddee:ff01::1", got)
	}
	for _, e := range existing {
		if got.Equal(e) || got.Overlaps(e) {
			t.Errorf("generated %s collides with %s", got, e)
		}
	}
}

func TestGenerateULA_GivesUp(t *testing.T) {
	draw := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}
	rnd := bytes.NewReader(bytes.Repeat(draw, 3))
	existing := []Address{NewIPv6("fd11:2233:4455:6677::1", 64)}

	if got := GenerateULA(64, existing, 3, rnd); got != Invalid {
		t.Errorf("GenerateULA() = %s, want Invalid after exhausting attempts", got)
	}
}

func TestGenerateULA_BadPrefixLength(t *testing.T) {
	if GenerateULA(65, nil, DefaultULAAttempts, nil).IsValid() {
		t.Errorf("prefix length 65 should be rejected")
	}
}
