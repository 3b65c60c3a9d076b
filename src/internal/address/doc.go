// Package address provides immutable value types for IPv4 and IPv6 interface
// addresses and for Wi-Fi MAC addresses.
//
// Values are only produced by validating factories. A factory never returns
// an error: malformed input yields the shared Invalid (or InvalidMAC)
// sentinel, and IsValid is the only way to tell the two apart.
//
//	a := address.NewIPv4("192.168.62.1", 24)
//	if !a.IsValid() {
//	    return errInvalidGateway
//	}
//	fmt.Println(a.Network(), a.Mask()) // 192.168.62.0/24 255.255.255.0
//
// IPv6 helpers derive stable EUI-64 host addresses from a MAC and generate
// randomized unique local (fd00::/8) prefixes that avoid addresses already in
// use on the device.
package address
