// Package networking manages the host side of the hotspot: interface
// addresses and the NAT that shares the upstream connection.
//
//   - InterfaceManager: lists, binds and removes interface addresses via netlink
//   - NatManager: toggles IPv4 forwarding, the unmarked-traffic ip rule and
//     the iptables FORWARD/MASQUERADE rules
//
// Example:
//
//	nat, err := networking.NewSystemNatManager()
//	if err != nil {
//	    return err
//	}
//	nat.SetNat(true, "wlan0", "eth0")
package networking
