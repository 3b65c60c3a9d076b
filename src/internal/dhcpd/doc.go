// Package dhcpd runs the DHCP service of the hotspot.
//
// Interface picks a subnet that does not collide with anything already
// configured on the host, binds the gateway address to the hotspot
// interface and hands an address range to a Server. Dnsmasq is the Server
// used in production: it renders a dnsmasq configuration, runs dnsmasq in
// the foreground and exposes its lease file.
//
// Lease lines use the dnsmasq format
//
//	<expiry> <mac> <ip> <hostname> <client-id>
//
// and are turned into station records by ParseLeases.
package dhcpd
