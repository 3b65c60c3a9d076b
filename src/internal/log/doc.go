// Package log provides leveled console logging for keen-softap.
//
// Messages are prefixed with a colored level tag. Debug output is only shown
// in verbose mode. Errors always go to stderr.
//
//	log.Infof("Hotspot started on %s", iface)
//	log.Warnf("NAT: failed to toggle forwarding: %v", err)
//
// Output of helper daemons (hostapd, dnsmasq) can be piped through the
// logger with ProcessWriter:
//
//	cmd.Stdout = log.ProcessWriter("hostapd")
//
// All functions are safe for concurrent use.
package log
