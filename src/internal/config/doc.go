// Package config loads, validates and persists the keen-softap configuration.
//
// The configuration is a TOML file with four sections:
//
//	[general]     interfaces, NAT, IPv6 and runtime directory
//	[api]         HTTP API listener
//	[hotspot]     SSID, security, band and channel
//	[[blocklist]] devices denied association
//
// FileStore wraps a loaded Config and is the settings store used while the
// service runs: hotspot changes and blocklist edits are written back to the
// same file, and the channels table computed at hotspot start is cached in
// memory for the rest of the session.
package config
