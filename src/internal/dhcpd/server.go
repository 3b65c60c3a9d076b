package dhcpd

// Server is an external DHCP service bound to one interface.
type Server interface {
	// AddRange registers an address range to serve. Ranges are applied on
	// the next Start.
	AddRange(r Range) error
	// RemoveRange drops every range registered under tag.
	RemoveRange(tag string) error
	Start(interfaceName string) error
	// Stop is a no-op when the service is not running.
	Stop(interfaceName string) error
	// LeaseLines returns the raw lines of the lease table.
	LeaseLines() ([]string, error)
	// OnExit registers a callback fired when the service exits without
	// being stopped.
	OnExit(func(err error))
	// Release frees files and other resources held by the service.
	Release() error
}
