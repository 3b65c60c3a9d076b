package hal

import (
	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/config"
)

// Events are the asynchronous notifications of a Driver. Nil callbacks are
// skipped.
type Events struct {
	StationJoined   func(mac address.MAC)
	StationLeft     func(mac address.MAC)
	HotspotEnabled  func()
	HotspotDisabled func()
}

// Driver controls the radio of the hotspot interface.
type Driver interface {
	InterfaceName() string
	// EnableAP prepares the radio for access point mode.
	EnableAP() error
	// DisableAP stops the access point and releases the radio.
	DisableAP() error
	// SetConfig applies cfg. The outcome is reported asynchronously through
	// HotspotEnabled or HotspotDisabled.
	SetConfig(cfg config.HotspotConfig) error
	Stations() ([]address.MAC, error)
	AddBlock(mac address.MAC) error
	DelBlock(mac address.MAC) error
	Disconnect(mac address.MAC) error
	// Frequencies lists the usable centre frequencies in MHz of band.
	Frequencies(band config.Band) ([]int, error)
	SetCountryCode(code string) error
	RegisterEvents(ev Events)
}
