// Package monitor turns asynchronous driver and DHCP notifications into
// state machine messages.
package monitor

import (
	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/events"
	"github.com/maksimkurb/keen-softap/src/internal/hal"
	"github.com/maksimkurb/keen-softap/src/internal/log"
)

// Sink accepts messages for the state machine.
type Sink interface {
	SendMessage(msg events.Message)
}

// ExitNotifier reports an unexpected exit of the DHCP daemon.
type ExitNotifier interface {
	OnExit(func(err error))
}

// EventSource delivers driver events.
type EventSource interface {
	RegisterEvents(ev hal.Events)
}

type Monitor struct {
	sink Sink
}

func New(sink Sink) *Monitor {
	return &Monitor{sink: sink}
}

// Register subscribes to the driver and the DHCP daemon. Either may be nil.
func (m *Monitor) Register(driver EventSource, dhcp ExitNotifier) {
	if driver != nil {
		driver.RegisterEvents(hal.Events{
			StationJoined:   m.stationJoined,
			StationLeft:     m.stationLeft,
			HotspotEnabled:  m.hotspotEnabled,
			HotspotDisabled: m.hotspotDisabled,
		})
	}
	if dhcp != nil {
		dhcp.OnExit(m.dhcpExited)
	}
}

// SendMessage enqueues msg.
func (m *Monitor) SendMessage(msg events.Message) {
	log.Debugf("Queueing %s", msg.Kind())
	m.sink.SendMessage(msg)
}

func (m *Monitor) stationJoined(mac address.MAC) {
	m.SendMessage(events.StationJoin{MAC: mac})
}

func (m *Monitor) stationLeft(mac address.MAC) {
	m.SendMessage(events.StationLeave{MAC: mac})
}

func (m *Monitor) hotspotEnabled() {
	m.SendMessage(events.ConfigUpdateResult{Success: true})
}

func (m *Monitor) hotspotDisabled() {
	m.SendMessage(events.ConfigUpdateResult{Success: false})
}

func (m *Monitor) dhcpExited(err error) {
	log.Warnf("DHCP daemon exited: %v", err)
	m.SendMessage(events.DhcpServerExited{Err: err})
}
