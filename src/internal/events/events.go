// Package events defines the messages driving the hotspot state machine.
//
// Messages are a closed set: every type in this package implements Message
// and nothing else should. Reply channels must be buffered so the state
// machine never blocks on a caller that went away.
package events

import (
	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

type Kind int

const (
	KindStartHotspot Kind = iota
	KindStopHotspot
	KindStationJoin
	KindStationLeave
	KindSetHotspotConfig
	KindConfigUpdateResult
	KindAddBlockList
	KindDelBlockList
	KindDisconnectStation
	KindDhcpServerExited
	KindQueryStations
	KindQueryBlockList
)

var kindNames = map[Kind]string{
	KindStartHotspot:       "StartHotspot",
	KindStopHotspot:        "StopHotspot",
	KindStationJoin:        "StationJoin",
	KindStationLeave:       "StationLeave",
	KindSetHotspotConfig:   "SetHotspotConfig",
	KindConfigUpdateResult: "ConfigUpdateResult",
	KindAddBlockList:       "AddBlockList",
	KindDelBlockList:       "DelBlockList",
	KindDisconnectStation:  "DisconnectStation",
	KindDhcpServerExited:   "DhcpServerExited",
	KindQueryStations:      "QueryStations",
	KindQueryBlockList:     "QueryBlockList",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Message is a state machine input.
type Message interface {
	Kind() Kind
	message()
}

type StartHotspot struct{}

type StopHotspot struct{}

// StationJoin reports that a station associated with the access point.
type StationJoin struct {
	MAC address.MAC
}

// StationLeave reports that a station left the access point.
type StationLeave struct {
	MAC address.MAC
}

// SetHotspotConfig replaces the hotspot configuration.
type SetHotspotConfig struct {
	Config config.HotspotConfig
	Reply  chan<- error
}

// ConfigUpdateResult is the outcome of the last configuration pushed to
// the radio.
type ConfigUpdateResult struct {
	Success bool
}

type AddBlockList struct {
	MAC        address.MAC
	DeviceName string
	Reply      chan<- error
}

type DelBlockList struct {
	MAC   address.MAC
	Reply chan<- error
}

type DisconnectStation struct {
	MAC   address.MAC
	Reply chan<- error
}

// DhcpServerExited reports that the DHCP daemon died on its own.
type DhcpServerExited struct {
	Err error
}

type QueryStations struct {
	Reply chan<- []models.StationInfo
}

type QueryBlockList struct {
	Reply chan<- []config.BlockedDevice
}

func (StartHotspot) Kind() Kind { return KindStartHotspot }
func (StopHotspot) Kind() Kind { return KindStopHotspot }
func (StationJoin) Kind() Kind { return KindStationJoin }
func (StationLeave) Kind() Kind { return KindStationLeave }
func (SetHotspotConfig) Kind() Kind { return KindSetHotspotConfig }
func (ConfigUpdateResult) Kind() Kind { return KindConfigUpdateResult }
func (AddBlockList) Kind() Kind { return KindAddBlockList }
func (DelBlockList) Kind() Kind { return KindDelBlockList }
func (DisconnectStation) Kind() Kind { return KindDisconnectStation }
func (DhcpServerExited) Kind() Kind { return KindDhcpServerExited }
func (QueryStations) Kind() Kind { return KindQueryStations }
func (QueryBlockList) Kind() Kind { return KindQueryBlockList }

func (StartHotspot) message() {}
func (StopHotspot) message() {}
func (StationJoin) message() {}
func (StationLeave) message() {}
func (SetHotspotConfig) message() {}
func (ConfigUpdateResult) message() {}
func (AddBlockList) message() {}
func (DelBlockList) message() {}
func (DisconnectStation) message() {}
func (DhcpServerExited) message() {}
func (QueryStations) message() {}
func (QueryBlockList) message() {}

// Reply delivers v on ch without blocking. A nil channel is ignored.
func Reply[T any](ch chan<- T, v T) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
	}
}
