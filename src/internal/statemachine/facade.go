package statemachine

import (
	"context"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/events"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

// StartHotspot requests the hotspot to start. The outcome is observed
// through State or the OnStateChanged callback.
func (m *StateMachine) StartHotspot() {
	m.SendMessage(events.StartHotspot{})
}

func (m *StateMachine) StopHotspot() {
	m.SendMessage(events.StopHotspot{})
}

// SetHotspotConfig validates and stores cfg, applying it when the hotspot runs.
func (m *StateMachine) SetHotspotConfig(ctx context.Context, cfg config.HotspotConfig) error {
	reply := make(chan error, 1)
	if err := m.send(ctx, events.SetHotspotConfig{Config: cfg, Reply: reply}); err != nil {
		return err
	}
	return await(ctx, reply)
}

func (m *StateMachine) AddBlockList(ctx context.Context, mac address.MAC, deviceName string) error {
	reply := make(chan error, 1)
	if err := m.send(ctx, events.AddBlockList{MAC: mac, DeviceName: deviceName, Reply: reply}); err != nil {
		return err
	}
	return await(ctx, reply)
}

func (m *StateMachine) DelBlockList(ctx context.Context, mac address.MAC) error {
	reply := make(chan error, 1)
	if err := m.send(ctx, events.DelBlockList{MAC: mac, Reply: reply}); err != nil {
		return err
	}
	return await(ctx, reply)
}

func (m *StateMachine) DisconnectStation(ctx context.Context, mac address.MAC) error {
	reply := make(chan error, 1)
	if err := m.send(ctx, events.DisconnectStation{MAC: mac, Reply: reply}); err != nil {
		return err
	}
	return await(ctx, reply)
}

// Stations returns the connected stations with details from DHCP leases.
func (m *StateMachine) Stations(ctx context.Context) ([]models.StationInfo, error) {
	reply := make(chan []models.StationInfo, 1)
	if err := m.send(ctx, events.QueryStations{Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *StateMachine) BlockList(ctx context.Context) ([]config.BlockedDevice, error) {
	reply := make(chan []config.BlockedDevice, 1)
	if err := m.send(ctx, events.QueryBlockList{Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case b := <-reply:
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ChannelsTable returns the channels supported by the radio, as read at the
// last hotspot start.
func (m *StateMachine) ChannelsTable() config.ChannelsTable {
	return m.store.ChannelsTable()
}

// HotspotConfig returns the stored hotspot configuration.
func (m *StateMachine) HotspotConfig() (config.HotspotConfig, error) {
	return m.store.HotspotConfig()
}

func (m *StateMachine) send(ctx context.Context, msg events.Message) error {
	select {
	case m.queue <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func await(ctx context.Context, reply <-chan error) error {
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
