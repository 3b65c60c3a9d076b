package statemachine

import (
	"github.com/maksimkurb/keen-softap/src/internal/apconfig"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/errors"
	"github.com/maksimkurb/keen-softap/src/internal/events"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

var bands = []config.Band{config.Band24GHz, config.Band5GHz}

type idleState struct {
	m *StateMachine
}

func (s *idleState) Name() string { return "Idle" }

func (s *idleState) GoInState() {}

func (s *idleState) GoOutState() {}

func (s *idleState) ExecuteStateMsg(msg events.Message) bool {
	switch msg := msg.(type) {
	case events.StartHotspot:
		s.m.transitionTo(s.m.started)
	case events.StopHotspot:
		log.Debugf("Hotspot is already stopped")
	case events.ConfigUpdateResult:
		// Nothing is bound yet.
	case events.SetHotspotConfig:
		events.Reply(msg.Reply, s.m.saveHotspotConfig(msg.Config))
	default:
		return false
	}
	return true
}

// startedState runs the access point. Entering it brings the radio up and
// leaving it tears everything down again.
type startedState struct {
	m *StateMachine

	natEnabled bool
}

func (s *startedState) Name() string { return "Started" }

func (s *startedState) GoInState() {
	m := s.m
	iface := m.interfaceName()
	m.announce(models.ApStateStarting)

	if err := m.driver.EnableAP(); err != nil {
		log.Errorf("Failed to enable access point mode on %s: %v", iface, err)
		m.transitionTo(m.idle)
		return
	}

	cfg, err := m.store.HotspotConfig()
	if err != nil {
		log.Errorf("Failed to load hotspot configuration: %v", err)
		m.transitionTo(m.idle)
		return
	}

	s.applyCountryCode()

	table := s.buildChannelsTable()
	m.store.SaveChannelsTable(table)
	if apconfig.ValidateBandChannel(&cfg, table) {
		log.Warnf("Channel not supported by the radio, falling back to %s channel %d", cfg.Band, cfg.Channel)
		if err := m.store.SaveHotspotConfig(cfg); err != nil {
			log.Warnf("Failed to persist corrected configuration: %v", err)
		}
	}

	if err := m.driver.SetConfig(cfg); err != nil {
		log.Errorf("Failed to configure access point: %v", err)
		m.transitionTo(m.idle)
		return
	}

	if err := m.registry.EnableAllBlockList(); err != nil {
		log.Warnf("Blocklist only partially applied: %v", err)
	}

	general := m.store.General()
	if general.EnableNAT {
		if m.nat.SetNat(true, iface, general.UpstreamInterface) {
			s.natEnabled = true
		} else {
			log.Warnf("Internet sharing from %s was not enabled", general.UpstreamInterface)
		}
	}

	m.announce(models.ApStateStarted)
}

func (s *startedState) GoOutState() {
	m := s.m
	iface := m.interfaceName()
	m.announce(models.ApStateClosing)

	if s.natEnabled {
		general := m.store.General()
		m.nat.SetNat(false, iface, general.UpstreamInterface)
		s.natEnabled = false
	}
	if err := m.dhcp.StopServer(iface); err != nil {
		log.Warnf("Failed to stop DHCP service: %v", err)
	}
	if err := m.driver.DisableAP(); err != nil {
		log.Warnf("Failed to disable access point: %v", err)
	}

	m.announce(models.ApStateIdle)
	m.registry.Clear()
}

func (s *startedState) ExecuteStateMsg(msg events.Message) bool {
	m := s.m

	switch msg := msg.(type) {
	case events.StartHotspot:
		log.Debugf("Hotspot is already running")

	case events.StopHotspot:
		m.transitionTo(m.idle)

	case events.StationJoin:
		if info, added := m.registry.StationJoin(msg.MAC); added && m.callbacks.OnStationJoin != nil {
			m.callbacks.OnStationJoin(info)
		}

	case events.StationLeave:
		if info, removed := m.registry.StationLeave(msg.MAC); removed && m.callbacks.OnStationLeave != nil {
			m.callbacks.OnStationLeave(info)
		}

	case events.SetHotspotConfig:
		events.Reply(msg.Reply, s.updateConfig(msg.Config))

	case events.ConfigUpdateResult:
		if !msg.Success {
			log.Errorf("Access point failed to come up with the current configuration")
			m.transitionTo(m.idle)
			return true
		}
		s.restartDhcp()
		// A respawned radio drops every client without reporting it.
		if m.pending == nil {
			s.syncStations(true)
		}

	case events.AddBlockList:
		events.Reply(msg.Reply, m.registry.AddBlockList(msg.MAC, msg.DeviceName, true))

	case events.DelBlockList:
		events.Reply(msg.Reply, m.registry.DelBlockList(msg.MAC, true))

	case events.DisconnectStation:
		events.Reply(msg.Reply, m.registry.DisconnectStation(msg.MAC))

	case events.DhcpServerExited:
		log.Errorf("DHCP service died, stopping hotspot: %v", msg.Err)
		m.transitionTo(m.idle)

	case events.QueryStations:
		s.syncStations(false)
		m.registry.Resolve(m.dhcp.GetConnectedStations(m.interfaceName()))
		events.Reply(msg.Reply, m.registry.Stations())

	default:
		return false
	}
	return true
}

// restartDhcp rebinds addresses and restarts DHCP after the radio applied a
// configuration.
func (s *startedState) restartDhcp() {
	m := s.m
	iface := m.interfaceName()

	if err := m.dhcp.StopServer(iface); err != nil {
		log.Debugf("Stopping previous DHCP service: %v", err)
	}
	if _, err := m.dhcp.StartServer(iface, true, m.store.General().EnableIPv6); err != nil {
		log.Errorf("Failed to start DHCP service on %s: %v", iface, err)
		m.transitionTo(m.idle)
	}
}

// syncStations reconciles the registry with the radio's station list and
// fires the join and leave callbacks for the difference. When the radio
// cannot be asked the table is kept, unless dropOnError is set.
func (s *startedState) syncStations(dropOnError bool) {
	m := s.m
	live, err := m.driver.Stations()
	if err != nil {
		if !dropOnError {
			log.Warnf("Failed to list associated stations: %v", err)
			return
		}
		log.Warnf("Failed to list associated stations, assuming none: %v", err)
		live = nil
	}

	joined, left := m.registry.Sync(live)
	for _, info := range left {
		if m.callbacks.OnStationLeave != nil {
			m.callbacks.OnStationLeave(info)
		}
	}
	for _, info := range joined {
		if m.callbacks.OnStationJoin != nil {
			m.callbacks.OnStationJoin(info)
		}
	}
}

// updateConfig validates cfg, persists it and pushes it to the radio. A
// failing push is logged but does not stop the hotspot.
func (s *startedState) updateConfig(cfg config.HotspotConfig) error {
	m := s.m
	if err := m.saveHotspotConfig(cfg); err != nil {
		return err
	}

	stored, err := m.store.HotspotConfig()
	if err != nil {
		return err
	}
	if err := m.driver.SetConfig(stored); err != nil {
		log.Errorf("Failed to push new configuration to the radio: %v", err)
		return err
	}
	log.Infof("Applying hotspot configuration (SSID %q, %s channel %d)", stored.SSID, stored.Band, stored.Channel)
	return nil
}

func (s *startedState) applyCountryCode() {
	m := s.m
	code := m.store.CountryCode()
	if code == "" {
		return
	}
	if !config.IsValidCountryCode(code) {
		log.Warnf("Ignoring invalid country code %q", code)
		return
	}
	if err := m.driver.SetCountryCode(code); err != nil {
		log.Warnf("Failed to set country code %s: %v", code, err)
	}
}

func (s *startedState) buildChannelsTable() config.ChannelsTable {
	freqs := make(map[config.Band][]int)
	for _, band := range bands {
		f, err := s.m.driver.Frequencies(band)
		if err != nil {
			log.Warnf("Failed to read %s frequencies: %v", band, err)
			continue
		}
		freqs[band] = f
	}
	return apconfig.BuildChannelsTable(freqs)
}

// rootState handles what the active state leaves over. It always reports
// the message as handled.
type rootState struct {
	m *StateMachine
}

func (s *rootState) Name() string { return "Root" }

func (s *rootState) GoInState() {}

func (s *rootState) GoOutState() {}

func (s *rootState) ExecuteStateMsg(msg events.Message) bool {
	m := s.m

	switch msg := msg.(type) {
	case events.AddBlockList:
		events.Reply(msg.Reply, m.registry.AddBlockList(msg.MAC, msg.DeviceName, false))
	case events.DelBlockList:
		events.Reply(msg.Reply, m.registry.DelBlockList(msg.MAC, false))
	case events.DisconnectStation:
		events.Reply[error](msg.Reply, errors.NewDriverError("hotspot is not running", nil))
	case events.QueryStations:
		events.Reply(msg.Reply, m.registry.Stations())
	case events.QueryBlockList:
		events.Reply(msg.Reply, m.registry.BlockList())
	case events.DhcpServerExited:
		log.Debugf("Ignoring DHCP exit in %s state", m.current.Name())
	default:
		log.Debugf("Unhandled %s in %s state", msg.Kind(), m.current.Name())
	}
	return true
}

// saveHotspotConfig validates cfg, corrects its channel against the cached
// channels table and persists it.
func (m *StateMachine) saveHotspotConfig(cfg config.HotspotConfig) error {
	if verrs := config.ValidateHotspot(&cfg); len(verrs) > 0 {
		return errors.NewValidationError("invalid hotspot configuration", verrs)
	}
	if table := m.store.ChannelsTable(); len(table) > 0 {
		if apconfig.ValidateBandChannel(&cfg, table) {
			log.Warnf("Channel not supported by the radio, using %s channel %d", cfg.Band, cfg.Channel)
		}
	}
	return m.store.SaveHotspotConfig(cfg)
}
