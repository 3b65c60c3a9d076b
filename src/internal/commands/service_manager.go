package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/domain"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/models"
	"github.com/maksimkurb/keen-softap/src/internal/monitor"
	"github.com/maksimkurb/keen-softap/src/internal/statemachine"
)

const reloadTimeout = 10 * time.Second

// ServiceManager owns the hotspot state machine and the goroutine that
// drives it.
type ServiceManager struct {
	mu     sync.RWMutex
	cfg    *config.Config
	deps   *domain.AppDependencies
	sm     *statemachine.StateMachine
	runner *RestartableRunner
}

// NewServiceManager wires the state machine to deps. Driver and DHCP server
// events are delivered to the state machine through a monitor.
func NewServiceManager(cfg *config.Config, deps *domain.AppDependencies) *ServiceManager {
	sm := statemachine.New(statemachine.Options{
		Store:  deps.Store(),
		Driver: deps.Driver(),
		Dhcp:   deps.Dhcp(),
		Nat:    deps.Nat(),
		Callbacks: statemachine.Callbacks{
			OnStateChanged: func(state models.ApState) {
				log.Infof("Hotspot state: %s", state)
			},
			OnStationJoin: func(info models.StationInfo) {
				log.Infof("Station %s joined", info.MAC)
			},
			OnStationLeave: func(info models.StationInfo) {
				log.Infof("Station %s (%s, %s) left", info.MAC, info.DeviceName, info.IPAddress)
			},
		},
	})
	monitor.New(sm).Register(deps.Driver(), deps.DhcpServer())

	s := &ServiceManager{cfg: cfg, deps: deps, sm: sm}
	s.runner = NewRestartableRunner(RunnerConfig{
		Name:           "State machine",
		RestartBackoff: 1 * time.Second,
		MaxBackoff:     10 * time.Second,
	}, sm.Run)
	return s
}

// Hotspot returns the state machine facade.
func (s *ServiceManager) Hotspot() *statemachine.StateMachine {
	return s.sm
}

func (s *ServiceManager) IsRunning() bool {
	return s.runner.IsRunning()
}

// Start runs the state machine and starts the hotspot when auto start is
// configured.
func (s *ServiceManager) Start(ctx context.Context) error {
	if err := s.runner.Start(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	autoStart := s.cfg.General.AutoStart
	s.mu.RUnlock()

	if autoStart {
		log.Infof("Auto start is enabled, starting hotspot...")
		s.sm.StartHotspot()
	}
	return nil
}

// Stop tears the hotspot down and stops the state machine.
func (s *ServiceManager) Stop() error {
	if !s.runner.IsRunning() {
		return fmt.Errorf("service is not running")
	}
	return s.runner.Stop()
}

// RestartHotspot stops the hotspot and starts it again.
func (s *ServiceManager) RestartHotspot() {
	s.sm.StopHotspot()
	s.sm.StartHotspot()
}

// Reload re-reads the configuration file and pushes its hotspot section.
// Changes to [general] take effect after a service restart.
func (s *ServiceManager) Reload(configPath string) error {
	cfg, err := loadAndValidateConfigOrFail(configPath)
	if err != nil {
		return err
	}

	s.mu.RLock()
	if *cfg.General != *s.cfg.General {
		log.Warnf("[general] section changed, restart the service to apply it")
	}
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	if err := s.sm.SetHotspotConfig(ctx, *cfg.Hotspot); err != nil {
		return fmt.Errorf("failed to apply hotspot configuration: %w", err)
	}
	return nil
}

// LogStations writes the connected stations to the log.
func (s *ServiceManager) LogStations() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	stations, err := s.sm.Stations(ctx)
	if err != nil {
		log.Errorf("Failed to list stations: %v", err)
		return
	}

	log.Infof("Hotspot state: %s, %d station(s) connected", s.sm.State(), len(stations))
	for _, st := range stations {
		log.Infof("  %s  %-15s  %s", st.MAC, st.IPAddress, st.DeviceName)
	}
}
