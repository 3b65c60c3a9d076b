package config

import (
	"sync"

	"github.com/maksimkurb/keen-softap/src/internal/errors"
	"github.com/maksimkurb/keen-softap/src/internal/log"
)

// FileStore is the settings store backed by the configuration file. A
// Config without a file path is kept in memory only.
type FileStore struct {
	mu       sync.RWMutex
	cfg      *Config
	channels ChannelsTable
}

func NewFileStore(cfg *Config) *FileStore {
	cfg.ApplyDefaults()
	return &FileStore{cfg: cfg, channels: ChannelsTable{}}
}

// General returns a copy of the [general] section.
func (s *FileStore) General() GeneralConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg.General
}

func (s *FileStore) CountryCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.General.CountryCode
}

// HotspotConfig returns a copy of the stored hotspot configuration.
func (s *FileStore) HotspotConfig() (HotspotConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.Hotspot == nil {
		return DefaultHotspotConfig(), nil
	}
	return *s.cfg.Hotspot, nil
}

// SaveHotspotConfig validates and persists a hotspot configuration.
func (s *FileStore) SaveHotspotConfig(h HotspotConfig) error {
	if verrs := ValidateHotspot(&h); len(verrs) > 0 {
		return errors.NewValidationError("invalid hotspot configuration", verrs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.cfg.Hotspot
	s.cfg.Hotspot = &h
	if err := s.persist(); err != nil {
		s.cfg.Hotspot = prev
		return err
	}
	return nil
}

// BlockList returns a copy of the persisted blocklist.
func (s *FileStore) BlockList() []BlockedDevice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BlockedDevice, 0, len(s.cfg.BlockList))
	for _, d := range s.cfg.BlockList {
		out = append(out, *d)
	}
	return out
}

func (s *FileStore) SaveBlockList(devices []BlockedDevice) error {
	list := make([]*BlockedDevice, 0, len(devices))
	for i := range devices {
		d := devices[i]
		list = append(list, &d)
	}
	if verrs := validateBlockList(list); len(verrs) > 0 {
		return errors.NewValidationError("invalid blocklist", verrs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.cfg.BlockList
	s.cfg.BlockList = list
	if err := s.persist(); err != nil {
		s.cfg.BlockList = prev
		return err
	}
	return nil
}

// ChannelsTable returns the table cached by the last hotspot start.
func (s *FileStore) ChannelsTable() ChannelsTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(ChannelsTable, len(s.channels))
	for band, channels := range s.channels {
		out[band] = append([]int(nil), channels...)
	}
	return out
}

func (s *FileStore) SaveChannelsTable(table ChannelsTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = table
}

func (s *FileStore) persist() error {
	if s.cfg.GetConfigPath() == "" {
		return nil
	}
	if err := s.cfg.WriteConfig(); err != nil {
		log.Errorf("Failed to write configuration to %s: %v", s.cfg.GetConfigPath(), err)
		return errors.NewConfigError("failed to save configuration", err)
	}
	log.Debugf("Configuration saved to %s", s.cfg.GetConfigPath())
	return nil
}
