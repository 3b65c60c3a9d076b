package commands

import (
	"fmt"

	"github.com/maksimkurb/keen-softap/src/internal/api"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/domain"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool
	Version    api.VersionInfo

	// Helper binaries; empty values fall back to the names looked up in PATH.
	HostapdBinary string
	DnsmasqBinary string
	IwBinary      string
}

// appConfig returns the dependency configuration for cfg.
func (c *AppContext) appConfig(cfg *config.Config) domain.AppConfig {
	return domain.AppConfig{
		Config:        cfg,
		HostapdBinary: c.HostapdBinary,
		DnsmasqBinary: c.DnsmasqBinary,
		IwBinary:      c.IwBinary,
		DisableNAT:    !cfg.General.EnableNAT,
	}
}

// loadConfigOrFail loads configuration without validating it.
func loadConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}
	return cfg, nil
}

// loadAndValidateConfigOrFail loads configuration from file and validates it.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := loadConfigOrFail(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}
