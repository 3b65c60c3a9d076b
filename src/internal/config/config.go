package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/utils"
)

func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		path, err := filepath.Abs(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		}
		configFile = path
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Errorf("Configuration file not found: %s", configFile)
		return nil, fmt.Errorf("configuration file not found: %s", configFile)
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	config, err := ParseConfig(content)
	if err != nil {
		return nil, err
	}
	config._absConfigFilePath = configFile
	config.General.StateDir = utils.GetAbsolutePath(config.General.StateDir, filepath.Dir(configFile))

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("State directory: %s", config.General.StateDir)

	return config, nil
}

// ParseConfig decodes TOML content and applies defaults.
func ParseConfig(content []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(content, &config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file")
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}
	config.ApplyDefaults()
	return &config, nil
}

func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

// WriteConfig atomically replaces the configuration file.
func (c *Config) WriteConfig() error {
	if c._absConfigFilePath == "" {
		return fmt.Errorf("configuration has no file path")
	}
	config, err := c.SerializeConfig()
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(c._absConfigFilePath, config.Bytes(), 0600)
}
