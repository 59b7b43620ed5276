package launcher

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LaunchConfig represents the user-tunable launch settings stored in
// launcher.toml at the project root. A missing file means defaults.
type LaunchConfig struct {
	PortRange struct {
		Start int `toml:"start" json:"start"`
		End   int `toml:"end" json:"end"`
	} `toml:"port_range" json:"port_range"       comment:"Port range scanned for a free application port"`
	OpenBrowser bool     `toml:"open_browser" json:"open_browser"   comment:"Open the app in the default browser once it answers"`
	EntryArgs   []string `toml:"entry_args,omitempty" json:"entry_args,omitempty" comment:"Extra arguments appended after the entry script"`
	Sidecar     struct {
		Enabled bool   `toml:"enabled" json:"enabled"`
		Host    string `toml:"host" json:"host"`
	} `toml:"sidecar" json:"sidecar"             comment:"Bundled model service settings"`
}

// DefaultConfig returns the settings a fresh package launches with.
func DefaultConfig() LaunchConfig {
	var cfg LaunchConfig
	cfg.PortRange.Start = 5001
	cfg.PortRange.End = 5100
	cfg.OpenBrowser = true
	cfg.Sidecar.Enabled = true
	cfg.Sidecar.Host = "http://localhost:11434"
	return cfg
}

// ReadConfig loads the launch configuration from path. A missing file is
// not an error; defaults are returned.
func ReadConfig(path string) (LaunchConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read launch configuration: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse launch configuration: %w", err)
	}

	if cfg.PortRange.Start <= 0 || cfg.PortRange.End < cfg.PortRange.Start {
		return DefaultConfig(), fmt.Errorf("invalid port range %d-%d", cfg.PortRange.Start, cfg.PortRange.End)
	}

	return cfg, nil
}

// WriteConfig writes the launch configuration to its configuration file.
func (c LaunchConfig) WriteConfig(path string) error {
	data, _ := toml.Marshal(c)
	return os.WriteFile(path, data, 0644)
}
