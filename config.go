package qstore

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

/*
Config is shared by every component of a Space. Each field can be set from a
QSTORE_* environment variable through LoadConfig.
*/
type Config struct {
	Verbose bool   `env:"QSTORE_VERBOSE"`
	Format  string `env:"QSTORE_FORMAT"`
}

/*
NewConfig returns the defaults: quiet, with text output.

Returns:
  - *Config: A configuration with every field at its default
*/
func NewConfig() *Config {
	return &Config{
		Verbose: false,
		Format:  "text",
	}
}

/*
LoadConfig starts from the defaults and overlays any QSTORE_* environment
variables that are set.
*/
func LoadConfig() (*Config, error) {
	cfg := NewConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
