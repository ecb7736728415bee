// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"breakeven/core/engine"
	"breakeven/core/types"
	"breakeven/internal/errors"
	"breakeven/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version" toml:"version"`

	// Analysis contains defaults applied to single-product analyses
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" toml:"analysis"`

	// Sensitivity contains default sweep parameters
	Sensitivity SensitivityConfig `json:"sensitivity" yaml:"sensitivity" toml:"sensitivity"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" yaml:"server" toml:"server"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output" toml:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging" toml:"logging"`
}

// AnalysisConfig contains analysis-related settings
type AnalysisConfig struct {
	// Currency labels monetary results
	Currency types.Currency `json:"currency" yaml:"currency" toml:"currency"`
}

// SensitivityConfig contains the default sweep range, in percent
type SensitivityConfig struct {
	Driver     string  `json:"driver" yaml:"driver" toml:"driver"`
	MinPercent float64 `json:"min_percent" yaml:"min_percent" toml:"min_percent"`
	MaxPercent float64 `json:"max_percent" yaml:"max_percent" toml:"max_percent"`
	Step       float64 `json:"step" yaml:"step" toml:"step"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" yaml:"addr" toml:"addr"`

	// MaxProducts caps the product list accepted by the multi-product endpoint
	MaxProducts int `json:"max_products" yaml:"max_products" toml:"max_products"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the CLI output format (json, table)
	Format string `json:"format" yaml:"format" toml:"format"`

	// Indent enables indented JSON output
	Indent bool `json:"indent" yaml:"indent" toml:"indent"`

	// NoColor disables ANSI colors in table output
	NoColor bool `json:"no_color" yaml:"no_color" toml:"no_color"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			Currency: types.CurrencyUSD,
		},
		Sensitivity: SensitivityConfig{
			Driver:     string(types.DriverFixedCosts),
			MinPercent: -30,
			MaxPercent: 30,
			Step:       10,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxProducts: 64,
		},
		Output: OutputConfig{
			Format: "json",
			Indent: true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. The format is chosen by extension:
// .yaml/.yml, .toml, anything else is JSON. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config file", err)
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".toml":
		err = toml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Config("failed to decode config file", err).WithContext("path", path)
	}

	return config, nil
}

// Engine converts the configured defaults into an engine configuration
func (c *Config) Engine() (engine.Config, error) {
	ec := engine.DefaultConfig()
	if c.Sensitivity.Driver != "" {
		ec.DefaultDriver = types.Driver(c.Sensitivity.Driver)
		if !ec.DefaultDriver.IsValid() {
			return ec, errors.Newf(errors.TypeConfig, "unknown sensitivity driver %q", c.Sensitivity.Driver)
		}
	}
	if c.Sensitivity.Step > 0 {
		ec.DefaultSweep = types.SweepRange{
			MinPercent: decimal.NewFromFloat(c.Sensitivity.MinPercent),
			MaxPercent: decimal.NewFromFloat(c.Sensitivity.MaxPercent),
			Step:       decimal.NewFromFloat(c.Sensitivity.Step),
		}
	}
	return ec, nil
}

// Save saves configuration to a file as JSON
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
