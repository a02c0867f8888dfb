// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"firestige.xyz/ninox/internal/core"
	"firestige.xyz/ninox/internal/log"
)

// Config is the top-level static configuration.
// Maps to the root of the YAML config file.
type Config struct {
	Log       log.Config      `mapstructure:"log"`
	Inspector InspectorConfig `mapstructure:"inspector"`
}

// InspectorConfig contains SNMP inspector settings.
type InspectorConfig struct {
	// Ports the probe treats as SNMP without payload inspection.
	// Defaults to 161 (agent) and 162 (trap receiver).
	Ports []uint16 `mapstructure:"ports"`

	// MaxProbeDepth is the number of payload bytes the detection phase may
	// inspect before giving up on this protocol.
	MaxProbeDepth int `mapstructure:"max_probe_depth"`

	// SessionTTL bounds how long an idle flow keeps its session state.
	// UDP flows have no teardown signal, so idle sessions are evicted.
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Load reads the config file at path and applies defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; a decode failure here is a programming error.
		panic(err)
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("inspector.ports", []uint16{161, 162})
	v.SetDefault("inspector.max_probe_depth", 16)
	v.SetDefault("inspector.session_ttl", "5m")
}

// Validate checks semantic constraints viper cannot express.
func (c *Config) Validate() error {
	if len(c.Inspector.Ports) == 0 {
		return fmt.Errorf("%w: inspector.ports must not be empty", core.ErrConfigInvalid)
	}
	if c.Inspector.MaxProbeDepth <= 0 {
		return fmt.Errorf("%w: inspector.max_probe_depth must be positive", core.ErrConfigInvalid)
	}
	if c.Inspector.SessionTTL <= 0 {
		return fmt.Errorf("%w: inspector.session_ttl must be positive", core.ErrConfigInvalid)
	}
	return nil
}
