// Package config loads the purview.toml configuration used by the serve
// and demo commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	// ConfigFileName is the default configuration file name.
	ConfigFileName = "purview.toml"

	// DefaultHost is the default live server host.
	DefaultHost = "localhost"

	// DefaultPort is the default live server port.
	DefaultPort = 8377

	// DefaultSimInterval is the default demo traffic tick interval.
	DefaultSimInterval = 250 * time.Millisecond

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "purview"
)

// Config is the complete purview.toml configuration.
type Config struct {
	// Server configures the live WebSocket server.
	Server ServerConfig `toml:"server"`

	// Metrics configures Prometheus instrumentation of the hosted store.
	Metrics MetricsConfig `toml:"metrics"`

	// Sim configures the demo traffic simulator.
	Sim SimConfig `toml:"sim"`
}

// ServerConfig configures the live server's listen address.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MetricsConfig configures store instrumentation.
type MetricsConfig struct {
	// Enabled mounts /metrics and attaches the Prometheus hook.
	Enabled bool `toml:"enabled"`

	// Namespace overrides the metric namespace.
	Namespace string `toml:"namespace"`
}

// SimConfig configures the demo traffic simulator.
type SimConfig struct {
	// Interval between simulated traffic ticks, e.g. "250ms".
	Interval string `toml:"interval"`

	// Seed for the traffic generator. Zero seeds from the clock.
	Seed int64 `toml:"seed"`
}

// TickInterval parses the configured interval, falling back to the default
// when unset.
func (s SimConfig) TickInterval() (time.Duration, error) {
	if s.Interval == "" {
		return DefaultSimInterval, nil
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil {
		return 0, fmt.Errorf("parse sim interval: %w", err)
	}
	return d, nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
		},
	}
}

// Load reads the configuration at path. A missing file is not an error;
// it yields Default(). An empty path loads ConfigFileName from the working
// directory.
func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigFileName
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if d, err := c.Sim.TickInterval(); err != nil {
		return err
	} else if d <= 0 {
		return fmt.Errorf("sim interval %s must be positive", d)
	}
	return nil
}
