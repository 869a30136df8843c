package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	HTTPAddr string         `json:"httpAddr" yaml:"httpAddr"`
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Notifier NotifierConfig `json:"notifier" yaml:"notifier"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// RegistryConfig captures the coordination timing knobs. Durations are
// whole seconds to keep config files and env overrides trivial.
type RegistryConfig struct {
	DefaultTTLSeconds    int  `json:"defaultTtlSeconds" yaml:"defaultTtlSeconds"`
	SweepIntervalSeconds int  `json:"sweepIntervalSeconds" yaml:"sweepIntervalSeconds"`
	AgentTTLSeconds      int  `json:"agentTtlSeconds" yaml:"agentTtlSeconds"`
	EvictStaleAgents     bool `json:"evictStaleAgents" yaml:"evictStaleAgents"`
}

// DefaultTTL returns the claim lifetime as a duration.
func (c RegistryConfig) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLSeconds) * time.Second
}

// SweepInterval returns the expiry scan period as a duration.
func (c RegistryConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// AgentTTL returns the heartbeat horizon as a duration.
func (c RegistryConfig) AgentTTL() time.Duration {
	return time.Duration(c.AgentTTLSeconds) * time.Second
}

// NotifierConfig sizes the change event fan-out.
type NotifierConfig struct {
	Buffer int `json:"buffer" yaml:"buffer"`
}

// LogConfig selects the process log level and format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr: "127.0.0.1:7432",
		Registry: RegistryConfig{
			DefaultTTLSeconds:    300,
			SweepIntervalSeconds: 30,
			AgentTTLSeconds:      600,
			EvictStaleAgents:     true,
		},
		Notifier: NotifierConfig{Buffer: 256},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults. File values overlay the defaults, so partial
// configs are fine.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
