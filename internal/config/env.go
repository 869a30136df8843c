package config

import (
	"os"
	"strconv"
)

// FromEnv overlays SIA_* environment variables onto cfg. Unparseable values
// are ignored rather than failing startup.
func FromEnv(cfg *Config) {
	if v := os.Getenv("SIA_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SIA_DEFAULT_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Registry.DefaultTTLSeconds = n
		}
	}
	if v := os.Getenv("SIA_SWEEP_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Registry.SweepIntervalSeconds = n
		}
	}
	if v := os.Getenv("SIA_AGENT_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Registry.AgentTTLSeconds = n
		}
	}
	if v := os.Getenv("SIA_EVICT_STALE_AGENTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Registry.EvictStaleAgents = b
		}
	}
	if v := os.Getenv("SIA_NOTIFIER_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Notifier.Buffer = n
		}
	}
	if v := os.Getenv("SIA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SIA_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
