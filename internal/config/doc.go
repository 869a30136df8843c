// Package config provides loading and environment overlay for Sia runtime
// configuration. It exposes a Default() baseline, file loading for JSON and
// YAML, and a SIA_* environment overlay applied on top.
//
// Example:
//
//	cfg := config.Default()
//	// Optionally load from file and overlay env vars
//	if path := config.DefaultConfigPath(); path != "" {
//	    cfg, _ = config.Load(path)
//	}
//	config.FromEnv(&cfg)
//	// Pass cfg into runtime.Options
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
package config
