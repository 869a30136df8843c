package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigPath returns the first conventional config file that exists
// on the host, or "" when none does so callers fall back to built-in
// defaults. SIA_CONFIG always wins when set, even if the file is missing,
// so a typo surfaces as a load error instead of being silently skipped.
func DefaultConfigPath() string {
	if v := os.Getenv("SIA_CONFIG"); v != "" {
		return v
	}

	var dirs []string

	// XDG (Linux) override
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "sia"))
	}

	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
		dirs = append(dirs, filepath.Join(homeDir, ".config", "sia"))
	}

	// Common Linux/Unix system dir
	dirs = append(dirs, "/etc/sia")

	for _, dir := range dirs {
		for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
			p := filepath.Join(dir, name)
			if isFile(p) {
				return p
			}
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
