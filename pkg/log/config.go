package log

import (
	"fmt"
	"strings"
)

// Config declaratively describes a logger: a level name and an output format.
// It is the shape carried by server configuration and environment overrides.
type Config struct {
	// Level is the minimum level name: debug|info|warn|error|fatal.
	// Empty means info.
	Level string `json:"level" yaml:"level"`
	// Format selects the formatter: text|json. Empty means text.
	Format string `json:"format" yaml:"format"`
}

// ApplyConfig builds a console logger from a declarative Config.
func ApplyConfig(cfg *Config) (Logger, error) {
	level := InfoLevel
	if cfg != nil && cfg.Level != "" {
		parsed, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var formatter Formatter
	format := ""
	if cfg != nil {
		format = strings.ToLower(strings.TrimSpace(cfg.Format))
	}
	switch format {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format: %q", cfg.Format)
	}

	return NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(NewConsoleOutput()),
	), nil
}
