package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigPathEnvOverride(t *testing.T) {
	original := os.Getenv("SIA_CONFIG")
	os.Setenv("SIA_CONFIG", "/custom/sia.yaml")
	t.Cleanup(func() {
		if original != "" {
			os.Setenv("SIA_CONFIG", original)
		} else {
			os.Unsetenv("SIA_CONFIG")
		}
	})

	// SIA_CONFIG wins even when the file does not exist.
	if got := DefaultConfigPath(); got != "/custom/sia.yaml" {
		t.Errorf("Expected /custom/sia.yaml, got %s", got)
	}
}

func TestDefaultConfigPathXDG(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sia"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	file := filepath.Join(dir, "sia", "config.yaml")
	if err := os.WriteFile(file, []byte("httpAddr: 127.0.0.1:7432\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	originalSia := os.Getenv("SIA_CONFIG")
	os.Unsetenv("SIA_CONFIG")
	os.Setenv("XDG_CONFIG_HOME", dir)
	t.Cleanup(func() {
		if originalXDG != "" {
			os.Setenv("XDG_CONFIG_HOME", originalXDG)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
		if originalSia != "" {
			os.Setenv("SIA_CONFIG", originalSia)
		}
	})

	if got := DefaultConfigPath(); got != file {
		t.Errorf("Expected %s, got %s", file, got)
	}
}

func TestDefaultConfigPathPrefersYAMLOverJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sia"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yamlFile := filepath.Join(dir, "sia", "config.yaml")
	jsonFile := filepath.Join(dir, "sia", "config.json")
	for _, f := range []string{yamlFile, jsonFile} {
		if err := os.WriteFile(f, []byte("{}"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	originalSia := os.Getenv("SIA_CONFIG")
	os.Unsetenv("SIA_CONFIG")
	os.Setenv("XDG_CONFIG_HOME", dir)
	t.Cleanup(func() {
		if originalXDG != "" {
			os.Setenv("XDG_CONFIG_HOME", originalXDG)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
		if originalSia != "" {
			os.Setenv("SIA_CONFIG", originalSia)
		}
	})

	if got := DefaultConfigPath(); got != yamlFile {
		t.Errorf("Expected %s, got %s", yamlFile, got)
	}
}

func TestIsFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{
			name:     "directory is not a file",
			path:     ".",
			expected: false,
		},
		{
			name:     "non-existent path",
			path:     "/non/existent/path/that/does/not/exist",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isFile(tt.path)
			if result != tt.expected {
				t.Errorf("isFile(%s) = %v, expected %v", tt.path, result, tt.expected)
			}
		})
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !isFile(file) {
		t.Errorf("isFile(%s) = false, expected true", file)
	}
}
