package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable dendro settings. The idle threshold is
// host policy: the tracker polls wall-clock time against it and drives
// the engine's idle transitions itself.
type Config struct {
	IdleThresholdSec int      `json:"idle_threshold_sec"`
	IgnorePatterns   []string `json:"ignore_patterns"`
	DefaultFormat    string   `json:"default_format"` // "markdown" | "json"
	OutputDir        string   `json:"output_dir"`
	HeatmapWeeks     int      `json:"heatmap_weeks"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		IdleThresholdSec: 300,
		IgnorePatterns:   []string{},
		DefaultFormat:    "markdown",
		OutputDir:        ".",
		HeatmapWeeks:     12,
	}
}

// LoadGlobal reads ~/.config/dendro/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "dendro", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .dendroconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".dendroconfig", false)
}

// GlobalPath returns the global config file path.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dendro", "config.json"), nil
}

// Save writes cfg to the global config file, creating the directory if
// needed.
func Save(cfg Config) error {
	path, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Exists reports whether the global config file is present.
func Exists() bool {
	path, err := GlobalPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking
// precedence. Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, layer := range []*Config{global, project} {
		if layer == nil {
			continue
		}
		if layer.IdleThresholdSec > 0 {
			result.IdleThresholdSec = layer.IdleThresholdSec
		}
		if len(layer.IgnorePatterns) > 0 {
			result.IgnorePatterns = layer.IgnorePatterns
		}
		if layer.DefaultFormat != "" {
			result.DefaultFormat = layer.DefaultFormat
		}
		if layer.OutputDir != "" {
			result.OutputDir = layer.OutputDir
		}
		if layer.HeatmapWeeks > 0 {
			result.HeatmapWeeks = layer.HeatmapWeeks
		}
	}
	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
