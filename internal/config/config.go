package config

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
)

// Config holds all configurable FocusForge settings.
type Config struct {
	StudyMinutes int      `json:"study_minutes"`
	BreakMinutes int      `json:"break_minutes"`
	FocusMinutes int      `json:"focus_minutes"`
	Store        string   `json:"store"` // "json" | "sqlite"
	MaxLogFiles  int      `json:"max_log_files"`
	Quotes       []string `json:"quotes"` // replaces the built-in set when non-empty
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		StudyMinutes: 25,
		BreakMinutes: 5,
		FocusMinutes: 50,
		Store:        "json",
		MaxLogFiles:  20,
		Quotes:       []string{},
	}
}

// LoadGlobal reads ~/.config/focusforge/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "focusforge", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .focusforgeconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".focusforgeconfig", false)
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

// maxMinutes is the longest length whose seconds count still fits in an int.
const maxMinutes = math.MaxInt / 60

func validMinutes(n int) bool { return n > 0 && n <= maxMinutes }

// Merge combines global and project configs, with project taking precedence.
// Zero, negative and oversized minute values are treated as unset.
func Merge(global, project *Config) Config {
	result := Defaults()
	apply(&result, global)
	apply(&result, project)
	return result
}

func apply(dst *Config, src *Config) {
	if src == nil {
		return
	}
	if validMinutes(src.StudyMinutes) {
		dst.StudyMinutes = src.StudyMinutes
	}
	if validMinutes(src.BreakMinutes) {
		dst.BreakMinutes = src.BreakMinutes
	}
	if validMinutes(src.FocusMinutes) {
		dst.FocusMinutes = src.FocusMinutes
	}
	if src.Store != "" {
		dst.Store = src.Store
	}
	if src.MaxLogFiles > 0 {
		dst.MaxLogFiles = src.MaxLogFiles
	}
	if len(src.Quotes) > 0 {
		dst.Quotes = src.Quotes
	}
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
