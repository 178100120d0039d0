// Package config loads the flat converter.config settings file
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultFileName is the settings file looked up next to the binary
const DefaultFileName = "converter.config"

// DefaultIntervalSemitones is the fallback spacing between open strings
const DefaultIntervalSemitones = 5

// Config is the flat settings record consumed read-only by the converter.
// Invalid or missing values are absorbed by defaulting, never surfaced as
// errors.
type Config struct {
	SavePath                 string   `json:"save_path"`
	DefaultTopStringMIDI     *float64 `json:"default_top_string_midi"`
	DefaultIntervalSemitones float64  `json:"default_interval_semitones"`
}

// Default returns the built-in configuration
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		SavePath:                 filepath.Join(home, "Documents"),
		DefaultTopStringMIDI:     nil,
		DefaultIntervalSemitones: DefaultIntervalSemitones,
	}
}

// Load reads a config file, falling back to defaults for anything missing
// or malformed. It never returns an error: a broken settings file behaves
// like no settings file.
func Load(path string) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(data, &parsed); err != nil {
		return cfg
	}

	if raw, ok := parsed["save_path"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			cfg.SavePath = strings.TrimSpace(s)
		}
	}
	if raw, ok := parsed["default_top_string_midi"]; ok {
		var f float64
		if json.Unmarshal(raw, &f) == nil {
			cfg.DefaultTopStringMIDI = &f
		}
	}
	if raw, ok := parsed["default_interval_semitones"]; ok {
		var f float64
		if json.Unmarshal(raw, &f) == nil {
			cfg.DefaultIntervalSemitones = f
		}
	}

	return cfg
}

// Interval returns the open-string interval in semitones, replacing
// non-positive configured values with the default.
func (c Config) Interval() int {
	interval := int(c.DefaultIntervalSemitones)
	if interval <= 0 {
		return DefaultIntervalSemitones
	}
	return interval
}

// TopStringMIDI returns the configured top-string pitch, or ok=false when
// unset or non-positive.
func (c Config) TopStringMIDI() (int, bool) {
	if c.DefaultTopStringMIDI == nil {
		return 0, false
	}
	top := int(*c.DefaultTopStringMIDI)
	if top <= 0 {
		return 0, false
	}
	return top, true
}

var tildePrefix = regexp.MustCompile(`^~\s*[\\/]`)

// ExpandPath resolves a configured save path: strips quotes, expands a
// leading ~ and normalizes Windows-style home prefixes.
func ExpandPath(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, `"'`)
	cleaned = tildePrefix.ReplaceAllString(cleaned, "~/")

	home, err := os.UserHomeDir()
	if err != nil {
		return cleaned
	}

	if cleaned == "~" {
		return home
	}
	if strings.HasPrefix(cleaned, "~/") {
		return filepath.Join(home, cleaned[2:])
	}
	return cleaned
}

// OutputDir resolves the directory MusicXML files are written to and
// creates it if needed.
func (c Config) OutputDir() (string, error) {
	dir := ExpandPath(c.SavePath)
	if dir == "" {
		dir = Default().SavePath
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
