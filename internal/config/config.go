// Package config loads and stores tool settings from a JSON file.
//
// Values are read with gjson path lookups and written back with sjson,
// so unknown keys in the file survive a read-modify-write cycle.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Config holds the raw settings document.
type Config struct {
	path string
	data []byte
}

// Load reads the settings file at path. A missing file yields an empty
// configuration; all accessors fall back to their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{path: path, data: []byte("{}")}, nil
		}
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("config %s: invalid JSON", path)
	}
	return &Config{path: path, data: data}, nil
}

// String returns the string value at key, or def if unset.
func (c *Config) String(key, def string) string {
	v := gjson.GetBytes(c.data, key)
	if !v.Exists() {
		return def
	}
	return v.String()
}

// Bool returns the boolean value at key, or def if unset.
func (c *Config) Bool(key string, def bool) bool {
	v := gjson.GetBytes(c.data, key)
	if !v.Exists() {
		return def
	}
	return v.Bool()
}

// Set stores a value at key.
func (c *Config) Set(key string, value any) error {
	data, err := sjson.SetBytes(c.data, key, value)
	if err != nil {
		return fmt.Errorf("setting config key %s: %w", key, err)
	}
	c.data = data
	return nil
}

// Save writes the settings document back to its file, creating parent
// directories as needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("saving config %s: %w", c.path, err)
	}
	if err := os.WriteFile(c.path, c.data, 0o644); err != nil {
		return fmt.Errorf("saving config %s: %w", c.path, err)
	}
	return nil
}
