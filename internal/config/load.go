package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Load reads the JSON file at path over Default. An empty path returns the
// defaults; a named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err = Parse(content, cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays the JSON document in content onto base. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Parse(content []byte, base Config) (Config, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	cfg := base
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
