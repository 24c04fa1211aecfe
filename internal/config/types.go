// Package config resolves, validates, and defaults pxflood configuration.
//
// Values come from Default, then an optional JSON file (Load), then command
// line flags. Validate runs once all three have been applied.
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config is the fully materialized runtime configuration.
type Config struct {
	Remote           string   `json:"remote"`
	Transport        string   `json:"transport"` // tcp or quic
	Binary           bool     `json:"binary"`
	Compression      string   `json:"compression"` // "" or zstd
	HandshakeTimeout Duration `json:"handshake_timeout"` // 0 disables the read deadline
	LogLevel         string   `json:"log_level"`
	LogFormat        string   `json:"log_format"`
	MetricsAddr      string   `json:"metrics_addr"` // empty disables /metrics
	Profile          bool     `json:"profile"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Remote:           "127.0.0.1",
		Transport:        "tcp",
		HandshakeTimeout: Duration(5 * time.Second),
		LogLevel:         "info",
		LogFormat:        "auto",
	}
}

// Duration is a time.Duration written as a Go duration string ("5s") in JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
