package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chronologos/pxflood/internal/compress"
	"github.com/chronologos/pxflood/internal/protocol"
	"github.com/chronologos/pxflood/internal/transport"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	require.Equal(t, "127.0.0.1", cfg.Remote)
	require.Equal(t, Duration(5*time.Second), cfg.HandshakeTimeout)

	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, protocol.EncodingText, opts.Encoding)
	require.Equal(t, compress.None, opts.Compression)

	mode, err := cfg.DialMode()
	require.NoError(t, err)
	require.Equal(t, transport.DialTCP, mode)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pxflood.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"remote": "canvas.example:1234",
		"transport": "quic",
		"binary": true,
		"compression": "zstd",
		"handshake_timeout": "750ms"
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	require.Equal(t, "canvas.example:1234", cfg.Remote)
	require.Equal(t, Duration(750*time.Millisecond), cfg.HandshakeTimeout)
	require.Equal(t, "info", cfg.LogLevel, "unset keys keep their defaults")

	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, protocol.EncodingBinary, opts.Encoding)
	require.Equal(t, compress.Zstd, opts.Compression)

	mode, err := cfg.DialMode()
	require.NoError(t, err)
	require.Equal(t, transport.DialQUIC, mode)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	for name, body := range map[string]string{
		"unknown key":  `{"remtoe": "x"}`,
		"bad duration": `{"handshake_timeout": "soon"}`,
		"numeric dur":  `{"handshake_timeout": 5}`,
		"not json":     `remote = "x"`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty remote", func(c *Config) { c.Remote = "  " }},
		{"bad transport", func(c *Config) { c.Transport = "udp" }},
		{"bad compression", func(c *Config) { c.Compression = "gzip" }},
		{"negative timeout", func(c *Config) { c.HandshakeTimeout = -1 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.Error(t, Validate(cfg))
		})
	}
}

func TestDurationJSON(t *testing.T) {
	b, err := Duration(1500 * time.Millisecond).MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"1.5s"`, string(b))
}

func TestZeroHandshakeTimeoutIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"handshake_timeout": "0s"}`), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	require.Zero(t, cfg.HandshakeTimeout, "zero is kept, not replaced by the default")
}
