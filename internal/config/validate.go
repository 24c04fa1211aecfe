package config

import (
	"fmt"
	"strings"

	"github.com/chronologos/pxflood/internal/canvas"
	"github.com/chronologos/pxflood/internal/compress"
	"github.com/chronologos/pxflood/internal/logging"
	"github.com/chronologos/pxflood/internal/protocol"
	"github.com/chronologos/pxflood/internal/transport"
)

// Validate enforces config invariants.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Remote) == "" {
		return fmt.Errorf("remote must not be empty")
	}
	if _, err := transport.ParseDialMode(cfg.Transport); err != nil {
		return err
	}
	if _, err := compress.ParseKind(cfg.Compression); err != nil {
		return err
	}
	if cfg.HandshakeTimeout < 0 {
		return fmt.Errorf("handshake_timeout must be >= 0")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	switch logging.Format(strings.ToLower(cfg.LogFormat)) {
	case "", logging.FormatAuto, logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("log_format must be one of: auto, text, json")
	}
	return nil
}

// Options returns the protocol options the handshake should request.
func (c Config) Options() (canvas.Options, error) {
	kind, err := compress.ParseKind(c.Compression)
	if err != nil {
		return canvas.Options{}, err
	}
	enc := protocol.EncodingText
	if c.Binary {
		enc = protocol.EncodingBinary
	}
	return canvas.Options{Encoding: enc, Compression: kind}, nil
}

// DialMode returns the transport to dial with.
func (c Config) DialMode() (transport.DialMode, error) {
	return transport.ParseDialMode(c.Transport)
}
