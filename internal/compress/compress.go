// Package compress provides the named whole-buffer codecs a pixel server can
// negotiate with COMPRESS. The handshake token does not carry the codec name,
// so both sides must agree on the kind out of band.
package compress

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names a compression codec. The zero value disables compression.
type Kind string

const (
	None Kind = ""
	Zstd Kind = "zstd"
)

var ErrUnknownKind = errors.New("unknown compression kind")

// Enabled reports whether k names a codec.
func (k Kind) Enabled() bool {
	return k != None
}

func (k Kind) String() string {
	if k == None {
		return "none"
	}
	return string(k)
}

// ParseKind accepts a codec name case-insensitively. "" and "none" disable
// compression.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "zstd":
		return Zstd, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Codec compresses and decompresses whole buffers. Implementations are safe
// for concurrent use.
type Codec interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

// For returns the codec registered for k.
func For(k Kind) (Codec, error) {
	switch k {
	case Zstd:
		return zstdCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
}
