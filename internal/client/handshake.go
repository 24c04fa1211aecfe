package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chronologos/pxflood/internal/canvas"
	"github.com/chronologos/pxflood/internal/protocol"
)

// ErrHandshakeIO wraps read/write failures during negotiation.
var ErrHandshakeIO = errors.New("handshake I/O")

// readDeadliner is satisfied by net.Conn and transport.Conn.
type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// Handshake asks the server for the canvas size and, if opts requests it,
// negotiates compression. The returned session is never mutated afterwards.
//
// When conn supports read deadlines and timeout > 0, each handshake read is
// bounded by timeout. The deadline is cleared before returning.
func Handshake(conn io.ReadWriter, opts canvas.Options, timeout time.Duration) (canvas.Session, error) {
	if d, ok := conn.(readDeadliner); ok && timeout > 0 {
		if err := d.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return canvas.Session{}, fmt.Errorf("%w: set deadline: %w", ErrHandshakeIO, err)
		}
		defer d.SetReadDeadline(time.Time{})
	}

	dims, err := requestSize(conn)
	if err != nil {
		return canvas.Session{}, err
	}
	if opts.Compression.Enabled() {
		if err := requestCompression(conn); err != nil {
			return canvas.Session{}, err
		}
	}
	return canvas.Session{Dimensions: dims, Options: opts}, nil
}

func requestSize(conn io.ReadWriter) (canvas.Dimensions, error) {
	if err := writeFull(conn, protocol.SizeRequest); err != nil {
		return canvas.Dimensions{}, fmt.Errorf("%w: send SIZE: %w", ErrHandshakeIO, err)
	}

	buf := make([]byte, protocol.MaxSizeResponse)
	n, err := conn.Read(buf)
	if n == 0 && err == nil {
		err = io.ErrNoProgress
	}
	if n == 0 {
		return canvas.Dimensions{}, fmt.Errorf("%w: read SIZE: %w", ErrHandshakeIO, err)
	}

	w, h, err := protocol.ParseSizeResponse(buf[:n])
	if err != nil {
		return canvas.Dimensions{}, err
	}
	// Width 65536 is still addressable: the largest coordinate is 65535.
	if w == 0 || h == 0 || w > protocol.MaxCoord+1 || h > protocol.MaxCoord+1 {
		return canvas.Dimensions{}, fmt.Errorf("%w: unusable canvas %dx%d", protocol.ErrMalformedSize, w, h)
	}
	return canvas.Dimensions{Width: int(w), Height: int(h)}, nil
}

func requestCompression(conn io.ReadWriter) error {
	if err := writeFull(conn, protocol.CompressRequest); err != nil {
		return fmt.Errorf("%w: send COMPRESS: %w", ErrHandshakeIO, err)
	}
	ack := make([]byte, protocol.CompressAckSize)
	want := []byte(protocol.CmdCompress)
	n := 0
	for n < len(want) {
		m, err := conn.Read(ack[n:])
		n += m
		// Stop as soon as the reply can no longer be an acknowledgement.
		if k := min(n, len(want)); !bytes.Equal(ack[:k], want[:k]) {
			return protocol.CheckCompressAck(ack[:n])
		}
		if err != nil {
			return fmt.Errorf("%w: read COMPRESS ack: %w", ErrHandshakeIO, err)
		}
		if m == 0 {
			return fmt.Errorf("%w: read COMPRESS ack: %w", ErrHandshakeIO, io.ErrNoProgress)
		}
	}
	return protocol.CheckCompressAck(ack[:n])
}
