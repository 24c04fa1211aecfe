// Package source produces the frames a client streams to the canvas.
//
// A Source is set up once with the negotiated session and then asked for
// frames until it returns a zero interval (last frame) or ErrExhausted. All
// encoding happens before a frame is handed out; Next only returns bytes.
package source

import (
	"errors"
	"time"

	"github.com/chronologos/pxflood/internal/canvas"
	"github.com/chronologos/pxflood/internal/encoder"
)

var (
	// ErrExhausted reports that a source has nothing further to send. The run
	// loop treats it as a normal end of stream.
	ErrExhausted = errors.New("content source exhausted")

	// ErrDecode wraps failures to load the content a source draws.
	ErrDecode = errors.New("decode content")
)

// Source is a producer of encoded frames.
type Source interface {
	// Setup prepares the source for the given session. The session is copied.
	Setup(s canvas.Session) error
	// Next returns the next frame and how long the caller should pace before
	// asking again. A zero interval marks the final frame.
	Next() (encoder.Frame, time.Duration, error)
}

// once hands out a single frame, then optionally repeats it at interval.
type once struct {
	frame    encoder.Frame
	interval time.Duration
	sent     bool
}

func (o *once) next() (encoder.Frame, time.Duration, error) {
	if o.interval > 0 {
		return o.frame, o.interval, nil
	}
	if o.sent {
		return encoder.Frame{}, 0, ErrExhausted
	}
	o.sent = true
	return o.frame, 0, nil
}
