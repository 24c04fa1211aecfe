// Package canvas holds the state negotiated with a pixel server: the canvas
// dimensions and the protocol options chosen for the run.
//
// A Session is a plain value. Encoders, workers, and content sources each keep
// their own copy, so nothing here is ever shared or locked.
package canvas

import (
	"fmt"

	"github.com/chronologos/pxflood/internal/compress"
	"github.com/chronologos/pxflood/internal/protocol"
)

// Dimensions is the canvas size reported by the server.
type Dimensions struct {
	Width  int
	Height int
}

// Contains reports whether (x, y) lies inside [0,Width)×[0,Height).
func (d Dimensions) Contains(x, y int) bool {
	return x >= 0 && x < d.Width && y >= 0 && y < d.Height
}

// Area returns the number of cells on the canvas.
func (d Dimensions) Area() int {
	return d.Width * d.Height
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Options are the protocol choices made before connecting.
type Options struct {
	Encoding    protocol.Encoding
	Compression compress.Kind // compress.None disables compression
}

// Session is the immutable result of a successful handshake.
type Session struct {
	Dimensions
	Options
}
