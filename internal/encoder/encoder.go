// Package encoder turns one frame's worth of logical pixels into wire bytes.
//
// Encoding is batch, not incremental: pixels are sorted by color before
// serialization so identical colors sit next to each other, which is what the
// compressor feeds on. Servers must not depend on raster order.
package encoder

import (
	"fmt"
	"slices"

	"github.com/chronologos/pxflood/internal/canvas"
	"github.com/chronologos/pxflood/internal/compress"
	"github.com/chronologos/pxflood/internal/protocol"
)

// Frame is one finalized batch of pixel commands.
type Frame struct {
	Data    []byte
	Logical int // serialized length before compression
}

// Ratio returns logical bytes per wire byte. Uncompressed frames report 1.
func (f Frame) Ratio() float64 {
	if len(f.Data) == 0 {
		return 1
	}
	return float64(f.Logical) / float64(len(f.Data))
}

// Collector accumulates the pixels of one frame. It is not safe for
// concurrent use; each frame gets its own Collector.
type Collector struct {
	session canvas.Session
	pixels  []protocol.Pixel
}

// New returns an empty collector for the given session.
func New(s canvas.Session) *Collector {
	return &Collector{session: s}
}

// Grow preallocates room for n more pixels.
func (c *Collector) Grow(n int) {
	c.pixels = slices.Grow(c.pixels, n)
}

// Add records a pixel. Transparent pixels and pixels outside the canvas are
// dropped silently; partial coverage of a shared canvas is expected.
func (c *Collector) Add(x, y int, col protocol.Color) {
	if col.Transparent() || !c.session.Contains(x, y) {
		return
	}
	c.pixels = append(c.pixels, protocol.Pixel{X: uint16(x), Y: uint16(y), Color: col})
}

// Len returns the number of pixels kept so far.
func (c *Collector) Len() int {
	return len(c.pixels)
}

// Finalize sorts, serializes, and optionally compresses the collected pixels.
// The sort is stable: pixels of one color keep their insertion order.
func (c *Collector) Finalize() (Frame, error) {
	slices.SortStableFunc(c.pixels, func(a, b protocol.Pixel) int {
		return a.Color.Compare(b.Color)
	})

	var data []byte
	switch c.session.Encoding {
	case protocol.EncodingBinary:
		data = make([]byte, 0, len(c.pixels)*protocol.BinaryRecordSize)
		for _, p := range c.pixels {
			data = protocol.AppendBinary(data, p)
		}
	default:
		data = make([]byte, 0, len(c.pixels)*protocol.MaxTextRecordSize)
		for _, p := range c.pixels {
			data = protocol.AppendText(data, p)
		}
	}

	frame := Frame{Data: data, Logical: len(data)}
	if !c.session.Compression.Enabled() {
		return frame, nil
	}

	codec, err := compress.For(c.session.Compression)
	if err != nil {
		return Frame{}, err
	}
	out, err := codec.Compress(data)
	if err != nil {
		return Frame{}, fmt.Errorf("compress frame: %w", err)
	}
	frame.Data = out
	return frame, nil
}
