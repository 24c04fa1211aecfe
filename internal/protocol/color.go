package protocol

import (
	"cmp"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
)

// Color is an RGBA color. Alpha 0 marks a transparent pixel that is never sent.
//
// Colors given without alpha are normalized to A=0xFF when parsed, which is the
// value both wire forms use for "no alpha".
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xFF}
}

// Transparent reports whether pixels of this color are dropped.
func (c Color) Transparent() bool {
	return c.A == 0
}

// key packs the color into r,g,b,a tuple order.
func (c Color) key() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Compare orders colors as (r, g, b, a) tuples.
func (c Color) Compare(o Color) int {
	return cmp.Compare(c.key(), o.key())
}

// String returns the uppercase RRGGBBAA form used on the wire.
func (c Color) String() string {
	return string(appendHex(nil, c))
}

// RandomColor returns an opaque color drawn from r.
func RandomColor(r *rand.Rand) Color {
	v := r.Uint32()
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

// ParseColor accepts RRGGBB, RRGGBBAA, or "r" for a random opaque color.
func ParseColor(s string) (Color, error) {
	if s == "r" {
		v := rand.Uint32()
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("color %q: must be 6 or 8 hex digits", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	c := RGB(b[0], b[1], b[2])
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

const upperHex = "0123456789ABCDEF"

func appendHex(dst []byte, c Color) []byte {
	for _, v := range [4]uint8{c.R, c.G, c.B, c.A} {
		dst = append(dst, upperHex[v>>4], upperHex[v&0x0F])
	}
	return dst
}
