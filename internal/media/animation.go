package media

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
)

var ErrNoFrames = errors.New("animation has no frames")

// Animation yields the frames of a GIF strictly in file order. Frames are not
// composited: each carries only the rectangle it updates and its own origin.
type Animation struct {
	Width  int // logical screen size
	Height int

	frames []*image.Paletted
	next   int
}

// DecodeAnimation reads a GIF.
func DecodeAnimation(r io.Reader) (*Animation, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}
	a := &Animation{
		Width:  g.Config.Width,
		Height: g.Config.Height,
		frames: g.Image,
	}
	// Some encoders leave the logical screen unset.
	if a.Width == 0 || a.Height == 0 {
		for _, f := range g.Image {
			a.Width = max(a.Width, f.Bounds().Max.X)
			a.Height = max(a.Height, f.Bounds().Max.Y)
		}
	}
	return a, nil
}

// OpenAnimation decodes the GIF stored at path.
func OpenAnimation(path string) (*Animation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	a, err := DecodeAnimation(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return a, nil
}

// Len returns the number of frames.
func (a *Animation) Len() int {
	return len(a.frames)
}

// Next returns the next frame in file order. ok is false after the last frame.
func (a *Animation) Next() (f Frame, ok bool, err error) {
	if a.next >= len(a.frames) {
		return Frame{}, false, nil
	}
	f = toFrame(a.frames[a.next])
	a.next++
	return f, true, nil
}
