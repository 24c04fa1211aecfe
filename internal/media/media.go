// Package media decodes image files into raw RGBA pixel grids.
//
// Pixels are non-premultiplied 8-bit RGBA, row-major, four bytes per pixel,
// which is exactly what the pixel encoder wants to read.
package media

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/chronologos/pxflood/internal/protocol"
)

// Frame is one raster, positioned at (Left, Top) inside its animation's
// logical screen. Still images have a zero origin.
type Frame struct {
	Width  int
	Height int
	Left   int
	Top    int
	Pix    []byte
}

// At returns the color of content-local pixel (x, y).
func (f Frame) At(x, y int) protocol.Color {
	i := (y*f.Width + x) * 4
	return protocol.Color{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: f.Pix[i+3]}
}

// toFrame copies the visible part of img into a tightly packed NRGBA grid.
func toFrame(img image.Image) Frame {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return Frame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Left:   b.Min.X,
		Top:    b.Min.Y,
		Pix:    dst.Pix,
	}
}

// DecodeImage decodes a single raster image (PNG, JPEG, or the first GIF frame).
func DecodeImage(r io.Reader) (Frame, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Frame{}, err
	}
	f := toFrame(img)
	f.Left, f.Top = 0, 0
	return f, nil
}

// OpenImage decodes the image stored at path.
func OpenImage(path string) (Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return Frame{}, err
	}
	defer file.Close()

	f, err := DecodeImage(file)
	if err != nil {
		return Frame{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return f, nil
}
