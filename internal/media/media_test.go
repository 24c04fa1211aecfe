package media

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chronologos/pxflood/internal/protocol"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})
	img.SetNRGBA(2, 1, color.NRGBA{B: 0xFF, A: 0x80})

	f, err := DecodeImage(bytes.NewReader(encodePNG(t, img)))
	require.NoError(t, err)
	require.Equal(t, 3, f.Width)
	require.Equal(t, 2, f.Height)
	require.Len(t, f.Pix, 3*2*4)
	require.Equal(t, protocol.Color{R: 0xFF, A: 0xFF}, f.At(0, 0))
	require.Equal(t, protocol.Color{B: 0xFF, A: 0x80}, f.At(2, 1), "alpha must not be premultiplied")
	require.True(t, f.At(1, 0).Transparent())
}

func TestDecodeImageGarbage(t *testing.T) {
	_, err := DecodeImage(bytes.NewReader([]byte("not an image")))
	require.Error(t, err)
}

func TestOpenImageMissing(t *testing.T) {
	_, err := OpenImage(filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func testGIF(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{color.Transparent, color.RGBA{R: 0xFF, A: 0xFF}, color.RGBA{G: 0xFF, A: 0xFF}}

	full := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	for i := range full.Pix {
		full.Pix[i] = 1
	}
	patch := image.NewPaletted(image.Rect(1, 2, 3, 3), pal)
	for i := range patch.Pix {
		patch.Pix[i] = 2
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, &gif.GIF{
		Image:  []*image.Paletted{full, patch},
		Delay:  []int{10, 10},
		Config: image.Config{ColorModel: pal, Width: 4, Height: 4},
	}))
	return buf.Bytes()
}

func TestDecodeAnimation(t *testing.T) {
	a, err := DecodeAnimation(bytes.NewReader(testGIF(t)))
	require.NoError(t, err)
	require.Equal(t, 4, a.Width)
	require.Equal(t, 4, a.Height)
	require.Equal(t, 2, a.Len())

	first, ok, err := a.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4, first.Width)
	require.Equal(t, 4, first.Height)
	require.Zero(t, first.Left)
	require.Zero(t, first.Top)
	require.Equal(t, protocol.RGB(0xFF, 0, 0), first.At(3, 3))

	second, ok, err := a.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, second.Width)
	require.Equal(t, 1, second.Height)
	require.Equal(t, 1, second.Left)
	require.Equal(t, 2, second.Top)
	require.Equal(t, protocol.RGB(0, 0xFF, 0), second.At(1, 0))

	_, ok, err = a.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenAnimation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")
	require.NoError(t, os.WriteFile(path, testGIF(t), 0o600))

	a, err := OpenAnimation(path)
	require.NoError(t, err)
	require.Equal(t, 2, a.Len())

	_, err = OpenAnimation(filepath.Join(t.TempDir(), "nope.gif"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
