package source

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/chronologos/pxflood/internal/canvas"
	"github.com/chronologos/pxflood/internal/encoder"
	"github.com/chronologos/pxflood/internal/logging"
	"github.com/chronologos/pxflood/internal/media"
)

// Still draws one image. With a non-zero Interval the same frame is resent
// forever to reassert pixels other clients paint over.
type Still struct {
	Path     string
	OffsetX  int
	OffsetY  int
	Interval time.Duration

	log   *slog.Logger
	load  func(path string) (media.Frame, error)
	frame once
}

// NewStill returns a still-image source reading path.
func NewStill(path string, offsetX, offsetY int, interval time.Duration, log *slog.Logger) *Still {
	if log == nil {
		log = logging.Discard()
	}
	return &Still{
		Path:     path,
		OffsetX:  offsetX,
		OffsetY:  offsetY,
		Interval: interval,
		log:      log,
		load:     media.OpenImage,
	}
}

func (st *Still) Setup(s canvas.Session) error {
	img, err := st.load(st.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	place := canvas.Place(canvas.Dimensions{Width: img.Width, Height: img.Height}, st.OffsetX, st.OffsetY, s.Dimensions)
	c := encoder.New(s)
	c.Grow(img.Width * img.Height)
	for y := range img.Height {
		for x := range img.Width {
			ax, ay := place.Apply(x, y)
			c.Add(ax, ay, img.At(x, y))
		}
	}
	pixels := c.Len()

	frame, err := c.Finalize()
	if err != nil {
		return err
	}
	st.log.Info("image encoded",
		"path", st.Path, "size", fmt.Sprintf("%dx%d", img.Width, img.Height),
		"origin", fmt.Sprintf("%d,%d", place.X, place.Y), "pixels", pixels,
		"logical", frame.Logical, "wire", len(frame.Data), "ratio", frame.Ratio())
	st.frame = once{frame: frame, interval: st.Interval}
	return nil
}

func (st *Still) Next() (encoder.Frame, time.Duration, error) {
	return st.frame.next()
}
