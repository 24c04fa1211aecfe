package source

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/chronologos/pxflood/internal/canvas"
	"github.com/chronologos/pxflood/internal/encoder"
	"github.com/chronologos/pxflood/internal/logging"
	"github.com/chronologos/pxflood/internal/media"
	"github.com/chronologos/pxflood/internal/pipeline"
)

// DefaultFrameTime is the pacing interval between animation frames.
const DefaultFrameTime = 150 * time.Millisecond

// Animation plays a GIF in a loop forever.
//
// Every frame is decoded and encoded during Setup, so playback only writes
// prepared buffers.
type Animation struct {
	Path      string
	OffsetX   int
	OffsetY   int
	FrameTime time.Duration
	Workers   int // pipeline.DefaultWorkers if zero

	log    *slog.Logger
	open   func(path string) (*media.Animation, error)
	frames []encoder.Frame
	next   int
}

// NewAnimation returns an animation source reading path.
func NewAnimation(path string, offsetX, offsetY int, frameTime time.Duration, log *slog.Logger) *Animation {
	if frameTime <= 0 {
		frameTime = DefaultFrameTime
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Animation{
		Path:      path,
		OffsetX:   offsetX,
		OffsetY:   offsetY,
		FrameTime: frameTime,
		log:       log,
		open:      media.OpenAnimation,
	}
}

func (a *Animation) Setup(s canvas.Session) error {
	anim, err := a.open(a.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	// Frames are placed as a whole: the offset rule applies to the logical
	// screen, and each frame keeps its own origin inside it.
	place := canvas.Place(canvas.Dimensions{Width: anim.Width, Height: anim.Height}, a.OffsetX, a.OffsetY, s.Dimensions)
	a.log.Info("decoding animation",
		"path", a.Path, "frames", anim.Len(),
		"size", fmt.Sprintf("%dx%d", anim.Width, anim.Height),
		"origin", fmt.Sprintf("%d,%d", place.X, place.Y))

	start := time.Now()
	p := &pipeline.Pipeline{
		Workers: a.Workers,
		Encode:  func(f media.Frame) (encoder.Frame, error) { return encodeFrame(s, place, f) },
		Log:     a.log,
	}
	frames, stats, err := p.Run(anim)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(frames) == 0 {
		return fmt.Errorf("%w: %s: %w", ErrDecode, a.Path, media.ErrNoFrames)
	}

	a.log.Info("animation encoded",
		"frames", stats.Frames, "logical", stats.LogicalBytes, "wire", stats.WireBytes,
		"ratio", stats.Ratio(), "took", time.Since(start).Round(time.Millisecond))
	a.frames = frames
	a.next = 0
	return nil
}

// encodeFrame runs on a pipeline worker. It only touches its arguments.
func encodeFrame(s canvas.Session, place canvas.Placement, f media.Frame) (encoder.Frame, error) {
	c := encoder.New(s)
	c.Grow(f.Width * f.Height)
	for y := range f.Height {
		for x := range f.Width {
			ax, ay := place.Apply(f.Left+x, f.Top+y)
			c.Add(ax, ay, f.At(x, y))
		}
	}
	return c.Finalize()
}

// Next cycles through the frames forever.
func (a *Animation) Next() (encoder.Frame, time.Duration, error) {
	if len(a.frames) == 0 {
		return encoder.Frame{}, 0, ErrExhausted
	}
	f := a.frames[a.next]
	a.next = (a.next + 1) % len(a.frames)
	return f, a.FrameTime, nil
}
