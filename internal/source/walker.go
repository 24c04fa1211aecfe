package source

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/chronologos/pxflood/internal/canvas"
	"github.com/chronologos/pxflood/internal/encoder"
	"github.com/chronologos/pxflood/internal/protocol"
)

const (
	// WalkerSpeed is the distance covered per step, in cells.
	WalkerSpeed = 2.5
	// WalkerInterval paces the walker's steps.
	WalkerInterval = time.Millisecond
)

// Walker is a snake that wanders across the canvas in straight segments and
// bounces off the edges, changing color at every bounce. It never ends.
type Walker struct {
	rng     *rand.Rand
	session canvas.Session

	x, y      int
	direction float64 // radians
	color     protocol.Color
}

// NewWalker returns a walker starting at the origin. nil rng selects a
// randomly seeded generator.
func NewWalker(rng *rand.Rand) *Walker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Walker{rng: rng}
}

func (w *Walker) Setup(s canvas.Session) error {
	w.session = s
	w.x, w.y = 0, 0
	w.bounce()
	return nil
}

// displacement is the step vector truncated to whole cells.
func (w *Walker) displacement() (dx, dy int) {
	return int(math.Cos(w.direction) * WalkerSpeed), int(math.Sin(w.direction) * WalkerSpeed)
}

// bounce picks a new direction with a nonzero step and a new color.
func (w *Walker) bounce() {
	for {
		w.direction = w.rng.Float64() * 2 * math.Pi
		if dx, dy := w.displacement(); dx != 0 || dy != 0 {
			break
		}
	}
	w.color = protocol.RandomColor(w.rng)
}

// advance moves one step, clamping to the canvas and bouncing at the edges.
func (w *Walker) advance() {
	dx, dy := w.displacement()
	w.x += dx
	w.y += dy

	hit := false
	if w.x >= w.session.Width {
		w.x, hit = w.session.Width-1, true
	} else if w.x < 0 {
		w.x, hit = 0, true
	}
	if w.y >= w.session.Height {
		w.y, hit = w.session.Height-1, true
	} else if w.y < 0 {
		w.y, hit = 0, true
	}
	if hit {
		w.bounce()
	}
}

// Next paints the rectangle spanned by the previous and the new position,
// inclusive, in the color the segment was drawn with.
func (w *Walker) Next() (encoder.Frame, time.Duration, error) {
	px, py := w.x, w.y
	color := w.color
	w.advance()

	c := encoder.New(w.session)
	for x := min(px, w.x); x <= max(px, w.x); x++ {
		for y := min(py, w.y); y <= max(py, w.y); y++ {
			c.Add(x, y, color)
		}
	}
	frame, err := c.Finalize()
	if err != nil {
		return encoder.Frame{}, 0, err
	}
	return frame, WalkerInterval, nil
}

// Position returns the walker's current cell.
func (w *Walker) Position() (x, y int) {
	return w.x, w.y
}
