package source

import (
	"math/rand/v2"
	"time"

	"github.com/chronologos/pxflood/internal/canvas"
	"github.com/chronologos/pxflood/internal/encoder"
	"github.com/chronologos/pxflood/internal/protocol"
)

// Fill paints the whole canvas one color, once.
//
// In noisy mode the canvas is enumerated in random order. The encoder's color
// sort is stable, so for a single-color fill the shuffled order reaches the
// wire and other clients see noise instead of a sweep.
type Fill struct {
	Color protocol.Color
	Noisy bool

	rng   *rand.Rand
	frame once
}

// NewFill returns a fill source. rng is used only in noisy mode; nil selects a
// randomly seeded generator.
func NewFill(color protocol.Color, noisy bool, rng *rand.Rand) *Fill {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Fill{Color: color, Noisy: noisy, rng: rng}
}

func (f *Fill) Setup(s canvas.Session) error {
	coords := make([][2]int, 0, s.Area())
	for x := range s.Width {
		for y := range s.Height {
			coords = append(coords, [2]int{x, y})
		}
	}
	if f.Noisy {
		f.rng.Shuffle(len(coords), func(i, j int) {
			coords[i], coords[j] = coords[j], coords[i]
		})
	}

	c := encoder.New(s)
	c.Grow(len(coords))
	for _, xy := range coords {
		c.Add(xy[0], xy[1], f.Color)
	}
	frame, err := c.Finalize()
	if err != nil {
		return err
	}
	f.frame = once{frame: frame}
	return nil
}

func (f *Fill) Next() (encoder.Frame, time.Duration, error) {
	return f.frame.next()
}
