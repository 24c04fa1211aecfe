// Package pipeline encodes animation frames concurrently while keeping them in
// decode order.
//
// Frames are decoded strictly sequentially (GIF frames depend on their
// predecessors), then each one is handed to an independent encode job. At most
// Workers jobs are in flight; when the limit is reached, dispatch blocks on the
// completion channel until one finishes. Completions carry their original index
// and land in a slice addressed by it, so playback order never depends on which
// job happens to finish first.
package pipeline

import (
	"log/slog"

	"github.com/chronologos/pxflood/internal/encoder"
	"github.com/chronologos/pxflood/internal/logging"
	"github.com/chronologos/pxflood/internal/media"
)

// DefaultWorkers bounds the number of in-flight encode jobs.
const DefaultWorkers = 16

// Decoder yields frames in playback order. ok is false once it is exhausted.
type Decoder interface {
	Next() (f media.Frame, ok bool, err error)
}

// EncodeFunc turns one decoded frame into wire bytes. It must be safe to call
// from multiple goroutines and must only touch its own inputs.
type EncodeFunc func(media.Frame) (encoder.Frame, error)

// Stats summarizes one pipeline run.
type Stats struct {
	Frames       int
	LogicalBytes int64
	WireBytes    int64
}

// Ratio returns total logical bytes per wire byte.
func (s Stats) Ratio() float64 {
	if s.WireBytes == 0 {
		return 1
	}
	return float64(s.LogicalBytes) / float64(s.WireBytes)
}

// Pipeline runs encode jobs with bounded concurrency.
type Pipeline struct {
	Workers int // DefaultWorkers if zero
	Encode  EncodeFunc
	Log     *slog.Logger // optional
}

type result struct {
	index int
	frame encoder.Frame
	err   error
}

// Run decodes every frame from dec, encodes them concurrently, and returns the
// encoded frames indexed by decode order. The first decode or encode error is
// returned after all in-flight jobs have drained.
func (p *Pipeline) Run(dec Decoder) ([]encoder.Frame, Stats, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	log := p.Log
	if log == nil {
		log = logging.Discard()
	}

	var (
		frames   []encoder.Frame
		stats    Stats
		firstErr error
		inFlight int
	)
	done := make(chan result, workers)

	collect := func() {
		r := <-done
		inFlight--
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			return
		}
		frames[r.index] = r.frame
		stats.LogicalBytes += int64(r.frame.Logical)
		stats.WireBytes += int64(len(r.frame.Data))
		log.Debug("frame encoded",
			"index", r.index, "logical", r.frame.Logical, "wire", len(r.frame.Data))
	}

	for index := 0; firstErr == nil; index++ {
		f, ok, err := dec.Next()
		if err != nil {
			firstErr = err
			break
		}
		if !ok {
			break
		}

		if inFlight == workers {
			collect()
			if firstErr != nil {
				break
			}
		}

		frames = append(frames, encoder.Frame{})
		inFlight++
		go func() {
			out, err := p.Encode(f)
			done <- result{index: index, frame: out, err: err}
		}()
	}

	for inFlight > 0 {
		collect()
	}
	if firstErr != nil {
		return nil, Stats{}, firstErr
	}

	stats.Frames = len(frames)
	return frames, stats, nil
}
