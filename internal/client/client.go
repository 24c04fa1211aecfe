package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chronologos/pxflood/internal/canvas"
	"github.com/chronologos/pxflood/internal/logging"
	"github.com/chronologos/pxflood/internal/source"
)

// ErrSourceSetup wraps whatever the content source's Setup returned.
var ErrSourceSetup = errors.New("content source setup")

// Config holds client configuration.
type Config struct {
	Options          canvas.Options
	HandshakeTimeout time.Duration // zero leaves handshake reads unbounded
	Profile          bool // print a run summary to stderr and write JSON to the temp dir
}

// Recorder observes the run loop. The metrics package implements it.
type Recorder interface {
	FrameSent(wireBytes, logicalBytes int, write time.Duration)
	Paced(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) FrameSent(int, int, time.Duration) {}
func (nopRecorder) Paced(time.Duration)               {}

// Client negotiates a session with a pixel server and streams the frames a
// content source produces. The connection belongs to the run loop alone.
type Client struct {
	cfg     Config
	log     *slog.Logger
	conn    io.ReadWriter
	src     source.Source
	rec     Recorder
	session canvas.Session

	stderr     io.Writer // for --profile output (os.Stderr or test buffer)
	profileDir string
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

// New creates a client that will stream src over conn. A nil rec disables
// metrics; a nil log discards.
func New(cfg Config, conn io.ReadWriter, src source.Source, rec Recorder, log *slog.Logger) *Client {
	if rec == nil {
		rec = nopRecorder{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		cfg:        cfg,
		log:        log.With("component", "client"),
		conn:       conn,
		src:        src,
		rec:        rec,
		stderr:     os.Stderr,
		profileDir: os.TempDir(),
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

// Session returns the negotiated session. It is the zero value before Run
// completes the handshake.
func (c *Client) Session() canvas.Session {
	return c.session
}

// Run performs the handshake, sets up the source, and streams frames until
// the source sends its final frame or runs dry, a write fails, or ctx is
// cancelled.
//
// If conn is an io.Closer, cancelling ctx closes it so that a blocked
// handshake read or frame write returns at once; Run then reports ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	if cl, ok := c.conn.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { cl.Close() })
		defer stop()
	}

	sess, err := Handshake(c.conn, c.cfg.Options, c.cfg.HandshakeTimeout)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	c.session = sess
	c.log.Info("canvas negotiated",
		"size", sess.Dimensions.String(),
		"encoding", sess.Encoding.String(),
		"compression", sess.Compression.String(),
	)

	if err := c.src.Setup(sess); err != nil {
		return fmt.Errorf("%w: %w", ErrSourceSetup, err)
	}

	var prof *runProfile
	if c.cfg.Profile {
		prof = newRunProfile(c.now())
		defer func() { c.reportProfile(prof) }()
	}
	return c.stream(ctx, prof)
}

func (c *Client) stream(ctx context.Context, prof *runProfile) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, interval, err := c.src.Next()
		if errors.Is(err, source.ErrExhausted) {
			c.log.Debug("source exhausted")
			return nil
		}
		if err != nil {
			return fmt.Errorf("next frame: %w", err)
		}

		start := c.now()
		if err := writeFull(c.conn, frame.Data); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("write frame: %w", err)
		}
		elapsed := c.now().Sub(start)
		c.rec.FrameSent(len(frame.Data), frame.Logical, elapsed)
		prof.add(frame, elapsed)
		c.log.Debug("frame sent", "bytes", len(frame.Data), "logical", frame.Logical, "write", elapsed)

		if interval <= 0 {
			return nil
		}
		if wait := interval - elapsed; wait > 0 {
			c.rec.Paced(wait)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
}

// writeFull writes all of b, retrying partial writes.
func writeFull(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		b = b[n:]
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
