package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/chronologos/pxflood/internal/client"
	"github.com/chronologos/pxflood/internal/config"
	"github.com/chronologos/pxflood/internal/logging"
	"github.com/chronologos/pxflood/internal/metrics"
	"github.com/chronologos/pxflood/internal/source"
	"github.com/chronologos/pxflood/internal/transport"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	o := newRootOptions()
	code := runMain(ctx, o, newRootCmd(o))
	stop()
	os.Exit(code)
}

// runMain executes root and maps the outcome to an exit status. Errors go
// through the run's logger once one exists; config errors that occur before
// that are printed plainly.
func runMain(ctx context.Context, o *rootOptions, root *cobra.Command) int {
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case o.log != nil:
		o.log.Error("pxflood failed", "err", err)
	default:
		fmt.Fprintf(root.ErrOrStderr(), "pxflood: %v\n", err)
	}
	return 1
}

// rootOptions holds the global flags and the configuration resolved from them.
type rootOptions struct {
	configPath       string
	flags            config.Config // applied over the config file only when set
	handshakeTimeout time.Duration

	cfg config.Config
	log *slog.Logger
}

func newRootOptions() *rootOptions {
	return &rootOptions{flags: config.Default()}
}

func newRootCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "pxflood",
		Short: "Stream pixels to a shared Pixelflut canvas",
		Long: `pxflood negotiates the canvas size with a pixel server and streams
pixel-set commands to it: solid fills, still images, looping GIFs,
or a random walker.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return o.resolve(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "JSON config file; flags override its values")
	pf.StringVarP(&o.flags.Remote, "remote", "r", o.flags.Remote, "pixel server host[:port] (port defaults to 1337)")
	pf.BoolVarP(&o.flags.Binary, "binary", "b", false, "use binary PB records instead of text PX commands")
	pf.StringVarP(&o.flags.Compression, "compression", "c", "", "compress every frame with the named codec (zstd)")
	pf.StringVar(&o.flags.Transport, "transport", o.flags.Transport, "byte stream to use: tcp or quic")
	pf.DurationVar(&o.handshakeTimeout, "handshake-timeout", time.Duration(o.flags.HandshakeTimeout), "bound on each handshake read; 0 disables it")
	pf.StringVar(&o.flags.LogLevel, "log-level", o.flags.LogLevel, "debug, info, warn, or error")
	pf.StringVar(&o.flags.LogFormat, "log-format", o.flags.LogFormat, "auto, text, or json")
	pf.StringVar(&o.flags.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	pf.BoolVar(&o.flags.Profile, "profile", false, "print a run profile and write it as JSON to the temp dir")

	root.AddCommand(
		fillCmd(o),
		gifCmd(o),
		imageCmd(o),
		snakeCmd(o),
		versionCmd(),
	)
	return root
}

// resolve layers defaults, the config file, and explicitly set flags, then
// builds the logger.
func (o *rootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	fs := cmd.Flags()
	if fs.Changed("remote") {
		cfg.Remote = o.flags.Remote
	}
	if fs.Changed("binary") {
		cfg.Binary = o.flags.Binary
	}
	if fs.Changed("compression") {
		cfg.Compression = o.flags.Compression
	}
	if fs.Changed("transport") {
		cfg.Transport = o.flags.Transport
	}
	if fs.Changed("handshake-timeout") {
		cfg.HandshakeTimeout = config.Duration(o.handshakeTimeout)
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = o.flags.LogLevel
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = o.flags.LogFormat
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = o.flags.MetricsAddr
	}
	if fs.Changed("profile") {
		cfg.Profile = o.flags.Profile
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	o.cfg = cfg

	o.log, err = logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: logging.Format(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
	return err
}

// stream dials the remote and runs src until it finishes or ctx is cancelled.
func (o *rootOptions) stream(ctx context.Context, src source.Source) error {
	opts, err := o.cfg.Options()
	if err != nil {
		return err
	}
	mode, err := o.cfg.DialMode()
	if err != nil {
		return err
	}

	var rec client.Recorder
	if o.cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		rec = metrics.NewRecorder(reg)
		go func() {
			if err := metrics.Serve(ctx, o.cfg.MetricsAddr, reg, o.log); err != nil {
				o.log.Error("metrics server", "err", err)
			}
		}()
	}

	conn, err := transport.Dial(ctx, mode, o.cfg.Remote)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	defer conn.Close()
	o.log.Info("connected", "remote", transport.WithDefaultPort(o.cfg.Remote), "transport", mode.String())

	c := client.New(client.Config{
		Options:          opts,
		HandshakeTimeout: time.Duration(o.cfg.HandshakeTimeout),
		Profile:          o.cfg.Profile,
	}, conn, src, rec, o.log)
	return c.Run(ctx)
}
