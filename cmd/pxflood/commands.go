package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chronologos/pxflood/internal/protocol"
	"github.com/chronologos/pxflood/internal/source"
	"github.com/chronologos/pxflood/internal/version"
)

// offsets are the -w/-H placement flags shared by gif and image. Negative
// values anchor to the right or bottom edge.
type offsets struct {
	x, y int
}

func (off *offsets) bind(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&off.x, "width-offset", "w", 0, "horizontal offset; negative anchors to the right edge")
	cmd.Flags().IntVarP(&off.y, "height-offset", "H", 0, "vertical offset; negative anchors to the bottom edge")
}

func fillCmd(o *rootOptions) *cobra.Command {
	var noisy bool

	cmd := &cobra.Command{
		Use:   "fill [COLOR]",
		Short: "Fill the whole canvas with one color",
		Long: `Fill the canvas once with COLOR, given as RRGGBB, RRGGBBAA, or "r"
for a random opaque color (the default).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "r"
			if len(args) == 1 {
				arg = args[0]
			}
			color, err := protocol.ParseColor(arg)
			if err != nil {
				return err
			}
			o.log.Info("fill", "color", color.String(), "noisy", noisy)
			return o.stream(cmd.Context(), source.NewFill(color, noisy, nil))
		},
	}

	cmd.Flags().BoolVar(&noisy, "noisy", false, "send pixels in random order")
	return cmd
}

func gifCmd(o *rootOptions) *cobra.Command {
	var (
		off       offsets
		frameTime int
	)

	cmd := &cobra.Command{
		Use:   "gif FILE",
		Short: "Loop an animated GIF on the canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frameTime <= 0 {
				return fmt.Errorf("--frame-time must be > 0")
			}
			src := source.NewAnimation(args[0], off.x, off.y, time.Duration(frameTime)*time.Millisecond, o.log)
			return o.stream(cmd.Context(), src)
		},
	}

	cmd.Flags().IntVar(&frameTime, "frame-time", int(source.DefaultFrameTime/time.Millisecond), "milliseconds per frame")
	off.bind(cmd)
	return cmd
}

func imageCmd(o *rootOptions) *cobra.Command {
	var (
		off      offsets
		interval int
	)

	cmd := &cobra.Command{
		Use:   "image FILE",
		Short: "Draw a still image (PNG, JPEG, or the first GIF frame)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval < 0 {
				return fmt.Errorf("--frame-interval must be >= 0")
			}
			src := source.NewStill(args[0], off.x, off.y, time.Duration(interval)*time.Millisecond, o.log)
			return o.stream(cmd.Context(), src)
		},
	}

	cmd.Flags().IntVar(&interval, "frame-interval", 0, "resend the image every N milliseconds; 0 sends it once")
	off.bind(cmd)
	return cmd
}

func snakeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snake",
		Short: "Draw a bouncing random walk until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.stream(cmd.Context(), source.NewWalker(nil))
		},
	}
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.VERSION)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}
