package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/model"
	"github.com/dd0wney/cluso-riskgraph/pkg/recording"
	"github.com/dd0wney/cluso-riskgraph/pkg/session"
	"github.com/dd0wney/cluso-riskgraph/pkg/surface"
)

func (a *app) recordCmd() *cobra.Command {
	var (
		gf     graphFlags
		out    string
		frames int
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record animation frames to a compressed recording",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 1 {
				return fmt.Errorf("--frames must be at least 1")
			}
			g, err := gf.load()
			if err != nil {
				return err
			}
			canvas := a.cfg.Canvas.Cluster
			if g.Kind() == model.KindFlow {
				canvas = a.cfg.Canvas.Flow
			}

			w, err := recording.Create(out, canvas)
			if err != nil {
				return err
			}

			var sess *session.Session
			rs := recording.NewSurface(w, func() float64 { return sess.Phase() }, a.metrics)
			sess, err = session.New(g, rs, a.sessionOptions(g.Kind())...)
			if err != nil {
				return errors.Join(err, w.Close())
			}

			for range frames {
				if _, err = sess.Step(); err != nil {
					break
				}
			}
			err = errors.Join(err, sess.Close(), w.Close())
			if err != nil {
				return err
			}

			st := w.Stats()
			stdout := cmd.OutOrStdout()
			banner(stdout, "record")
			printLayout(stdout, sess.Layout())
			fmt.Fprintf(stdout, "\n  Frames:       %d\n", st.Frames)
			fmt.Fprintf(stdout, "  Raw bytes:    %d\n", st.BytesUncompressed)
			fmt.Fprintf(stdout, "  Compressed:   %d (%.0f%% smaller)\n", st.BytesCompressed, st.CompressionRatio*100)
			fmt.Fprintf(stdout, "\n  %s recording written to %s\n", statusIcon(true), out)
			return nil
		},
	}

	gf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "riskgraph.rgrc", "recording file")
	cmd.Flags().IntVar(&frames, "frames", 50, "number of frames to record (50 is one full cycle at the default step)")
	return cmd
}

func (a *app) replayCmd() *cobra.Command {
	var (
		svgDir   string
		terminal bool
		cols     int
		rows     int
	)

	cmd := &cobra.Command{
		Use:   "replay <recording>",
		Short: "Replay a recording as SVG frames or onto the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			stdout := cmd.OutOrStdout()

			var target draw.Surface
			var term *surface.Terminal
			switch {
			case svgDir != "":
				if err := os.MkdirAll(svgDir, 0o755); err != nil {
					return err
				}
				target = surface.NewSVG(surface.DirSink(svgDir, "replay"))
			case terminal:
				term = surface.NewTerminal(cols, rows)
				target = term
			default:
				target = draw.NewRecorder()
			}

			n, err := recording.ReplayFile(path, target)
			if err != nil {
				return err
			}

			if term != nil {
				fmt.Fprintln(stdout, term.View())
				return nil
			}
			banner(stdout, "replay")
			if rec, ok := target.(*draw.Recorder); ok {
				fmt.Fprintf(stdout, "  Canvas:       %s\n", canvasString(rec.Canvas()))
				fmt.Fprintf(stdout, "  Commands:     %d in last frame\n", len(rec.Last()))
			}
			fmt.Fprintf(stdout, "  %s %d frame(s) replayed from %s\n", statusIcon(true), n, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&svgDir, "svg-dir", "", "write each frame as SVG into this directory")
	cmd.Flags().BoolVar(&terminal, "terminal", false, "draw the final frame on the terminal")
	cmd.Flags().IntVar(&cols, "cols", 100, "terminal columns")
	cmd.Flags().IntVar(&rows, "rows", 32, "terminal rows")
	return cmd
}

func canvasString(c layout.Canvas) string {
	return fmt.Sprintf("%gx%g", c.Width, c.Height)
}
