package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-riskgraph/pkg/session"
	"github.com/dd0wney/cluso-riskgraph/pkg/surface"
	"github.com/dd0wney/cluso-riskgraph/pkg/viewport"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		gf        graphFlags
		out       string
		frames    int
		zoom      int
		layoutOut string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a diagram to SVG",
		Long: "Render a diagram to SVG. With --frames 1 the document is written to --out\n" +
			"(a file, or - for stdout); with more frames --out names a directory that\n" +
			"receives frame-0001.svg, frame-0002.svg, ...",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 1 {
				return fmt.Errorf("--frames must be at least 1")
			}
			g, err := gf.load()
			if err != nil {
				return err
			}

			var sink surface.FrameSink
			switch {
			case frames > 1:
				if err := os.MkdirAll(out, 0o755); err != nil {
					return err
				}
				sink = surface.DirSink(out, "frame")
			case out == "-":
				sink = surface.WriterSink(cmd.OutOrStdout())
			default:
				f, err := createFile(out)
				if err != nil {
					return err
				}
				defer f.Close()
				sink = surface.WriterSink(f)
			}

			svg := surface.NewSVG(sink, surface.WithTitle(fmt.Sprintf("riskgraph %s", g.Kind())))
			vp := zoomed(a.cfg.Viewport, zoom)
			sess, err := session.New(g, svg, a.sessionOptions(g.Kind(), session.WithViewportConfig(vp))...)
			if err != nil {
				return err
			}
			defer sess.Close()

			if frames == 1 {
				err = sess.RenderOnce()
			} else {
				for range frames {
					if _, err = sess.Step(); err != nil {
						break
					}
				}
			}
			if err != nil {
				return err
			}

			if layoutOut != "" {
				pg := sess.Layout()
				data, err := pg.ExportJSON()
				if err != nil {
					return err
				}
				if err := os.WriteFile(layoutOut, data, 0o644); err != nil {
					return err
				}
			}

			if out == "-" {
				return nil
			}
			stdout := cmd.OutOrStdout()
			banner(stdout, "render")
			printLayout(stdout, sess.Layout())
			dest := out
			if frames > 1 {
				dest = filepath.Join(out, "frame-*.svg")
			}
			fmt.Fprintf(stdout, "\n  %s %d frame(s) written to %s\n", statusIcon(true), svg.Frames(), dest)
			return nil
		},
	}

	gf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "riskgraph.svg", "output file, - for stdout, or a directory when --frames > 1")
	cmd.Flags().IntVar(&frames, "frames", 1, "number of animation frames to render")
	cmd.Flags().IntVar(&zoom, "zoom", 0, "zoom steps to apply before rendering (negative zooms out)")
	cmd.Flags().StringVar(&layoutOut, "layout-json", "", "also write the positioned graph as JSON")
	return cmd
}

// zoomed starts the viewport the given number of steps from its initial
// scale, saturating at the bounds.
func zoomed(cfg viewport.Config, steps int) viewport.Config {
	s := math.Round((cfg.Initial+float64(steps)*cfg.Step)*1e9) / 1e9
	cfg.Initial, _ = viewport.Clamp(s, cfg.Min, cfg.Max)
	return cfg
}
