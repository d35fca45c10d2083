package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/metrics"
)

// Console styles
var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	warn   = color.New(color.FgYellow)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

func banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s\n\n", brand.Sprint("riskgraph"), subtle.Sprint(subtitle))
}

// printLayout summarizes a positioned graph and its warnings.
func printLayout(w io.Writer, pg layout.PositionedGraph) {
	c := pg.Counts()
	fmt.Fprintf(w, "  Diagram:      %s\n", pg.Kind)
	fmt.Fprintf(w, "  Canvas:       %gx%g\n", pg.Canvas.Width, pg.Canvas.Height)
	fmt.Fprintf(w, "  Scale:        %g\n", pg.Scale)
	fmt.Fprintf(w, "  Nodes:        %d\n", c.Nodes)
	if c.Clusters > 0 || c.Wallets > 0 {
		fmt.Fprintf(w, "  Clusters:     %d\n", c.Clusters)
		fmt.Fprintf(w, "  Wallets:      %d\n", c.Wallets)
	}
	if c.Steps > 0 {
		fmt.Fprintf(w, "  Steps:        %d\n", c.Steps)
		fmt.Fprintf(w, "  Transfers:    %d\n", c.Transfers)
	}
	fmt.Fprintf(w, "  Connections:  %d\n", c.Connections)
	if c.Dropped > 0 {
		fmt.Fprintf(w, "  Dropped:      %s\n", bad.Sprint(c.Dropped))
	}
	for _, wn := range pg.Warnings {
		fmt.Fprintf(w, "  %s %s\n", warn.Sprint("⚠"), wn.Message)
	}
}

func printSnapshot(w io.Writer, reg *metrics.Registry) error {
	samples, err := reg.Snapshot()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	subtle.Fprintln(w, "  metrics")
	for _, s := range samples {
		if s.Value == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-44s %g\n", s.Name+formatLabels(s.Labels), s.Value)
	}
	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + labels[k]
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func statusIcon(ok bool) string {
	if ok {
		return good.Sprint("✓")
	}
	return bad.Sprint("✗")
}
