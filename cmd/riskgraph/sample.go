package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-riskgraph/pkg/model"
)

func (a *app) sampleCmd() *cobra.Command {
	var (
		gf  graphFlags
		out string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a generated sample model document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := sampleGraph(model.Kind(gf.sample), gf.seed, gf.size)
			if err != nil {
				return err
			}
			if out == "-" {
				return model.Encode(cmd.OutOrStdout(), g, model.FormatYAML)
			}

			f, err := createFile(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := model.Encode(f, g, model.FormatFromPath(out)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s sample written to %s\n", statusIcon(true), g.Kind(), out)
			return nil
		},
	}

	gf.register(cmd)
	cmd.Flags().Lookup("input").Hidden = true
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file (.yaml or .json), - for stdout")
	return cmd
}
