package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-riskgraph/pkg/config"
	"github.com/dd0wney/cluso-riskgraph/pkg/fixtures"
	"github.com/dd0wney/cluso-riskgraph/pkg/logging"
	"github.com/dd0wney/cluso-riskgraph/pkg/metrics"
	"github.com/dd0wney/cluso-riskgraph/pkg/model"
	"github.com/dd0wney/cluso-riskgraph/pkg/riskcolor"
	"github.com/dd0wney/cluso-riskgraph/pkg/session"
)

var version = "0.3.0"

// app carries state shared by every subcommand.
type app struct {
	configPath  string
	envFile     string
	logLevel    string
	showMetrics bool

	cfg     *config.Config
	palette riskcolor.Palette
	logger  logging.Logger
	metrics *metrics.Registry
}

// graphFlags selects the diagram to draw: a model file or a generated sample.
type graphFlags struct {
	input  string
	sample string
	seed   uint64
	size   int
}

func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "model document (.yaml or .json)")
	cmd.Flags().StringVar(&f.sample, "sample", string(model.KindCluster), "sample diagram when no input is given (cluster|flow)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 1, "seed for generated samples")
	cmd.Flags().IntVar(&f.size, "clusters", fixtures.DefaultClusters, "cluster count for generated samples")
}

func (f *graphFlags) load() (model.GraphModel, error) {
	if f.input != "" {
		return model.LoadFile(f.input)
	}
	return sampleGraph(model.Kind(f.sample), f.seed, f.size)
}

func sampleGraph(kind model.Kind, seed uint64, clusters int) (model.GraphModel, error) {
	gen := fixtures.NewGenerator(seed)
	switch kind {
	case model.KindCluster:
		m, err := gen.ClusterModel(clusters)
		if err != nil {
			return model.GraphModel{}, err
		}
		return model.FromCluster(m), nil
	default:
		return gen.Graph(kind)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "riskgraph",
		Short:         "riskgraph renders wallet-cluster and transaction-flow risk diagrams",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.showMetrics {
				return nil
			}
			return printSnapshot(cmd.OutOrStdout(), a.metrics)
		},
	}
	root.SetVersionTemplate("riskgraph {{ .Version }}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the config")
	flags.StringVar(&a.logLevel, "log-level", "", "override log level (debug|info|warn|error)")
	flags.BoolVar(&a.showMetrics, "metrics", false, "print collected metrics on exit")

	root.AddCommand(
		a.renderCmd(),
		a.recordCmd(),
		a.replayCmd(),
		a.tuiCmd(),
		a.sampleCmd(),
	)

	wrapErrors(root)
	return root
}

// wrapErrors prints command errors in the console style.
func wrapErrors(root *cobra.Command) {
	for _, c := range root.Commands() {
		run := c.RunE
		if run == nil {
			continue
		}
		c.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", statusIcon(false), err)
			}
			return err
		}
	}
}

func (a *app) init(stderr io.Writer) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	palette, err := cfg.ResolvePalette()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.palette = palette
	a.logger = logging.NewJSONLogger(stderr, cfg.Level())
	logging.SetDefaultLogger(a.logger)
	a.metrics = metrics.NewRegistry()
	return nil
}

// sessionOptions applies the loaded configuration to a session.
func (a *app) sessionOptions(kind model.Kind, extra ...session.Option) []session.Option {
	canvas := a.cfg.Canvas.Cluster
	if kind == model.KindFlow {
		canvas = a.cfg.Canvas.Flow
	}
	opts := []session.Option{
		session.WithCanvas(canvas),
		session.WithLogger(a.logger),
		session.WithMetrics(a.metrics),
		session.WithClockConfig(a.cfg.Animation),
		session.WithViewportConfig(a.cfg.Viewport),
		session.WithPalette(a.palette),
		session.WithDrawOptions(a.cfg.Draw),
	}
	return append(opts, extra...)
}

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
