// Package config loads engine settings from YAML or TOML files with
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-riskgraph/pkg/animation"
	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/logging"
	"github.com/dd0wney/cluso-riskgraph/pkg/riskcolor"
	"github.com/dd0wney/cluso-riskgraph/pkg/validation"
	"github.com/dd0wney/cluso-riskgraph/pkg/viewport"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel     = "RISKGRAPH_LOG_LEVEL"
	EnvTickInterval = "RISKGRAPH_TICK_INTERVAL"
	EnvInitialScale = "RISKGRAPH_INITIAL_SCALE"
)

// Config holds riskgraph configuration.
type Config struct {
	LogLevel  string           `yaml:"log_level" toml:"log_level"`
	Canvas    CanvasConfig     `yaml:"canvas" toml:"canvas"`
	Viewport  viewport.Config  `yaml:"viewport" toml:"viewport"`
	Animation animation.Config `yaml:"animation" toml:"animation"`
	Draw      draw.Options     `yaml:"draw" toml:"draw"`
	Palette   PaletteConfig    `yaml:"palette" toml:"palette"`
}

// CanvasConfig sets the drawing area per diagram kind.
type CanvasConfig struct {
	Cluster layout.Canvas `yaml:"cluster" toml:"cluster"`
	Flow    layout.Canvas `yaml:"flow" toml:"flow"`
}

// PaletteConfig overrides colors with hex strings. Risk keys are bucket
// names (low, medium, high, critical, unknown); the others are category tags.
type PaletteConfig struct {
	Risk     map[string]string `yaml:"risk" toml:"risk"`
	Nodes    map[string]string `yaml:"nodes" toml:"nodes"`
	Transfer map[string]string `yaml:"transfer" toml:"transfer"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Canvas: CanvasConfig{
			Cluster: layout.DefaultClusterCanvas,
			Flow:    layout.DefaultFlowCanvas,
		},
		Viewport:  viewport.DefaultConfig(),
		Animation: animation.DefaultConfig(),
		Draw:      draw.DefaultOptions(),
	}
}

// Load returns defaults overlaid with the file at path (if any) and then
// the environment, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("parse config %s: unknown keys %v", path, undecoded)
		}
	case ".yaml", ".yml", "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}
	return nil
}

// ApplyEnv overlays environment values obtained through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvTickInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvTickInterval, err)
		}
		c.Animation.Interval = d
	}
	if v, ok := lookup(EnvInitialScale); ok && v != "" {
		s, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvInitialScale, err)
		}
		c.Viewport.Initial = s
	}
	return nil
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	errs := []error{
		validation.NewConfigValidator("config").
			OneOf("log_level", c.LogLevel, []string{"debug", "info", "warn", "error"}).
			Validate(),
		validation.Struct(c.Canvas),
		c.Viewport.Validate(),
		c.Animation.Validate(),
		c.Draw.Validate(),
	}
	if _, err := c.ResolvePalette(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ResolvePalette applies the overrides to the default palette.
func (c *Config) ResolvePalette() (riskcolor.Palette, error) {
	return riskcolor.DefaultPalette().Override(c.Palette.Risk, c.Palette.Nodes, c.Palette.Transfer)
}

// Level returns the parsed log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding existing values. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
