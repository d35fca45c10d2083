package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-riskgraph/pkg/logging"
	"github.com/dd0wney/cluso-riskgraph/pkg/riskcolor"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1400.0, cfg.Canvas.Cluster.Width)
	assert.Equal(t, 400.0, cfg.Canvas.Flow.Height)
	assert.Equal(t, 50*time.Millisecond, cfg.Animation.Interval)
	assert.Equal(t, logging.InfoLevel, cfg.Level())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "riskgraph.yaml", `
log_level: debug
canvas:
  flow:
    width: 1000
    height: 500
viewport:
  min: 0.25
  max: 4
  step: 0.25
  initial: 1
animation:
  interval: 20ms
  step: 0.05
  stagger: 0.1
  travel_window: 0.8
palette:
  risk:
    critical: "#ff0000"
`)
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvTickInterval, "")
	t.Setenv(EnvInitialScale, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1000.0, cfg.Canvas.Flow.Width)
	assert.Equal(t, 1400.0, cfg.Canvas.Cluster.Width, "untouched sections keep defaults")
	assert.Equal(t, 4.0, cfg.Viewport.Max)
	assert.Equal(t, 20*time.Millisecond, cfg.Animation.Interval)

	p, err := cfg.ResolvePalette()
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", p.RiskColor(90).Hex())
	assert.Equal(t, riskcolor.DefaultPalette().RiskColor(10), p.RiskColor(10))
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "riskgraph.toml", `
log_level = "warn"

[canvas.cluster]
width = 1200
height = 800

[animation]
interval = "100ms"
step = 0.01
stagger = 0.2
travel_window = 0.5
`)
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvTickInterval, "")
	t.Setenv(EnvInitialScale, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 1200.0, cfg.Canvas.Cluster.Width)
	assert.Equal(t, 100*time.Millisecond, cfg.Animation.Interval)
	assert.Equal(t, 0.5, cfg.Animation.TravelWindow)
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvTickInterval, "")
	t.Setenv(EnvInitialScale, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"unknown yaml field", "bad.yaml", "zoom: 3\n"},
		{"malformed toml", "bad.toml", "log_level = \n"},
		{"unsupported extension", "bad.ini", "x=1\n"},
		{"invalid level", "level.yaml", "log_level: chatty\n"},
		{"inverted zoom range", "zoom.yaml", "viewport:\n  min: 2\n  max: 1\n  step: 0.2\n  initial: 1\n"},
		{"bad palette hex", "pal.yaml", "palette:\n  risk:\n    high: nothex\n"},
		{"unknown palette bucket", "bucket.yaml", "palette:\n  risk:\n    severe: \"#000000\"\n"},
		{"unknown toml key", "extra.toml", "[animation]\ntravel_windw = 0.5\n"},
		{"particle timing outside animation", "draw.yaml", "draw:\n  travel_window: 0.5\n"},
	}
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvTickInterval, "")
	t.Setenv(EnvInitialScale, "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvLogLevel:     " DEBUG ",
		EnvTickInterval: "16ms",
		EnvInitialScale: "1.4",
	}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 16*time.Millisecond, cfg.Animation.Interval)
	assert.Equal(t, 1.4, cfg.Viewport.Initial)
	require.NoError(t, cfg.Validate())

	unchanged := Default()
	require.NoError(t, unchanged.ApplyEnv(noEnv))
	assert.Equal(t, Default(), unchanged)
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{EnvTickInterval: "fast"}))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = Default()
	err = cfg.ApplyEnv(envMap(map[string]string{EnvInitialScale: "big"}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "riskgraph.yaml", "log_level: warn\n")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvTickInterval, "")
	t.Setenv(EnvInitialScale, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestValidateOutOfRangeInitialScale(t *testing.T) {
	cfg := Default()
	cfg.Viewport.Initial = 5
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "initial")
}

func TestValidateCanvas(t *testing.T) {
	cfg := Default()
	cfg.Canvas.Flow.Width = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "RISKGRAPH_TEST_DOTENV=from-file\n")
	t.Setenv("RISKGRAPH_TEST_DOTENV", "")
	os.Unsetenv("RISKGRAPH_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("RISKGRAPH_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
