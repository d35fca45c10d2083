// Package viewport holds the zoom scale applied to cluster layouts.
package viewport

import (
	"math"
	"sync"

	"golang.org/x/exp/constraints"

	"github.com/dd0wney/cluso-riskgraph/pkg/validation"
)

// Config bounds the zoom scale.
type Config struct {
	Min     float64 `yaml:"min" toml:"min" json:"min"`
	Max     float64 `yaml:"max" toml:"max" json:"max"`
	Step    float64 `yaml:"step" toml:"step" json:"step"`
	Initial float64 `yaml:"initial" toml:"initial" json:"initial"`
}

// DefaultConfig returns the dashboard zoom settings: 0.5x to 2x in 0.2 steps.
func DefaultConfig() Config {
	return Config{Min: 0.5, Max: 2.0, Step: 0.2, Initial: 1.0}
}

// Validate checks the bounds are positive, ordered and contain Initial.
func (c Config) Validate() error {
	return validation.NewConfigValidator("viewport").
		PositiveFloat("min", c.Min).
		PositiveFloat("step", c.Step).
		LessFloat("min", "max", c.Min, c.Max).
		RangeFloat("initial", c.Initial, c.Min, c.Max).
		Validate()
}

// Clamp limits v to [lo, hi] and reports whether it had to.
// A NaN input is out of range and clamps to lo.
func Clamp[T constraints.Ordered](v, lo, hi T) (T, bool) {
	switch {
	case v != v:
		return lo, true
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	}
	return v, false
}

// Controller owns the current zoom scale. It is safe for concurrent use.
type Controller struct {
	cfg       Config
	mu        sync.Mutex
	scale     float64
	observers []func(float64)
}

// NewController returns a controller at cfg.Initial. Invalid configs fall
// back to DefaultConfig; callers that care should Validate first.
func NewController(cfg Config) *Controller {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	return &Controller{cfg: cfg, scale: cfg.Initial}
}

// Config returns the bounds in effect.
func (c *Controller) Config() Config { return c.cfg }

// Scale returns the current scale.
func (c *Controller) Scale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale
}

// ZoomIn raises the scale by one step, saturating at Max.
func (c *Controller) ZoomIn() float64 {
	return c.update(func(s float64) float64 { return math.Min(s+c.cfg.Step, c.cfg.Max) })
}

// ZoomOut lowers the scale by one step, saturating at Min.
func (c *Controller) ZoomOut() float64 {
	return c.update(func(s float64) float64 { return math.Max(s-c.cfg.Step, c.cfg.Min) })
}

// Reset returns to the initial scale.
func (c *Controller) Reset() float64 {
	return c.update(func(float64) float64 { return c.cfg.Initial })
}

// SetScale sets an arbitrary scale. Out-of-range values are clamped and NaN
// falls back to Initial; the bool reports that the request was adjusted.
func (c *Controller) SetScale(s float64) (float64, bool) {
	adjusted := false
	v := c.update(func(float64) float64 {
		if math.IsNaN(s) {
			adjusted = true
			return c.cfg.Initial
		}
		var clamped float64
		clamped, adjusted = Clamp(s, c.cfg.Min, c.cfg.Max)
		return clamped
	})
	return v, adjusted
}

// OnChange registers fn to run after every change of scale. Observers run
// on the mutating goroutine, outside the controller's lock.
func (c *Controller) OnChange(fn func(scale float64)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

func (c *Controller) update(next func(float64) float64) float64 {
	c.mu.Lock()
	old := c.scale
	c.scale = snap(next(old))
	s := c.scale
	observers := c.observers
	c.mu.Unlock()

	if s != old {
		for _, fn := range observers {
			fn(s)
		}
	}
	return s
}

// snap removes accumulated float error from repeated steps (1.0+0.2+0.2 == 1.4).
func snap(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
