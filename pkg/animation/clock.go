// Package animation drives the looping phase that moves transfer particles
// along a flow diagram.
package animation

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/dd0wney/cluso-riskgraph/pkg/validation"
)

// ErrAlreadyRunning is returned by Start on a running clock.
var ErrAlreadyRunning = errors.New("animation: clock already running")

// Config controls tick rate and particle timing.
type Config struct {
	Interval     time.Duration `yaml:"interval" toml:"interval" json:"interval"`
	Step         float64       `yaml:"step" toml:"step" json:"step"`
	Stagger      float64       `yaml:"stagger" toml:"stagger" json:"stagger"`
	TravelWindow float64       `yaml:"travel_window" toml:"travel_window" json:"travel_window"`
}

// DefaultConfig advances 0.02 every 50ms, a full cycle in 2.5s.
func DefaultConfig() Config {
	return Config{
		Interval:     50 * time.Millisecond,
		Step:         0.02,
		Stagger:      0.15,
		TravelWindow: 0.8,
	}
}

// Validate checks the timing values.
func (c Config) Validate() error {
	return validation.NewConfigValidator("animation").
		RangeDuration("interval", c.Interval, time.Millisecond, 10*time.Second).
		PositiveFloat("step", c.Step).
		RangeFloat("step", c.Step, 0, 1).
		RangeFloat("stagger", c.Stagger, 0, 1).
		PositiveFloat("travel_window", c.TravelWindow).
		RangeFloat("travel_window", c.TravelWindow, 0, 1).
		Validate()
}

// Clock is a monotonic phase in [0, 1) advanced on a fixed interval.
//
// A single goroutine owns the ticker and runs onTick to completion before
// receiving the next tick. Ticks that fire during a slow callback are
// dropped by the ticker rather than queued.
type Clock struct {
	cfg    Config
	onTick func(phase float64)

	mu      sync.Mutex
	phase   float64
	ticks   uint64
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewClock returns a stopped clock at phase 0. onTick may be nil.
func NewClock(cfg Config, onTick func(phase float64)) *Clock {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	return &Clock{cfg: cfg, onTick: onTick}
}

// Config returns the settings in effect.
func (c *Clock) Config() Config { return c.cfg }

// Start launches the tick loop. The loop ends on Stop or when ctx is done.
func (c *Clock) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return ErrAlreadyRunning
	}
	c.running = true
	c.stopCh = make(chan struct{})
	c.done = make(chan struct{})

	go c.run(ctx, c.stopCh, c.done)
	return nil
}

// Stop halts the loop and waits for it to exit; no callback runs after Stop
// returns. It is safe to call repeatedly, but not from inside onTick.
func (c *Clock) Stop() {
	c.mu.Lock()
	done := c.done
	if c.running {
		close(c.stopCh)
		c.running = false
	}
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Running reports whether the tick loop is active.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Phase returns the current phase.
func (c *Clock) Phase() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Ticks returns how many times the phase has advanced.
func (c *Clock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Advance moves the phase forward by one step and returns it. The loop calls
// it on every tick; offline renderers call it directly.
func (c *Clock) Advance() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = wrap(c.phase + c.cfg.Step)
	c.ticks++
	return c.phase
}

func (c *Clock) run(ctx context.Context, stopCh, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			c.mu.Lock()
			if c.stopCh == stopCh {
				c.running = false
			}
			c.mu.Unlock()
			return
		case <-ticker.C:
			// Stop may have raced the tick; it wins.
			select {
			case <-stopCh:
				return
			default:
			}
			p := c.Advance()
			if c.onTick != nil {
				c.onTick(p)
			}
		}
	}
}

// ParticlePhase offsets the clock phase for the i-th transfer so particles
// are staggered along the chain.
func ParticlePhase(clockPhase float64, i int, stagger float64) float64 {
	return wrap(clockPhase + float64(i)*stagger)
}

// Visible reports whether a particle at phase is still travelling.
func Visible(phase, window float64) bool {
	return phase < window
}

// wrap reduces v into [0, 1), snapping float drift so that fifty 0.02 steps
// land exactly on 0.
func wrap(v float64) float64 {
	v = math.Round(v*1e9) / 1e9
	v = math.Mod(v, 1)
	if v < 0 {
		v++
	}
	if v >= 1 {
		v = 0
	}
	return v
}
