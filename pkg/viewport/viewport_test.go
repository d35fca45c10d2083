package viewport

import (
	"math"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		{Min: 0, Max: 2, Step: 0.2, Initial: 1},
		{Min: 2, Max: 1, Step: 0.2, Initial: 1.5},
		{Min: 0.5, Max: 2, Step: 0, Initial: 1},
		{Min: 0.5, Max: 2, Step: 0.2, Initial: 3},
		{Min: 0.5, Max: 2, Step: 0.2, Initial: math.NaN()},
	}
	for i, cfg := range bad {
		assert.Error(t, cfg.Validate(), "config %d", i)
	}
}

func TestZoomSaturates(t *testing.T) {
	c := NewController(DefaultConfig())
	assert.Equal(t, 1.0, c.Scale())

	assert.Equal(t, 1.2, c.ZoomIn())
	assert.Equal(t, 1.4, c.ZoomIn())
	for i := 0; i < 10; i++ {
		c.ZoomIn()
	}
	assert.Equal(t, 2.0, c.Scale())

	for i := 0; i < 20; i++ {
		c.ZoomOut()
	}
	assert.Equal(t, 0.5, c.Scale())

	assert.Equal(t, 1.0, c.Reset())
}

func TestSetScale(t *testing.T) {
	c := NewController(DefaultConfig())

	s, adjusted := c.SetScale(1.7)
	assert.Equal(t, 1.7, s)
	assert.False(t, adjusted)

	s, adjusted = c.SetScale(5)
	assert.Equal(t, 2.0, s)
	assert.True(t, adjusted)

	s, adjusted = c.SetScale(0.1)
	assert.Equal(t, 0.5, s)
	assert.True(t, adjusted)

	s, adjusted = c.SetScale(math.NaN())
	assert.Equal(t, 1.0, s)
	assert.True(t, adjusted)
}

func TestOnChange(t *testing.T) {
	c := NewController(DefaultConfig())
	var seen []float64
	c.OnChange(func(s float64) { seen = append(seen, s) })

	c.ZoomIn()
	c.Reset()
	c.Reset() // no change, no notification
	assert.Equal(t, []float64{1.2, 1.0}, seen)
}

func TestInvalidConfigFallsBack(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, DefaultConfig(), c.Config())
}

func TestClampGeneric(t *testing.T) {
	v, clamped := Clamp(7, 0, 5)
	assert.Equal(t, 5, v)
	assert.True(t, clamped)

	f, clamped := Clamp(math.NaN(), 0.5, 2.0)
	assert.Equal(t, 0.5, f)
	assert.True(t, clamped)

	s, clamped := Clamp("m", "a", "z")
	assert.Equal(t, "m", s)
	assert.False(t, clamped)
}

func TestConcurrentZoom(t *testing.T) {
	c := NewController(DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(in bool) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if in {
					c.ZoomIn()
				} else {
					c.ZoomOut()
				}
			}
		}(i%2 == 0)
	}
	wg.Wait()
	s := c.Scale()
	assert.True(t, s >= 0.5 && s <= 2.0, "scale %v out of bounds", s)
}

// Any sequence of zoom operations keeps the scale within [Min, Max].
func TestZoomBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("scale stays within bounds", prop.ForAll(
		func(ops []int) bool {
			c := NewController(DefaultConfig())
			for _, op := range ops {
				switch op % 3 {
				case 0:
					c.ZoomIn()
				case 1:
					c.ZoomOut()
				default:
					c.Reset()
				}
				if s := c.Scale(); s < 0.5 || s > 2.0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.Property("SetScale is clamped", prop.ForAll(
		func(v float64) bool {
			c := NewController(DefaultConfig())
			s, _ := c.SetScale(v)
			return s >= 0.5 && s <= 2.0
		},
		gen.Float64(),
	))

	properties.TestingRun(t)
}
