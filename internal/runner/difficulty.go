package runner

import (
	"math"

	"github.com/vovakirdan/golem-runner/internal/config"
)

// Difficulty grows the speed multiplier with elapsed run time.
type Difficulty struct {
	increment float64
	ceiling   float64
	scale     float64
}

// NewDifficulty creates a scaler starting at speed scale 1.
// A zero MaxSpeedScale leaves the scale unbounded.
func NewDifficulty(cfg config.DifficultyConfig) *Difficulty {
	ceiling := cfg.MaxSpeedScale
	if ceiling <= 0 {
		ceiling = math.Inf(1)
	}
	return &Difficulty{
		increment: cfg.SpeedScaleIncrementPerSecond,
		ceiling:   ceiling,
		scale:     1,
	}
}

// Step advances the scale by dt seconds and returns it.
func (d *Difficulty) Step(dt float64) float64 {
	d.scale = math.Min(d.ceiling, d.scale+d.increment*dt)
	return d.scale
}

// Scale returns the current speed multiplier.
func (d *Difficulty) Scale() float64 {
	return d.scale
}

// Reset returns the scale to 1.
func (d *Difficulty) Reset() {
	d.scale = 1
}

// ScaleAt is the closed form of the scale after elapsed seconds of play.
func ScaleAt(cfg config.DifficultyConfig, elapsed float64) float64 {
	s := 1 + cfg.SpeedScaleIncrementPerSecond*elapsed
	if cfg.MaxSpeedScale > 0 {
		s = math.Min(cfg.MaxSpeedScale, s)
	}
	return s
}
