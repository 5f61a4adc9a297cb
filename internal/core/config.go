package core

import "time"

// RuntimeConfig contains configuration passed from the host to a run.
type RuntimeConfig struct {
	ScreenW       int           // Screen width in characters
	ScreenH       int           // Screen height in characters
	TickRate      int           // Frames per second requested from the host loop
	Seed          int64         // RNG seed for deterministic runs (0 = time based)
	MaxFrameDelta time.Duration // Upper bound for a single frame's dt
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:       80,
		ScreenH:       24,
		TickRate:      60,
		Seed:          0,
		MaxFrameDelta: 50 * time.Millisecond,
	}
}

// ClampFrameDelta converts an elapsed wall-clock duration into a simulation
// dt in seconds, bounded to [0, MaxFrameDelta]. A backgrounded terminal or a
// stalled SSH pipe can otherwise hand the simulation a multi-second frame.
func (c RuntimeConfig) ClampFrameDelta(elapsed time.Duration) float64 {
	if elapsed < 0 {
		return 0
	}
	limit := c.MaxFrameDelta
	if limit <= 0 {
		limit = 50 * time.Millisecond
	}
	if elapsed > limit {
		elapsed = limit
	}
	return elapsed.Seconds()
}
