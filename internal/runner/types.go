package runner

import (
	"fmt"
	"math"

	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/core"
)

// RunState is the phase of a run.
type RunState int

const (
	StateIdle     RunState = iota // waiting for Start; nothing moves
	StatePlaying                  // full update active
	StateGameOver                 // terminal until Reset
)

// String returns a human-readable name for the state.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePlaying:
		return "Playing"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the state by name.
func (s RunState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *RunState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Idle":
		*s = StateIdle
	case "Playing":
		*s = StatePlaying
	case "GameOver":
		*s = StateGameOver
	default:
		return fmt.Errorf("runner: unknown state %q", b)
	}
	return nil
}

// PlayerState is the player's position and vertical motion.
// Y grows downward; the player stands on the ground when Y+Height == groundY.
type PlayerState struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VelocityY float64 `json:"vy"`
	IsJumping bool    `json:"jumping"`
	Width     float64 `json:"w"`
	Height    float64 `json:"h"`

	// Run-cycle animation, cosmetic only.
	Frame        int     `json:"frame"`
	FrameElapsed float64 `json:"-"`
}

// Bounds returns the sprite box.
func (p PlayerState) Bounds() core.RectF {
	return core.NewRectF(p.X, p.Y, p.Width, p.Height)
}

// Obstacle is a live obstacle instance.
type Obstacle struct {
	ID         uint64                `json:"id"`
	X          float64               `json:"x"`
	Y          float64               `json:"y"`
	Width      float64               `json:"w"`
	Height     float64               `json:"h"`
	TemplateID string                `json:"template"`
	Sprite     string                `json:"sprite"` // opaque to the simulation
	Collider   config.ColliderInsets `json:"-"`
}

// Bounds returns the sprite box.
func (o Obstacle) Bounds() core.RectF {
	return core.NewRectF(o.X, o.Y, o.Width, o.Height)
}

// Canvas is the logical surface a run takes place on.
type Canvas struct {
	Width   float64
	Height  float64
	GroundY float64
}

// CanvasFor builds the canvas described by a runner config.
func CanvasFor(cfg config.RunnerConfig) Canvas {
	return Canvas{
		Width:   cfg.Canvas.Width,
		Height:  cfg.Canvas.Height,
		GroundY: cfg.Physics.GroundY(cfg.Canvas.Height),
	}
}

// Validate rejects degenerate canvases.
func (c Canvas) Validate() error {
	if !(c.Width > 0) || !(c.Height > 0) || math.IsInf(c.Width, 0) || math.IsInf(c.Height, 0) {
		return fmt.Errorf("runner: %w: canvas must have positive size, got %vx%v", config.ErrInvalidConfig, c.Width, c.Height)
	}
	if !(c.GroundY > 0) || c.GroundY > c.Height {
		return fmt.Errorf("runner: %w: ground %v must lie in (0, %v]", config.ErrInvalidConfig, c.GroundY, c.Height)
	}
	return nil
}

// TerminalEvent is delivered once when a run ends.
type TerminalEvent struct {
	FinalScore float64 `json:"final_score"`
}

// Metrics are the derived numbers of the current run.
type Metrics struct {
	SpeedScale          float64 `json:"speed_scale"`
	ActualSpeed         float64 `json:"actual_speed"`
	Score               float64 `json:"score"`
	Elapsed             float64 `json:"elapsed"`
	SinceLastSpawnMs    float64 `json:"since_last_spawn_ms"`
	NextSpawnIntervalMs float64 `json:"next_spawn_interval_ms"`
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	State     RunState    `json:"state"`
	Player    PlayerState `json:"player"`
	Obstacles []Obstacle  `json:"obstacles"`
	Metrics   Metrics     `json:"metrics"`
	Canvas    Canvas      `json:"-"`
}

// RandSource is the random stream the spawner draws from.
// *math/rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}
