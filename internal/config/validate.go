package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

func invalid(format string, args ...any) error {
	return fmt.Errorf("config: %w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return invalid("%s must be a positive finite number, got %v", name, v)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return invalid("%s must be >= 0, got %v", name, v)
	}
	return nil
}

// Validate checks the whole configuration, including the obstacle override
// catalog when one is present.
func (c RunnerConfig) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	if err := c.Difficulty.Validate(); err != nil {
		return err
	}
	if err := c.Player.Validate(); err != nil {
		return err
	}
	if err := positive("canvas.width", c.Canvas.Width); err != nil {
		return err
	}
	if err := positive("canvas.height", c.Canvas.Height); err != nil {
		return err
	}
	if c.Physics.GroundOffset >= c.Canvas.Height {
		return invalid("physics.ground_offset %v leaves no room on a %v high canvas", c.Physics.GroundOffset, c.Canvas.Height)
	}
	if len(c.Obstacles) > 0 {
		return c.Obstacles.Validate()
	}
	return nil
}

// Validate rejects non-physical tuning.
func (p PhysicsConfig) Validate() error {
	if err := positive("physics.gravity", p.Gravity); err != nil {
		return err
	}
	if err := positive("physics.jump_force", p.JumpForce); err != nil {
		return err
	}
	if err := positive("physics.base_speed", p.BaseSpeed); err != nil {
		return err
	}
	return nonNegative("physics.ground_offset", p.GroundOffset)
}

// Validate rejects intervals and scaling factors the spawner cannot use.
// InitialMin > InitialMax is allowed; the spawner draws a fixed interval then.
func (d DifficultyConfig) Validate() error {
	if err := nonNegative("difficulty.speed_scale_increment_per_second", d.SpeedScaleIncrementPerSecond); err != nil {
		return err
	}
	if err := positive("difficulty.initial_min_spawn_interval_ms", d.InitialMinSpawnIntervalMs); err != nil {
		return err
	}
	if err := positive("difficulty.initial_max_spawn_interval_ms", d.InitialMaxSpawnIntervalMs); err != nil {
		return err
	}
	if err := positive("difficulty.min_overall_spawn_interval_ms", d.MinOverallSpawnIntervalMs); err != nil {
		return err
	}
	if err := nonNegative("difficulty.obstacle_interval_speed_factor", d.ObstacleIntervalSpeedFactor); err != nil {
		return err
	}
	if err := nonNegative("difficulty.max_speed_scale", d.MaxSpeedScale); err != nil {
		return err
	}
	if d.MaxSpeedScale > 0 && d.MaxSpeedScale < 1 {
		return invalid("difficulty.max_speed_scale must be 0 (unbounded) or >= 1, got %v", d.MaxSpeedScale)
	}
	return nonNegative("difficulty.speed_factor_reference", d.SpeedFactorReference)
}

// Validate checks the player's geometry.
func (p PlayerConfig) Validate() error {
	if err := nonNegative("player.x", p.X); err != nil {
		return err
	}
	if err := positive("player.width", p.Width); err != nil {
		return err
	}
	if err := positive("player.height", p.Height); err != nil {
		return err
	}
	if p.Frames < 0 {
		return invalid("player.frames must be >= 0, got %d", p.Frames)
	}
	return nonNegative("player.frame_duration", p.FrameDuration)
}

// Validate checks that the insets describe a box inside the sprite.
func (c ColliderInsets) Validate() error {
	for _, v := range []float64{c.OffsetX, c.OffsetY} {
		if !(v >= 0 && v <= 1) {
			return invalid("collider offsets must be in [0,1], got %+v", c)
		}
	}
	if !(c.Width > 0 && c.Width <= 1) || !(c.Height > 0 && c.Height <= 1) {
		return invalid("collider sizes must be in (0,1], got %+v", c)
	}
	if c.OffsetX+c.Width > 1 || c.OffsetY+c.Height > 1 {
		return invalid("collider %+v extends outside its sprite", c)
	}
	return nil
}

// Validate rejects an empty catalog and malformed templates.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return invalid("obstacle catalog is empty")
	}
	for i, t := range c {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("obstacles[%d] %q: %w", i, t.ID, err)
		}
	}
	return nil
}

// Validate checks a single or group template.
func (t ObstacleTemplate) Validate() error {
	if t.IsGroup() {
		for i, m := range t.Group {
			if err := m.Validate(); err != nil {
				return fmt.Errorf("group[%d]: %w", i, err)
			}
		}
		return nil
	}
	if err := positive("width", t.Width); err != nil {
		return err
	}
	if err := positive("height", t.Height); err != nil {
		return err
	}
	if t.Collider != nil {
		return t.Collider.Validate()
	}
	return nil
}

// Validate checks a group member.
func (m GroupMember) Validate() error {
	if err := positive("width", m.Width); err != nil {
		return err
	}
	if err := positive("height", m.Height); err != nil {
		return err
	}
	if err := nonNegative("spacing_after", m.SpacingAfter); err != nil {
		return err
	}
	if m.Collider != nil {
		return m.Collider.Validate()
	}
	return nil
}
