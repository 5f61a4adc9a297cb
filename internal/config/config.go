// Package config provides YAML-based run configuration loading, difficulty
// presets and validation for the runner.
package config

// RunnerConfig contains all configuration for a run.
type RunnerConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Player     PlayerConfig     `yaml:"player"`
	Canvas     CanvasConfig     `yaml:"canvas"`
	// Obstacles replaces the selected theme's catalog when non-empty.
	Obstacles Catalog `yaml:"obstacles"`
}

// PhysicsConfig defines the player's vertical motion and the scroll speed.
// Units are canvas pixels and seconds.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`       // px/s² pulling the player down
	JumpForce    float64 `yaml:"jump_force"`    // initial upward speed in px/s
	BaseSpeed    float64 `yaml:"base_speed"`    // scroll speed at speed scale 1
	GroundOffset float64 `yaml:"ground_offset"` // ground line distance from canvas bottom
}

// GroundY returns the ground line for a canvas of the given height.
func (p PhysicsConfig) GroundY(canvasHeight float64) float64 {
	return canvasHeight - p.GroundOffset
}

// DifficultyConfig defines how speed and obstacle cadence escalate.
type DifficultyConfig struct {
	SpeedScaleIncrementPerSecond float64 `yaml:"speed_scale_increment_per_second"`
	InitialMinSpawnIntervalMs    float64 `yaml:"initial_min_spawn_interval_ms"`
	InitialMaxSpawnIntervalMs    float64 `yaml:"initial_max_spawn_interval_ms"`
	MinOverallSpawnIntervalMs    float64 `yaml:"min_overall_spawn_interval_ms"`
	ObstacleIntervalSpeedFactor  float64 `yaml:"obstacle_interval_speed_factor"`
	MaxSpeedScale                float64 `yaml:"max_speed_scale"`        // 0 = unbounded
	SpeedFactorReference         float64 `yaml:"speed_factor_reference"` // divisor when MaxSpeedScale is unset
}

// DefaultSpeedFactorReference is the speed scale treated as "full speed" by
// the spawn interval formula when no ceiling is configured.
const DefaultSpeedFactorReference = 2.5

// IntervalReference returns the divisor used to normalize speed scale in the
// spawn interval formula.
func (d DifficultyConfig) IntervalReference() float64 {
	if d.MaxSpeedScale > 0 {
		return d.MaxSpeedScale
	}
	if d.SpeedFactorReference > 0 {
		return d.SpeedFactorReference
	}
	return DefaultSpeedFactorReference
}

// PlayerConfig defines the player's fixed geometry and run animation.
type PlayerConfig struct {
	X             float64 `yaml:"x"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Frames        int     `yaml:"frames"`         // run-cycle frame count
	FrameDuration float64 `yaml:"frame_duration"` // seconds per frame
}

// CanvasConfig is the logical canvas the simulation runs on. Hosts scale it to
// whatever surface they draw on.
type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ColliderInsets are fractional offsets and sizes of a hit box relative to
// the sprite box.
type ColliderInsets struct {
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

// DefaultObstacleCollider is applied to obstacles whose template carries no
// collider of its own.
var DefaultObstacleCollider = ColliderInsets{OffsetX: 0.20, OffsetY: 0.20, Width: 0.60, Height: 0.60}

// ObstacleTemplate is a catalog entry: either a single obstacle or a group of
// members spawned together. A template with a non-empty Group is a group and
// its own size fields are ignored.
type ObstacleTemplate struct {
	ID       string          `yaml:"id"`
	Sprite   string          `yaml:"sprite"`
	Width    float64         `yaml:"width"`
	Height   float64         `yaml:"height"`
	Collider *ColliderInsets `yaml:"collider,omitempty"`
	Group    []GroupMember   `yaml:"group,omitempty"`
}

// IsGroup reports whether the template spawns several members.
func (t ObstacleTemplate) IsGroup() bool {
	return len(t.Group) > 0
}

// GroupMember is one obstacle inside a group template.
type GroupMember struct {
	Sprite       string          `yaml:"sprite"`
	Width        float64         `yaml:"width"`
	Height       float64         `yaml:"height"`
	Collider     *ColliderInsets `yaml:"collider,omitempty"`
	SpacingAfter float64         `yaml:"spacing_after"`
}

// Catalog is the set of templates a spawner draws from.
type Catalog []ObstacleTemplate

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)
