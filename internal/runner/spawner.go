package runner

import (
	"math"

	"github.com/vovakirdan/golem-runner/internal/config"
)

// minSpawnMultiplier keeps the cadence from collapsing to zero at top speed.
const minSpawnMultiplier = 0.1

// Spawner places obstacles from a catalog and schedules the next spawn.
type Spawner struct {
	catalog config.Catalog
	cfg     config.DifficultyConfig
	rng     RandSource
	spawnX  float64
	groundY float64
}

// NewSpawner creates a spawner that places obstacles at the canvas' right edge.
func NewSpawner(catalog config.Catalog, cfg config.DifficultyConfig, rng RandSource, canvas Canvas) *Spawner {
	return &Spawner{
		catalog: catalog,
		cfg:     cfg,
		rng:     rng,
		spawnX:  canvas.Width,
		groundY: canvas.GroundY,
	}
}

// Spawn picks a template uniformly at random and places it. Obstacle ids are
// assigned consecutively starting at firstID.
func (s *Spawner) Spawn(firstID uint64) []Obstacle {
	t := s.catalog[s.rng.Intn(len(s.catalog))]
	return s.Place(t, firstID)
}

// Place lays out a template at the spawn edge. Group members follow each
// other left to right, each standing on the ground at its own height.
func (s *Spawner) Place(t config.ObstacleTemplate, firstID uint64) []Obstacle {
	if !t.IsGroup() {
		return []Obstacle{{
			ID:         firstID,
			X:          s.spawnX,
			Y:          s.groundY - t.Height,
			Width:      t.Width,
			Height:     t.Height,
			TemplateID: t.ID,
			Sprite:     t.Sprite,
			Collider:   resolveCollider(t.Collider),
		}}
	}

	out := make([]Obstacle, 0, len(t.Group))
	x := s.spawnX
	for i, m := range t.Group {
		out = append(out, Obstacle{
			ID:         firstID + uint64(i),
			X:          x,
			Y:          s.groundY - m.Height,
			Width:      m.Width,
			Height:     m.Height,
			TemplateID: t.ID,
			Sprite:     m.Sprite,
			Collider:   resolveCollider(m.Collider),
		})
		x += m.Width + m.SpacingAfter
	}
	return out
}

// InitialInterval draws the first spawn delay in milliseconds from the
// configured initial range.
func (s *Spawner) InitialInterval() float64 {
	return s.uniform(s.cfg.InitialMinSpawnIntervalMs, s.cfg.InitialMaxSpawnIntervalMs)
}

// NextInterval draws the delay until the next spawn for the given speed scale.
func (s *Spawner) NextInterval(speedScale float64) float64 {
	lo, hi := IntervalBounds(s.cfg, speedScale)
	return s.uniform(lo, hi)
}

// IntervalBounds returns the range the next spawn delay is drawn from.
// Faster play tightens the range; neither bound drops below the configured
// overall minimum, and an inverted range collapses to its lower bound.
func IntervalBounds(cfg config.DifficultyConfig, speedScale float64) (lo, hi float64) {
	speedFactor := math.Min(1, speedScale/cfg.IntervalReference())
	multiplier := math.Max(minSpawnMultiplier, 1-speedFactor*cfg.ObstacleIntervalSpeedFactor)

	lo = math.Max(cfg.MinOverallSpawnIntervalMs, cfg.InitialMinSpawnIntervalMs*multiplier)
	hi = math.Max(cfg.MinOverallSpawnIntervalMs, cfg.InitialMaxSpawnIntervalMs*multiplier)
	if lo > hi {
		hi = lo
	}
	return lo, hi
}

func (s *Spawner) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}
