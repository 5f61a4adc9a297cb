package runner

import (
	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/core"
)

// Hit box ratios. These define how forgiving near misses are; changing them
// changes game feel and replay outcomes.
const (
	playerColliderOffsetX = 0.35
	playerColliderOffsetY = 0.15
	playerColliderWidth   = 0.35
	playerColliderHeight  = 0.70
)

// PlayerCollider returns the player's inset hit box.
func PlayerCollider(p PlayerState) core.RectF {
	return p.Bounds().Inset(playerColliderOffsetX, playerColliderOffsetY, playerColliderWidth, playerColliderHeight)
}

// ObstacleCollider returns an obstacle's inset hit box.
func ObstacleCollider(o Obstacle) core.RectF {
	c := o.Collider
	return o.Bounds().Inset(c.OffsetX, c.OffsetY, c.Width, c.Height)
}

// resolveCollider picks the template's collider or the shared default.
func resolveCollider(c *config.ColliderInsets) config.ColliderInsets {
	if c == nil {
		return config.DefaultObstacleCollider
	}
	return *c
}

// Collides reports whether the player's and the obstacle's hit boxes overlap.
func Collides(p PlayerState, o Obstacle) bool {
	return PlayerCollider(p).Intersects(ObstacleCollider(o))
}

// FirstHit returns the first obstacle whose hit box overlaps the player's.
func FirstHit(p PlayerState, obstacles []Obstacle) (Obstacle, bool) {
	pc := PlayerCollider(p)
	for _, o := range obstacles {
		if pc.Intersects(ObstacleCollider(o)) {
			return o, true
		}
	}
	return Obstacle{}, false
}
