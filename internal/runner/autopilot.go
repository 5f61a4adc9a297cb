package runner

// DefaultAutopilotLead is how far ahead, in seconds of travel, the autopilot
// looks before jumping.
const DefaultAutopilotLead = 0.15

// Autopilot is a simple bot that jumps when the next obstacle is close.
// The sim command and the demo screen use it.
type Autopilot struct {
	Lead float64 // seconds of travel; <= 0 uses DefaultAutopilotLead
}

// ShouldJump reports whether the bot would jump given the snapshot.
func (a Autopilot) ShouldJump(s Snapshot) bool {
	if s.State != StatePlaying || s.Player.IsJumping {
		return false
	}
	lead := a.Lead
	if lead <= 0 {
		lead = DefaultAutopilotLead
	}

	gap, ok := nextGap(s.Player, s.Obstacles)
	if !ok {
		return false
	}
	return gap >= 0 && gap <= s.Metrics.ActualSpeed*lead
}

// Drive jumps on g's behalf when ShouldJump says so.
func (a Autopilot) Drive(g *Game) bool {
	if !a.ShouldJump(g.Snapshot()) {
		return false
	}
	return g.Jump()
}

// nextGap returns the horizontal distance from the player's hit box to the
// nearest obstacle hit box that has not yet passed it.
func nextGap(p PlayerState, obstacles []Obstacle) (float64, bool) {
	pc := PlayerCollider(p)
	best, found := 0.0, false
	for _, o := range obstacles {
		oc := ObstacleCollider(o)
		if oc.Right() <= pc.X {
			continue
		}
		gap := oc.X - pc.Right()
		if !found || gap < best {
			best, found = gap, true
		}
	}
	return best, found
}
