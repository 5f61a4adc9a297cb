package runner

import "github.com/vovakirdan/golem-runner/internal/config"

// Physics integrates the player's vertical motion.
type Physics struct {
	gravity   float64
	jumpForce float64
}

// NewPhysics creates an integrator from validated physics tuning.
func NewPhysics(cfg config.PhysicsConfig) Physics {
	return Physics{
		gravity:   cfg.Gravity,
		jumpForce: cfg.JumpForce,
	}
}

// Jump applies the jump impulse. Returns false if the player is already airborne.
func (ph Physics) Jump(p *PlayerState) bool {
	if p.IsJumping {
		return false
	}
	p.IsJumping = true
	p.VelocityY = -ph.jumpForce
	return true
}

// Integrate advances an airborne player by dt seconds (semi-implicit Euler)
// and lands it on groundY. Grounded players are left untouched.
func (ph Physics) Integrate(p *PlayerState, dt, groundY float64) {
	if !p.IsJumping {
		return
	}

	p.VelocityY += ph.gravity * dt
	p.Y += p.VelocityY * dt

	// Landed
	if p.Y+p.Height >= groundY {
		p.Y = groundY - p.Height
		p.VelocityY = 0
		p.IsJumping = false
	}
}

// AirTime is the continuous-time duration of a jump from the ground back to it.
func (ph Physics) AirTime() float64 {
	return 2 * ph.jumpForce / ph.gravity
}

// animate advances the run cycle. frames <= 1 or a zero duration disables it.
func animate(p *PlayerState, dt float64, frames int, frameDuration float64) {
	if frames <= 1 || frameDuration <= 0 {
		return
	}
	p.FrameElapsed += dt
	for p.FrameElapsed >= frameDuration {
		p.FrameElapsed -= frameDuration
		p.Frame = (p.Frame + 1) % frames
	}
}
