// Package core provides fundamental types and utilities shared by the runner
// simulation and its hosts. It has no external dependencies (especially no
// Bubble Tea) so the simulation stays pure and testable.
package core

// RectF is an axis-aligned box in world units (pixels of the logical canvas).
// Used for collision detection by the simulation.
type RectF struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// NewRectF creates a rectangle with the given position and dimensions.
func NewRectF(x, y, w, h float64) RectF {
	return RectF{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r RectF) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r RectF) Bottom() float64 {
	return r.Y + r.H
}

// Intersects reports whether the two boxes overlap on both axes.
// Boxes that only touch along an edge do not intersect.
func (r RectF) Intersects(other RectF) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Inset returns the sub-rectangle described by fractional offsets and sizes
// relative to this rectangle's dimensions.
func (r RectF) Inset(offX, offY, fracW, fracH float64) RectF {
	return RectF{
		X: r.X + offX*r.W,
		Y: r.Y + offY*r.H,
		W: fracW * r.W,
		H: fracH * r.H,
	}
}

// Rect is an integer rectangle in screen cells, used by Screen drawing.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new cell rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
