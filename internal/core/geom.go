// Package core provides the small value types shared by the snake server
// and its terminal client. It has no external dependencies so the
// simulation stays pure and testable.
package core

// Point is a cell coordinate on the game grid.
type Point struct {
	X, Y int
}

// Add returns p moved by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Wrap normalizes p onto a width x height torus.
func (p Point) Wrap(width, height int) Point {
	return Point{X: Mod(p.X, width), Y: Mod(p.Y, height)}
}

// Mod returns the non-negative remainder of a divided by n.
func Mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
