package snake

import (
	"math/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// spawnFruit draws uniformly random cells until one is neither a wall nor
// part of the body. There is no attempt limit; callers make sure at least
// one free cell exists.
func spawnFruit(rng *rand.Rand, w *World, b *Body) core.Point {
	for {
		p := core.Point{X: rng.Intn(w.Width), Y: rng.Intn(w.Height)}
		if w.IsBlocked(p.X, p.Y) || b.Contains(p, false) {
			continue
		}
		return p
	}
}

// freeCells counts the cells of w that are not walls.
func freeCells(w *World) int {
	n := 0
	for y := range w.Height {
		for x := range w.Width {
			if !w.IsBlocked(x, y) {
				n++
			}
		}
	}
	return n
}
