package snake

import "github.com/vovakirdan/tui-snake/internal/core"

// Body is the snake from head to tail stored in a fixed-capacity ring.
// The capacity is the number of grid cells, an upper bound on any snake
// length, so moving and growing never reallocate.
type Body struct {
	cells []core.Point
	head  int // index of the head in cells
	n     int // live cells starting at head
}

// NewBody allocates a body able to hold capacity cells.
func NewBody(capacity int) *Body {
	return &Body{cells: make([]core.Point, max(1, capacity))}
}

// Len returns the number of live cells.
func (b *Body) Len() int {
	return b.n
}

// Cap returns the fixed capacity.
func (b *Body) Cap() int {
	return len(b.cells)
}

// At returns the i-th cell counted from the head.
func (b *Body) At(i int) core.Point {
	return b.cells[(b.head+i)%len(b.cells)]
}

// Head returns the head cell.
func (b *Body) Head() core.Point {
	return b.cells[b.head]
}

// Tail returns the last live cell.
func (b *Body) Tail() core.Point {
	return b.At(b.n - 1)
}

// Reset empties the body, keeping the arena.
func (b *Body) Reset() {
	b.head = 0
	b.n = 0
}

// PushHead writes p in front of the current head. With grow the length
// increases by one (up to the capacity); otherwise the old tail leaves the
// live window, which is how the snake moves.
func (b *Body) PushHead(p core.Point, grow bool) {
	b.head = core.Mod(b.head-1, len(b.cells))
	b.cells[b.head] = p
	if b.n == 0 || (grow && b.n < len(b.cells)) {
		b.n++
	}
}

// Contains reports whether p is a live cell. With exemptTail the current
// tail is skipped, since it is vacated by a move that does not grow.
func (b *Body) Contains(p core.Point, exemptTail bool) bool {
	n := b.n
	if exemptTail && n > 0 {
		n--
	}
	for i := range n {
		if b.At(i) == p {
			return true
		}
	}
	return false
}

// AppendTo appends the live cells head first to dst.
func (b *Body) AppendTo(dst []core.Point) []core.Point {
	for i := range b.n {
		dst = append(dst, b.At(i))
	}
	return dst
}
