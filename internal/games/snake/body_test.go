package snake

import (
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
)

func TestBodyMoveAndGrow(t *testing.T) {
	b := NewBody(4)
	b.PushHead(core.Point{X: 0}, true)
	b.PushHead(core.Point{X: 1}, true)
	b.PushHead(core.Point{X: 2}, true)

	if b.Len() != 3 || b.Head() != (core.Point{X: 2}) || b.Tail() != (core.Point{X: 0}) {
		t.Fatalf("len=%d head=%v tail=%v", b.Len(), b.Head(), b.Tail())
	}

	b.PushHead(core.Point{X: 3}, false)
	if b.Len() != 3 || b.Tail() != (core.Point{X: 1}) {
		t.Errorf("after move: len=%d tail=%v", b.Len(), b.Tail())
	}

	// Wraps the ring several times without growing past capacity.
	for i := 4; i < 20; i++ {
		b.PushHead(core.Point{X: i}, true)
	}
	if b.Len() != b.Cap() {
		t.Errorf("len = %d, want capacity %d", b.Len(), b.Cap())
	}
	got := b.AppendTo(nil)
	want := []core.Point{{X: 19}, {X: 18}, {X: 17}, {X: 16}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBodyContains(t *testing.T) {
	b := NewBody(10)
	for x := range 3 {
		b.PushHead(core.Point{X: x}, true)
	}
	tail := core.Point{X: 0}
	if !b.Contains(tail, false) {
		t.Error("tail not found")
	}
	if b.Contains(tail, true) {
		t.Error("tail found with exemptTail")
	}
	if !b.Contains(core.Point{X: 2}, true) {
		t.Error("head not found with exemptTail")
	}
	if b.Contains(core.Point{X: 5}, false) {
		t.Error("absent cell found")
	}

	b.Reset()
	if b.Len() != 0 || b.Contains(core.Point{X: 2}, false) {
		t.Error("reset body still has cells")
	}
}
