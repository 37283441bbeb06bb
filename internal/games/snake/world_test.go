package snake

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
)

func TestLoadObstacles(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		w, h    int
		wantErr bool
		blocked []core.Point
	}{
		{
			name:    "exact",
			src:     "#..\n.#.\n..#\n",
			w:       3,
			h:       3,
			blocked: []core.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}},
		},
		{
			name:    "crlf and extra columns",
			src:     "#...x\r\n...##\r\n",
			w:       3,
			h:       2,
			blocked: []core.Point{{X: 0, Y: 0}},
		},
		{
			name:    "extra rows ignored",
			src:     "..\n..\n##\n",
			w:       2,
			h:       2,
			blocked: nil,
		},
		{name: "short row", src: "...\n..\n", w: 3, h: 2, wantErr: true},
		{name: "too few rows", src: "...\n", w: 3, h: 2, wantErr: true},
		{name: "empty", src: "", w: 3, h: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask, err := LoadObstacles(strings.NewReader(tt.src), tt.w, tt.h)
			if tt.wantErr {
				if !errors.Is(err, ErrObstacleMap) {
					t.Fatalf("err = %v, want ErrObstacleMap", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadObstacles: %v", err)
			}
			w := NewObstacleWorld(tt.w, tt.h, mask)
			count := 0
			for y := range tt.h {
				for x := range tt.w {
					if w.IsBlocked(x, y) {
						count++
					}
				}
			}
			if count != len(tt.blocked) {
				t.Errorf("blocked cells = %d, want %d", count, len(tt.blocked))
			}
			for _, p := range tt.blocked {
				if !w.IsBlocked(p.X, p.Y) {
					t.Errorf("%v not blocked", p)
				}
			}
		})
	}
}

func TestBuiltinObstacles(t *testing.T) {
	mask, err := OpenObstacles("", ObstacleMapWidth, ObstacleMapHeight)
	if err != nil {
		t.Fatalf("OpenObstacles: %v", err)
	}
	w := NewObstacleWorld(ObstacleMapWidth, ObstacleMapHeight, mask)
	cx, cy := w.Width/2, w.Height/2
	for x := cx - 2; x <= cx; x++ {
		if w.IsBlocked(x, cy) {
			t.Errorf("spawn cell (%d,%d) is blocked", x, cy)
		}
	}
	if freeCells(w) == w.Width*w.Height {
		t.Error("built-in map has no obstacles")
	}
}

func TestOpenObstaclesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.txt")
	if err := os.WriteFile(path, []byte("#.\n.#\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mask, err := OpenObstacles(path, 2, 2)
	if err != nil {
		t.Fatalf("OpenObstacles: %v", err)
	}
	if !mask[0] || mask[1] || mask[2] || !mask[3] {
		t.Errorf("mask = %v", mask)
	}

	if _, err := OpenObstacles(filepath.Join(t.TempDir(), "nope.txt"), 2, 2); !errors.Is(err, ErrObstacleMap) {
		t.Errorf("missing file err = %v, want ErrObstacleMap", err)
	}
}

func TestIsBlocked(t *testing.T) {
	wrap := NewWrapWorld(5, 5)
	obst := NewObstacleWorld(5, 5, make([]bool, 25))

	tests := []struct {
		x, y     int
		wrapWant bool
		obstWant bool
	}{
		{0, 0, false, false},
		{4, 4, false, false},
		{-1, 0, false, true},
		{5, 2, false, true},
		{2, -1, false, true},
		{2, 5, false, true},
	}
	for _, tt := range tests {
		if got := wrap.IsBlocked(tt.x, tt.y); got != tt.wrapWant {
			t.Errorf("wrap.IsBlocked(%d,%d) = %v", tt.x, tt.y, got)
		}
		if got := obst.IsBlocked(tt.x, tt.y); got != tt.obstWant {
			t.Errorf("obstacles.IsBlocked(%d,%d) = %v", tt.x, tt.y, got)
		}
	}
}

func TestSpawnFruitAvoidsBodyAndWalls(t *testing.T) {
	mask := make([]bool, 6*6)
	for i := 0; i < 6; i++ {
		mask[i] = true // top row walled
	}
	w := NewObstacleWorld(6, 6, mask)
	b := NewBody(36)
	for x := range 6 {
		b.PushHead(core.Point{X: x, Y: 1}, true)
	}

	rng := rand.New(rand.NewSource(42))
	for range 200 {
		p := spawnFruit(rng, w, b)
		if p.Y <= 1 {
			t.Fatalf("fruit at %v landed on a wall or the body", p)
		}
		if !w.InBounds(p.X, p.Y) {
			t.Fatalf("fruit at %v out of bounds", p)
		}
	}
	if got := freeCells(w); got != 30 {
		t.Errorf("freeCells = %d, want 30", got)
	}
}
