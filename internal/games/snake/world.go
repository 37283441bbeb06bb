package snake

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
)

// Terrain selects how the grid edges behave.
type Terrain int32

const (
	TerrainWrap      Terrain = 1 // edges wrap around, no obstacles
	TerrainObstacles Terrain = 2 // edges are walls, plus a fixed obstacle map
)

// String returns a lowercase name for the terrain.
func (t Terrain) String() string {
	switch t {
	case TerrainWrap:
		return "wrap"
	case TerrainObstacles:
		return "obstacles"
	default:
		return "unknown"
	}
}

// Valid reports whether t is a known terrain.
func (t Terrain) Valid() bool {
	return t == TerrainWrap || t == TerrainObstacles
}

// Size of every obstacle map. OBSTACLES terrain always uses this size.
const (
	ObstacleMapWidth  = 45
	ObstacleMapHeight = 30
)

// ErrObstacleMap is returned when an obstacle map is missing or malformed.
var ErrObstacleMap = errors.New("snake: obstacle map unavailable")

//go:embed maps/obstacles_45x30.txt
var builtinObstacles []byte

// World is the static grid geometry of one configured session.
type World struct {
	Width   int
	Height  int
	Terrain Terrain

	mask []bool // width*height, row-major; nil for wrap terrain
}

// NewWrapWorld creates an obstacle-free world whose edges wrap.
func NewWrapWorld(width, height int) *World {
	return &World{Width: width, Height: height, Terrain: TerrainWrap}
}

// NewObstacleWorld creates a walled world from a loaded obstacle mask.
func NewObstacleWorld(width, height int, mask []bool) *World {
	return &World{Width: width, Height: height, Terrain: TerrainObstacles, mask: mask}
}

// InBounds reports whether (x, y) lies on the grid.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.Width && y >= 0 && y < w.Height
}

// IsBlocked reports whether (x, y) is a wall. With obstacle terrain every
// cell outside the grid is a wall. Wrap terrain has no walls; coordinates
// must be normalized by the caller.
func (w *World) IsBlocked(x, y int) bool {
	if w.Terrain != TerrainObstacles {
		return false
	}
	if !w.InBounds(x, y) {
		return true
	}
	return w.mask != nil && w.mask[y*w.Width+x]
}

// LoadObstacles parses a character map where '#' marks a blocked cell and
// anything else is free. The source must provide at least height rows of
// at least width columns; extra rows and columns are ignored.
func LoadObstacles(r io.Reader, width, height int) ([]bool, error) {
	mask := make([]bool, width*height)
	sc := bufio.NewScanner(r)

	y := 0
	for y < height && sc.Scan() {
		line := bytes.TrimRight(sc.Bytes(), "\r")
		if len(line) < width {
			return nil, fmt.Errorf("%w: row %d has %d columns, need %d", ErrObstacleMap, y, len(line), width)
		}
		for x := 0; x < width; x++ {
			mask[y*width+x] = line[x] == '#'
		}
		y++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrObstacleMap, err)
	}
	if y < height {
		return nil, fmt.Errorf("%w: %d rows, need %d", ErrObstacleMap, y, height)
	}
	return mask, nil
}

// OpenObstacles loads the obstacle map at path, or the built-in map when
// path is empty.
func OpenObstacles(path string, width, height int) ([]bool, error) {
	if path == "" {
		return LoadObstacles(bytes.NewReader(builtinObstacles), width, height)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrObstacleMap, err)
	}
	defer f.Close()

	return LoadObstacles(f, width, height)
}
