package protocol

import (
	"io"
)

// Point is a snake body cell as carried on the wire.
type Point struct {
	X, Y int16
}

// Snapshot is the state the server broadcasts once per tick.
type Snapshot struct {
	Width    int32
	Height   int32
	Score    int32
	Paused   bool
	GameOver bool
	FruitX   int32
	FruitY   int32
	Mode     int32
	Elapsed  int32 // seconds
	TimeLeft int32 // seconds, -1 when not a timed session
	Snake    []Point
}

// AppendSnapshot appends a complete SNAPSHOT response (header, body and
// head-first point records) to dst.
func AppendSnapshot(dst []byte, s *Snapshot) []byte {
	dst = putInt32(dst, int32(RespSnapshot))
	dst = putInt32(dst, s.Width)
	dst = putInt32(dst, s.Height)
	dst = putInt32(dst, s.Score)
	dst = putInt32(dst, boolInt(s.Paused))
	dst = putInt32(dst, boolInt(s.GameOver))
	dst = putInt32(dst, s.FruitX)
	dst = putInt32(dst, s.FruitY)
	dst = putInt32(dst, int32(len(s.Snake))) //nolint:gosec // bounded by board size
	dst = putInt32(dst, s.Mode)
	dst = putInt32(dst, s.Elapsed)
	dst = putInt32(dst, s.TimeLeft)
	for _, p := range s.Snake {
		dst = order.AppendUint16(dst, uint16(p.X)) //nolint:gosec // bit reinterpretation
		dst = order.AppendUint16(dst, uint16(p.Y)) //nolint:gosec // bit reinterpretation
	}
	return dst
}

// ReadSnapshot reads a snapshot body and its point records from r. The
// SNAPSHOT response header must already have been consumed.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var body [SnapshotSize]byte
	if err := readFull(r, body[:]); err != nil {
		return Snapshot{}, err
	}

	field := func(i int) int32 {
		return int32(order.Uint32(body[i*4 : i*4+4])) //nolint:gosec // bit reinterpretation
	}

	s := Snapshot{
		Width:    field(0),
		Height:   field(1),
		Score:    field(2),
		Paused:   field(3) != 0,
		GameOver: field(4) != 0,
		FruitX:   field(5),
		FruitY:   field(6),
		Mode:     field(8),
		Elapsed:  field(9),
		TimeLeft: field(10),
	}

	n := field(7)
	if n < 0 || n > MaxPoints {
		return Snapshot{}, ErrTooManyPoints
	}

	pts := make([]byte, int(n)*PointSize)
	if err := readFull(r, pts); err != nil {
		return Snapshot{}, err
	}
	s.Snake = make([]Point, n)
	for i := range s.Snake {
		off := i * PointSize
		s.Snake[i] = Point{
			X: int16(order.Uint16(pts[off : off+2])),   //nolint:gosec // bit reinterpretation
			Y: int16(order.Uint16(pts[off+2 : off+4])), //nolint:gosec // bit reinterpretation
		}
	}
	return s, nil
}

func putInt32(dst []byte, v int32) []byte {
	return order.AppendUint32(dst, uint32(v)) //nolint:gosec // bit reinterpretation
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
