package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/protocol"
)

// ConfigError reports an out-of-range configuration value. The value is
// dropped and the handshake keeps waiting for a valid one.
type ConfigError struct {
	Code   protocol.Code
	Arg    int32
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("snake: invalid %s %d: %s", e.Code, e.Arg, e.Reason)
}

// setup accumulates handshake fields until a world can be built.
type setup struct {
	mode     Mode
	duration int
	terrain  Terrain
	width    int
	height   int
}

func (p *setup) complete() bool {
	if p.mode == 0 || p.terrain == 0 {
		return false
	}
	if p.mode == ModeTimed && p.duration == 0 {
		return false
	}
	if p.terrain == TerrainWrap && p.width == 0 {
		return false
	}
	return true
}

// Configure records one handshake field. It reports done once every
// required field is present and the world has been built and reset.
// A *ConfigError leaves the field unset. An error wrapping ErrObstacleMap
// or ErrNoRoom means the world could not be built.
func (s *Session) Configure(code protocol.Code, arg int32) (done bool, err error) {
	if !s.attached {
		return false, ErrUnexpected
	}
	if s.configured {
		return false, fmt.Errorf("%w: %s after configuration", ErrUnexpected, code)
	}

	l := s.limits
	switch code {
	case protocol.CodeSetMode:
		m := Mode(arg)
		if m != ModeStandard && m != ModeTimed {
			return false, &ConfigError{Code: code, Arg: arg, Reason: "unknown mode"}
		}
		s.setup.mode = m
	case protocol.CodeSetTime:
		if int(arg) < l.MinDuration || int(arg) > l.MaxDuration {
			return false, &ConfigError{Code: code, Arg: arg,
				Reason: fmt.Sprintf("duration must be %d..%d seconds", l.MinDuration, l.MaxDuration)}
		}
		s.setup.duration = int(arg)
	case protocol.CodeSetWorld:
		t := Terrain(arg)
		if !t.Valid() {
			return false, &ConfigError{Code: code, Arg: arg, Reason: "unknown terrain"}
		}
		s.setup.terrain = t
	case protocol.CodeSetSize:
		w, h := protocol.UnpackSize(arg)
		if w < l.MinWidth || w > l.MaxWidth || h < l.MinHeight || h > l.MaxHeight {
			return false, &ConfigError{Code: code, Arg: arg,
				Reason: fmt.Sprintf("size %dx%d outside %dx%d..%dx%d", w, h, l.MinWidth, l.MinHeight, l.MaxWidth, l.MaxHeight)}
		}
		s.setup.width, s.setup.height = w, h
	default:
		return false, fmt.Errorf("%w: %s is not a setup command", ErrUnexpected, code)
	}

	if !s.setup.complete() {
		return false, nil
	}

	world, err := s.buildWorld()
	if err != nil {
		return false, err
	}
	mode := s.setup.mode
	duration := 0
	if mode == ModeTimed {
		duration = s.setup.duration
	}
	if err := s.start(world, mode, duration); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) buildWorld() (*World, error) {
	if s.setup.terrain == TerrainWrap {
		return NewWrapWorld(s.setup.width, s.setup.height), nil
	}
	mask, err := OpenObstacles(s.limits.ObstacleMap, ObstacleMapWidth, ObstacleMapHeight)
	if err != nil {
		return nil, err
	}
	return NewObstacleWorld(ObstacleMapWidth, ObstacleMapHeight, mask), nil
}
