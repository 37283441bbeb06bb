// Package snake implements the authoritative snake session: grid geometry,
// the ring-buffer body, fruit placement, and the state machine that the
// server advances once per tick and mutates from client commands.
package snake

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/protocol"
)

// Direction is the snake's travel direction. Values match the wire enum.
type Direction int32

const (
	DirUp    Direction = 1
	DirDown  Direction = 2
	DirLeft  Direction = 3
	DirRight Direction = 4
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return d
	}
}

// Delta returns the one-cell step for d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Mode is the game mode. Values match the wire enum.
type Mode int32

const (
	ModeStandard Mode = 1
	ModeTimed    Mode = 2
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeTimed:
		return "timed"
	default:
		return "unknown"
	}
}

// State is a summary of where the session is in its lifecycle.
type State int

const (
	StateInactive       State = iota // no client attached
	StateAwaitingConfig              // client attached, handshake incomplete
	StateActive
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateAwaitingConfig:
		return "awaiting_config"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Outcome tells the connection layer what a command requires of it.
type Outcome int

const (
	OutcomeNone     Outcome = iota
	OutcomePong             // answer with PONG
	OutcomeStarted          // handshake completed, session is running
	OutcomeClose            // answer with BYE and close the connection
	OutcomeShutdown         // answer with BYE, close, and stop the server
)

var (
	// ErrUnexpected marks a command that is not valid in the current state.
	// It is never fatal.
	ErrUnexpected = errors.New("snake: unexpected command")

	// ErrNoRoom is returned when no free run of cells can hold a new snake.
	ErrNoRoom = errors.New("snake: no room to place snake")
)

const initialLength = 3

// Limits bounds what a client may configure and tunes the simulation.
type Limits struct {
	MinWidth, MaxWidth       int
	MinHeight, MaxHeight     int
	MinDuration, MaxDuration int // seconds
	FruitReward              int
	SpawnAttempts            int
	ObstacleMap              string // empty for the built-in map
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{
		MinWidth:      10,
		MaxWidth:      60,
		MinHeight:     10,
		MaxHeight:     40,
		MinDuration:   10,
		MaxDuration:   3600,
		FruitReward:   10,
		SpawnAttempts: 100,
	}
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithRand replaces the random source used for placement.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// Session is the single authoritative game state of the server.
// It is not safe for concurrent use; the server serializes access.
type Session struct {
	limits Limits
	now    func() time.Time
	rng    *rand.Rand

	attached   bool
	configured bool
	setup      setup

	world *World
	body  *Body
	free  int // non-wall cells of world
	fruit core.Point

	score       int
	dir         Direction
	requested   Direction
	growPending int
	mode        Mode
	duration    int // seconds, timed mode only

	started      time.Time
	paused       bool
	pauseStarted time.Time
	pausedTotal  time.Duration
	gameOver     bool
}

// NewSession creates an inactive session.
func NewSession(limits Limits, opts ...Option) *Session {
	s := &Session{
		limits: limits,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // gameplay randomness
	}
	return s
}

// Begin attaches a new client. Any previous world is dropped and the
// configuration handshake starts from scratch.
func (s *Session) Begin() {
	s.attached = true
	s.configured = false
	s.setup = setup{}
	s.world = nil
	s.body = nil
}

// End detaches the client and tears the session down.
func (s *Session) End() {
	s.attached = false
	s.configured = false
	s.paused = false
}

// Running reports whether a client is attached and configuration is done.
func (s *Session) Running() bool {
	return s.attached && s.configured
}

// State returns the lifecycle state.
func (s *Session) State() State {
	switch {
	case !s.attached:
		return StateInactive
	case !s.configured:
		return StateAwaitingConfig
	case s.gameOver:
		return StateGameOver
	case s.paused:
		return StatePaused
	default:
		return StateActive
	}
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// GameOver reports whether the current round has ended.
func (s *Session) GameOver() bool {
	return s.gameOver
}

// Paused reports whether the session is paused.
func (s *Session) Paused() bool {
	return s.paused
}

// Mode returns the configured game mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// World returns the configured world, or nil before configuration.
func (s *Session) World() *World {
	return s.world
}

// Apply handles one client command. A *ConfigError or ErrUnexpected means
// the command was ignored and the connection should carry on; any other
// error is fatal to the connection.
func (s *Session) Apply(cmd protocol.Command) (Outcome, error) {
	switch cmd.Code {
	case protocol.CodePing:
		return OutcomePong, nil
	case protocol.CodeQuit:
		return OutcomeShutdown, nil
	case protocol.CodeBackToMenu:
		return OutcomeClose, nil
	}

	if !s.attached {
		return OutcomeNone, ErrUnexpected
	}

	if cmd.Code.IsSetup() {
		done, err := s.Configure(cmd.Code, cmd.Arg)
		if done {
			return OutcomeStarted, nil
		}
		return OutcomeNone, err
	}

	if !s.configured {
		return OutcomeNone, fmt.Errorf("%w: %s before configuration", ErrUnexpected, cmd.Code)
	}

	switch cmd.Code {
	case protocol.CodeDir:
		return OutcomeNone, s.steer(Direction(cmd.Arg))
	case protocol.CodeTogglePause:
		s.togglePause()
		return OutcomeNone, nil
	case protocol.CodeRestart:
		return OutcomeNone, s.Reset()
	default:
		return OutcomeNone, fmt.Errorf("%w: %s", ErrUnexpected, cmd.Code)
	}
}

// steer records a direction request for the next tick. Reversing onto the
// body is ignored.
func (s *Session) steer(d Direction) error {
	if !d.Valid() {
		return fmt.Errorf("%w: direction %d", ErrUnexpected, int32(d))
	}
	if s.body.Len() > 1 && d == s.dir.Opposite() {
		return nil
	}
	s.requested = d
	return nil
}

func (s *Session) togglePause() {
	if s.gameOver {
		return
	}
	now := s.now()
	if s.paused {
		s.pausedTotal += now.Sub(s.pauseStarted)
		s.pauseStarted = time.Time{}
		s.paused = false
		return
	}
	s.paused = true
	s.pauseStarted = now
}

// start installs a world and performs the initial reset.
func (s *Session) start(w *World, mode Mode, duration int) error {
	s.world = w
	s.body = NewBody(w.Width * w.Height)
	s.free = freeCells(w)
	s.mode = mode
	s.duration = duration
	if err := s.Reset(); err != nil {
		return err
	}
	s.configured = true
	return nil
}

// Reset starts a fresh round on the configured world: score, timers and
// growth are cleared, a new snake is placed and a fruit spawned.
func (s *Session) Reset() error {
	if s.world == nil {
		return ErrUnexpected
	}

	head, ok := s.placeSnake()
	if !ok {
		return ErrNoRoom
	}

	s.score = 0
	s.growPending = 0
	s.gameOver = false
	s.paused = false
	s.pauseStarted = time.Time{}
	s.pausedTotal = 0
	s.dir = DirRight
	s.requested = DirRight

	s.body.Reset()
	for i := initialLength - 1; i >= 0; i-- {
		s.body.PushHead(head.Add(-i, 0), true)
	}
	s.fruit = spawnFruit(s.rng, s.world, s.body)
	s.started = s.now()
	return nil
}

// placeSnake picks the head of a horizontal 3-cell snake heading right:
// the grid centre when it is clear, otherwise random spots, otherwise the
// first clear run found by scanning.
func (s *Session) placeSnake() (core.Point, bool) {
	w := s.world
	head := core.Point{X: w.Width / 2, Y: w.Height / 2}
	if s.fits(head) {
		return head, true
	}

	if w.Width > initialLength-1 {
		for range s.limits.SpawnAttempts {
			head = core.Point{
				X: initialLength - 1 + s.rng.Intn(w.Width-(initialLength-1)),
				Y: s.rng.Intn(w.Height),
			}
			if s.fits(head) {
				return head, true
			}
		}
	}

	for y := range w.Height {
		for x := initialLength - 1; x < w.Width; x++ {
			head = core.Point{X: x, Y: y}
			if s.fits(head) {
				return head, true
			}
		}
	}
	return core.Point{}, false
}

func (s *Session) fits(head core.Point) bool {
	for i := range initialLength {
		p := head.Add(-i, 0)
		if !s.world.InBounds(p.X, p.Y) || s.world.IsBlocked(p.X, p.Y) {
			return false
		}
	}
	return true
}

// Tick advances the simulation by one step. It does nothing unless the
// session is running, unpaused and not over.
func (s *Session) Tick() {
	if !s.Running() || s.paused || s.gameOver {
		return
	}

	if s.body.Len() <= 1 || s.requested != s.dir.Opposite() {
		s.dir = s.requested
	}

	dx, dy := s.dir.Delta()
	next := s.body.Head().Add(dx, dy)

	switch s.world.Terrain {
	case TerrainWrap:
		next = next.Wrap(s.world.Width, s.world.Height)
	case TerrainObstacles:
		if s.world.IsBlocked(next.X, next.Y) {
			s.gameOver = true
			return
		}
	}

	if s.body.Contains(next, s.growPending == 0) {
		s.gameOver = true
		return
	}

	ate := next == s.fruit
	if ate {
		s.score += s.limits.FruitReward
		s.growPending++
	}

	grow := s.growPending > 0
	if grow {
		s.growPending--
	}
	s.body.PushHead(next, grow)

	if ate {
		if s.body.Len() >= s.free {
			// Board is full; nowhere left to put a fruit.
			s.gameOver = true
			return
		}
		s.fruit = spawnFruit(s.rng, s.world, s.body)
	}
}

// CheckTimeout ends a timed session whose time has run out. It reports
// whether the session ended on this call.
func (s *Session) CheckTimeout() bool {
	if !s.Running() || s.mode != ModeTimed || s.gameOver {
		return false
	}
	if s.TimeLeftSeconds() > 0 {
		return false
	}
	s.gameOver = true
	return true
}

// Elapsed returns play time since the last reset, not counting pauses.
func (s *Session) Elapsed() time.Duration {
	if !s.configured {
		return 0
	}
	now := s.now()
	e := now.Sub(s.started) - s.pausedTotal
	if s.paused {
		e -= now.Sub(s.pauseStarted)
	}
	return max(e, 0)
}

// ElapsedSeconds returns Elapsed in whole seconds.
func (s *Session) ElapsedSeconds() int32 {
	return int32(s.Elapsed() / time.Second) //nolint:gosec // bounded by session length
}

// TimeLeftSeconds returns the remaining seconds of a timed session,
// floored at zero, or -1 in standard mode.
func (s *Session) TimeLeftSeconds() int32 {
	if s.mode != ModeTimed {
		return -1
	}
	return max(int32(s.duration)-s.ElapsedSeconds(), 0) //nolint:gosec // duration is range-checked
}

// Snapshot captures the state for transmission, body head first.
func (s *Session) Snapshot() protocol.Snapshot {
	snap := protocol.Snapshot{
		Mode:     int32(s.mode),
		Score:    int32(s.score), //nolint:gosec // bounded by board size
		Paused:   s.paused,
		GameOver: s.gameOver,
		Elapsed:  s.ElapsedSeconds(),
		TimeLeft: s.TimeLeftSeconds(),
	}
	if s.world == nil {
		return snap
	}

	snap.Width = int32(s.world.Width)   //nolint:gosec // range-checked
	snap.Height = int32(s.world.Height) //nolint:gosec // range-checked
	snap.FruitX = int32(s.fruit.X)      //nolint:gosec // in bounds
	snap.FruitY = int32(s.fruit.Y)      //nolint:gosec // in bounds
	snap.Snake = make([]protocol.Point, s.body.Len())
	for i := range snap.Snake {
		p := s.body.At(i)
		snap.Snake[i] = protocol.Point{X: int16(p.X), Y: int16(p.Y)} //nolint:gosec // in bounds
	}
	return snap
}
