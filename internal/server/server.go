// Package server runs the snake session for one remote client at a time:
// it accepts a connection, applies the client's commands, and streams
// snapshots on a fixed tick until the client leaves.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/protocol"
)

// Config holds the server settings.
type Config struct {
	TickInterval time.Duration
	Limits       snake.Limits
}

// DefaultConfig returns a 100 ms tick with the stock limits.
func DefaultConfig() Config {
	return Config{
		TickInterval: 100 * time.Millisecond,
		Limits:       snake.DefaultLimits(),
	}
}

// Server owns the single game session.
type Server struct {
	cfg    Config
	logger *log.Logger

	mu      sync.Mutex // guards session
	session *snake.Session
}

// New creates a server. Session options are passed through, which lets
// tests pin the clock and random source.
func New(cfg Config, logger *log.Logger, opts ...snake.Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	return &Server{
		cfg:     cfg,
		logger:  logger,
		session: snake.NewSession(cfg.Limits, opts...),
	}
}

// State returns the session state.
func (s *Server) State() snake.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.State()
}

// Serve accepts connections from ln and serves them one at a time until
// ctx is cancelled or a client sends QUIT. It returns nil in both cases.
// The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.logger.Info("listening", "addr", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("server: accept: %w", err)
		}

		if s.handle(ctx, conn) {
			s.logger.Info("quit requested, shutting down")
			return nil
		}
	}
}

// clientConn serializes writes from the dispatcher and the scheduler.
type clientConn struct {
	net.Conn
	wmu sync.Mutex
}

func (c *clientConn) write(b []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.Write(b)
	return err
}

func (c *clientConn) respond(code protocol.RespCode) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return protocol.WriteResponse(c.Conn, code)
}

// handle serves one connection until it ends. It reports whether the
// client asked the server to stop.
func (s *Server) handle(ctx context.Context, conn net.Conn) (shutdown bool) {
	logger := s.logger.With("conn", uuid.NewString())
	logger.Info("client connected", "remote", conn.RemoteAddr())

	c := &clientConn{Conn: conn}

	s.mu.Lock()
	s.session.Begin()
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		s.runScheduler(ctx, c, logger)
	}()

	shutdown = s.dispatch(ctx, c, logger)
	cancel()
	wg.Wait()

	s.mu.Lock()
	s.session.End()
	s.mu.Unlock()

	logger.Info("client disconnected")
	return shutdown
}

// dispatch reads and applies commands until the connection fails or the
// client leaves.
func (s *Server) dispatch(ctx context.Context, c *clientConn, logger *log.Logger) (shutdown bool) {
	for {
		cmd, err := protocol.ReadCommand(c)
		if err != nil {
			switch {
			case ctx.Err() != nil:
			case errors.Is(err, io.EOF):
				logger.Debug("client closed connection")
			default:
				logger.Warn("read failed", "error", err)
			}
			return false
		}

		s.mu.Lock()
		out, err := s.session.Apply(cmd)
		var info []any
		if out == snake.OutcomeStarted {
			w := s.session.World()
			info = []any{"mode", s.session.Mode(), "terrain", w.Terrain, "width", w.Width, "height", w.Height}
		}
		s.mu.Unlock()

		if err != nil {
			var cfgErr *snake.ConfigError
			switch {
			case errors.As(err, &cfgErr):
				logger.Warn("ignoring config value", "error", err)
				continue
			case errors.Is(err, snake.ErrUnexpected):
				logger.Debug("ignoring command", "code", cmd.Code, "error", err)
				continue
			default:
				logger.Error("cannot start session", "error", err)
				return false
			}
		}

		switch out {
		case snake.OutcomePong:
			err = c.respond(protocol.RespPong)
		case snake.OutcomeStarted:
			logger.Info("session started", info...)
		case snake.OutcomeClose, snake.OutcomeShutdown:
			if err := c.respond(protocol.RespBye); err != nil {
				logger.Debug("bye not delivered", "error", err)
			}
			return out == snake.OutcomeShutdown
		}
		if err != nil {
			logger.Warn("write failed", "error", err)
			return false
		}
	}
}
