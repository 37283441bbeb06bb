package server

import (
	"context"
	"io"
	"math/rand"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/protocol"
)

// pipeListener hands out in-memory connections.
type pipeListener struct {
	conns     chan net.Conn
	done      chan struct{}
	closeOnce sync.Once
}

func newPipeListener() *pipeListener {
	return &pipeListener{conns: make(chan net.Conn), done: make(chan struct{})}
}

func (l *pipeListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *pipeListener) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	return nil
}

func (l *pipeListener) Addr() net.Addr { return pipeAddr{} }

type pipeAddr struct{}

func (pipeAddr) Network() string { return "pipe" }
func (pipeAddr) String() string  { return "pipe" }

type testClient struct {
	conn  net.Conn
	resps chan protocol.Response
	errc  chan error
}

func (l *pipeListener) dial(t *testing.T) *testClient {
	t.Helper()
	client, server := net.Pipe()
	select {
	case l.conns <- server:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not accept")
	}

	c := &testClient{conn: client, resps: make(chan protocol.Response, 16), errc: make(chan error, 1)}
	go func() {
		for {
			r, err := protocol.ReadResponse(client)
			if err != nil {
				c.errc <- err
				close(c.resps)
				return
			}
			c.resps <- r
		}
	}()
	t.Cleanup(func() { client.Close() })
	return c
}

func (c *testClient) send(t *testing.T, code protocol.Code, arg int32) {
	t.Helper()
	if err := protocol.WriteCommand(c.conn, protocol.Command{Code: code, Arg: arg}); err != nil {
		t.Fatalf("send %s: %v", code, err)
	}
}

// expect waits for a response with the given code, skipping snapshots
// when another code is wanted.
func (c *testClient) expect(t *testing.T, code protocol.RespCode) protocol.Response {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case r, ok := <-c.resps:
			if !ok {
				t.Fatalf("connection closed waiting for %d: %v", code, <-c.errc)
			}
			if r.Code == code {
				return r
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %d", code)
		}
	}
}

// expectClosed waits until the server closes the connection.
func (c *testClient) expectClosed(t *testing.T) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-c.resps:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("connection still open")
		}
	}
}

func (c *testClient) handshake(t *testing.T, w, h int) {
	t.Helper()
	c.send(t, protocol.CodeSetMode, int32(snake.ModeStandard))
	c.send(t, protocol.CodeSetWorld, int32(snake.TerrainWrap))
	c.send(t, protocol.CodeSetSize, protocol.PackSize(w, h))
}

func startServer(t *testing.T, limits snake.Limits) (*Server, *pipeListener, <-chan error, context.CancelFunc) {
	t.Helper()
	cfg := Config{TickInterval: 5 * time.Millisecond, Limits: limits}
	srv := New(cfg, log.New(io.Discard), snake.WithRand(rand.New(rand.NewSource(1))))
	ln := newPipeListener()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx, ln) }()
	t.Cleanup(cancel)
	return srv, ln, errc, cancel
}

func waitState(t *testing.T, srv *Server, want snake.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for srv.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("state = %v, want %v", srv.State(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPingBeforeConfiguration(t *testing.T) {
	_, ln, _, _ := startServer(t, snake.DefaultLimits())
	c := ln.dial(t)
	c.send(t, protocol.CodePing, 0)
	c.expect(t, protocol.RespPong)
}

func TestSnapshotsAfterHandshake(t *testing.T) {
	srv, ln, _, _ := startServer(t, snake.DefaultLimits())
	c := ln.dial(t)

	// Play commands before configuration are ignored.
	c.send(t, protocol.CodeDir, int32(snake.DirUp))
	c.send(t, protocol.CodeRestart, 0)
	c.handshake(t, 20, 15)

	r := c.expect(t, protocol.RespSnapshot)
	snap := r.Snapshot
	if snap.Width != 20 || snap.Height != 15 {
		t.Errorf("size = %dx%d, want 20x15", snap.Width, snap.Height)
	}
	if snap.Mode != int32(snake.ModeStandard) || snap.TimeLeft != -1 {
		t.Errorf("mode = %d time left = %d", snap.Mode, snap.TimeLeft)
	}
	if len(snap.Snake) < 3 {
		t.Errorf("snake length = %d", len(snap.Snake))
	}

	c.send(t, protocol.CodeTogglePause, 0)
	waitState(t, srv, snake.StatePaused)
	for {
		if r := c.expect(t, protocol.RespSnapshot); r.Snapshot.Paused {
			break
		}
	}
}

func TestBackToMenuKeepsServing(t *testing.T) {
	srv, ln, errc, _ := startServer(t, snake.DefaultLimits())

	c := ln.dial(t)
	c.handshake(t, 20, 15)
	c.expect(t, protocol.RespSnapshot)
	c.send(t, protocol.CodeBackToMenu, 0)
	c.expect(t, protocol.RespBye)
	c.expectClosed(t)
	waitState(t, srv, snake.StateInactive)

	select {
	case err := <-errc:
		t.Fatalf("Serve returned after BACK_TO_MENU: %v", err)
	default:
	}

	// The next client starts a new handshake.
	c2 := ln.dial(t)
	waitState(t, srv, snake.StateAwaitingConfig)
	c2.handshake(t, 30, 12)
	r := c2.expect(t, protocol.RespSnapshot)
	if r.Snapshot.Width != 30 || r.Snapshot.Height != 12 {
		t.Errorf("size = %dx%d, want 30x12", r.Snapshot.Width, r.Snapshot.Height)
	}
}

func TestQuitStopsServer(t *testing.T) {
	_, ln, errc, _ := startServer(t, snake.DefaultLimits())
	c := ln.dial(t)
	c.send(t, protocol.CodeQuit, 0)
	c.expect(t, protocol.RespBye)

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after QUIT")
	}
}

func TestClientDisconnect(t *testing.T) {
	srv, ln, _, _ := startServer(t, snake.DefaultLimits())
	c := ln.dial(t)
	c.handshake(t, 20, 15)
	waitState(t, srv, snake.StateActive)

	c.conn.Close()
	waitState(t, srv, snake.StateInactive)

	c2 := ln.dial(t)
	c2.send(t, protocol.CodePing, 0)
	c2.expect(t, protocol.RespPong)
}

func TestInvalidConfigKeepsWaiting(t *testing.T) {
	srv, ln, _, _ := startServer(t, snake.DefaultLimits())
	c := ln.dial(t)
	c.send(t, protocol.CodeSetMode, int32(snake.ModeStandard))
	c.send(t, protocol.CodeSetWorld, int32(snake.TerrainWrap))
	c.send(t, protocol.CodeSetSize, protocol.PackSize(500, 15))
	c.send(t, protocol.CodePing, 0)
	c.expect(t, protocol.RespPong)
	if got := srv.State(); got != snake.StateAwaitingConfig {
		t.Fatalf("state = %v, want awaiting_config", got)
	}

	c.send(t, protocol.CodeSetSize, protocol.PackSize(20, 15))
	c.expect(t, protocol.RespSnapshot)
}

func TestMissingObstacleMapClosesConnection(t *testing.T) {
	limits := snake.DefaultLimits()
	limits.ObstacleMap = t.TempDir() + "/missing.txt"
	srv, ln, errc, _ := startServer(t, limits)

	c := ln.dial(t)
	c.send(t, protocol.CodeSetMode, int32(snake.ModeStandard))
	c.send(t, protocol.CodeSetWorld, int32(snake.TerrainObstacles))
	c.expectClosed(t)
	waitState(t, srv, snake.StateInactive)

	select {
	case err := <-errc:
		t.Fatalf("Serve returned: %v", err)
	default:
	}
}

func TestCancelStopsServe(t *testing.T) {
	_, ln, errc, cancel := startServer(t, snake.DefaultLimits())
	c := ln.dial(t)
	c.handshake(t, 20, 15)
	c.expect(t, protocol.RespSnapshot)

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	c.expectClosed(t)
}

func TestTruncatedCommandDropsConnection(t *testing.T) {
	srv, ln, _, _ := startServer(t, snake.DefaultLimits())
	c := ln.dial(t)
	waitState(t, srv, snake.StateAwaitingConfig)

	if _, err := c.conn.Write([]byte{1, 0, 0}); err != nil {
		t.Fatal(err)
	}
	c.conn.Close()
	waitState(t, srv, snake.StateInactive)

	c2 := ln.dial(t)
	c2.send(t, protocol.CodePing, 0)
	c2.expect(t, protocol.RespPong)
}
