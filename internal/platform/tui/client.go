package tui

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/protocol"
	"github.com/vovakirdan/tui-snake/internal/storage"
	"github.com/vovakirdan/tui-snake/internal/transport"
)

// pingTimeout bounds the liveness check made right after dialing.
const pingTimeout = 2 * time.Second

// ErrNoPong is returned when the server does not answer the initial PING.
var ErrNoPong = errors.New("tui: server did not answer ping")

// Setup is what the player picked in the setup form.
type Setup struct {
	Mode     snake.Mode
	Duration int // seconds, timed mode only
	Terrain  snake.Terrain
	Width    int // wrap terrain only
	Height   int // wrap terrain only
}

// Commands returns the configuration handshake in send order: mode, time
// (timed only), world, size (wrap only).
func (s Setup) Commands() []protocol.Command {
	cmds := []protocol.Command{{Code: protocol.CodeSetMode, Arg: int32(s.Mode)}}
	if s.Mode == snake.ModeTimed {
		cmds = append(cmds, protocol.Command{Code: protocol.CodeSetTime, Arg: int32(s.Duration)}) //nolint:gosec // range-checked
	}
	cmds = append(cmds, protocol.Command{Code: protocol.CodeSetWorld, Arg: int32(s.Terrain)})
	if s.Terrain == snake.TerrainWrap {
		cmds = append(cmds, protocol.Command{Code: protocol.CodeSetSize, Arg: protocol.PackSize(s.Width, s.Height)})
	}
	return cmds
}

// BoardSize returns the grid size the server will use.
func (s Setup) BoardSize() (int, int) {
	if s.Terrain == snake.TerrainObstacles {
		return snake.ObstacleMapWidth, snake.ObstacleMapHeight
	}
	return s.Width, s.Height
}

// BoardKey names the board for the score table.
func (s Setup) BoardKey() string {
	w, h := s.BoardSize()
	return storage.BoardKey(s.Mode.String(), s.Terrain.String(), w, h)
}

// Client is one connection to the snake server.
type Client struct {
	conn  net.Conn
	wmu   sync.Mutex
	resps chan protocol.Response
	err   error // set before resps is closed
}

// Dial connects to target, checks the server answers a PING, and starts
// reading responses.
func Dial(target string) (*Client, error) {
	conn, err := transport.Dial(target)
	if err != nil {
		return nil, err
	}
	c, err := newClient(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func newClient(conn net.Conn) (*Client, error) {
	if err := protocol.WriteCommand(conn, protocol.Command{Code: protocol.CodePing}); err != nil {
		return nil, fmt.Errorf("tui: ping: %w", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(pingTimeout))
	resp, err := protocol.ReadResponse(conn)
	if err != nil {
		return nil, fmt.Errorf("tui: ping: %w", err)
	}
	if resp.Code != protocol.RespPong {
		return nil, ErrNoPong
	}
	_ = conn.SetReadDeadline(time.Time{})

	c := &Client{conn: conn, resps: make(chan protocol.Response, 8)}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.resps)
	for {
		r, err := protocol.ReadResponse(c.conn)
		if err != nil {
			c.err = err
			return
		}
		c.resps <- r
	}
}

// Send writes one command.
func (c *Client) Send(code protocol.Code, arg int32) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return protocol.WriteCommand(c.conn, protocol.Command{Code: code, Arg: arg})
}

// Configure sends the handshake for s.
func (c *Client) Configure(s Setup) error {
	for _, cmd := range s.Commands() {
		if err := c.Send(cmd.Code, cmd.Arg); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// responseMsg carries one server response into the Bubble Tea loop.
type responseMsg struct {
	client *Client
	resp   protocol.Response
}

// disconnectedMsg reports that the connection ended.
type disconnectedMsg struct {
	client *Client
	err    error
}

// connectedMsg reports a configured connection.
type connectedMsg struct {
	client *Client
	setup  Setup
}

// connectErrMsg reports that dialing or the handshake failed.
type connectErrMsg struct {
	err error
}

// listen waits for the next server response.
func (c *Client) listen() tea.Cmd {
	return func() tea.Msg {
		r, ok := <-c.resps
		if !ok {
			return disconnectedMsg{client: c, err: c.err}
		}
		return responseMsg{client: c, resp: r}
	}
}

// connectCmd dials and configures a session off the UI goroutine.
func connectCmd(dial func(string) (*Client, error), target string, s Setup) tea.Cmd {
	return func() tea.Msg {
		c, err := dial(target)
		if err != nil {
			return connectErrMsg{err: err}
		}
		if err := c.Configure(s); err != nil {
			c.Close()
			return connectErrMsg{err: err}
		}
		return connectedMsg{client: c, setup: s}
	}
}
