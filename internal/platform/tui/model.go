// Package tui is the terminal client for the snake server: a setup form,
// the connection to the server, the board renderer, and an SSH gateway
// that serves the same client to remote terminals.
package tui

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/protocol"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Options configures the client.
type Options struct {
	Target string // unix socket path or ws:// URL
	Limits snake.Limits
	Store  *storage.Store // nil disables score keeping
	Player string
	Width  int // initial terminal size
	Height int
}

type phase int

const (
	phaseSetup phase = iota
	phaseConnecting
	phasePlaying
)

// Model is the Bubble Tea model of the client: setup form, then play,
// then back to the form when the server says goodbye.
type Model struct {
	opts      Options
	dial      func(string) (*Client, error)
	keyMapper *KeyMapper

	phase  phase
	setup  SetupModel
	screen *core.Screen

	client       *Client
	current      Setup
	walls        *snake.World
	snap         *protocol.Snapshot
	best         int
	scoreSaved   bool
	quitAfterBye bool
	quitting     bool
}

// NewModel creates the client model.
func NewModel(opts Options) Model {
	m := Model{
		opts:      opts,
		dial:      Dial,
		keyMapper: NewKeyMapper(),
		setup:     NewSetupModel(opts.Limits, opts.Width, opts.Height),
		screen:    core.NewScreen(max(opts.Width, 1), max(opts.Height, 1)),
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.opts.Width, m.opts.Height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.setup, _ = m.setup.Update(msg)
		return m, nil

	case tea.KeyMsg:
		if m.phase == phasePlaying {
			return m.handleGameKey(msg)
		}
		if m.phase == phaseConnecting {
			if msg.String() == "ctrl+c" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		return m.updateSetup(msg)

	case connectedMsg:
		return m.handleConnected(msg)

	case connectErrMsg:
		m.phase = phaseSetup
		m.setup.Reopen()
		m.setup.SetStatus(fmt.Sprintf("Cannot connect: %v", msg.err))
		return m, nil

	case responseMsg:
		if msg.client != m.client {
			return m, nil
		}
		return m.handleResponse(msg.resp)

	case disconnectedMsg:
		if msg.client != m.client {
			return m, nil
		}
		if m.quitAfterBye {
			return m.quit()
		}
		status := "Disconnected from server"
		if msg.err != nil && !errors.Is(msg.err, io.EOF) {
			status = fmt.Sprintf("Disconnected: %v", msg.err)
		}
		return m.backToSetup(status), nil
	}

	return m, nil
}

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.setup, cmd = m.setup.Update(msg)

	if m.setup.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if s := m.setup.Selected(); s != nil {
		m.phase = phaseConnecting
		m.current = *s
		return m, connectCmd(m.dial, m.opts.Target, *s)
	}
	return m, cmd
}

func (m Model) handleConnected(msg connectedMsg) (tea.Model, tea.Cmd) {
	m.client = msg.client
	m.current = msg.setup
	m.phase = phasePlaying
	m.snap = nil
	m.scoreSaved = false
	m.quitAfterBye = false

	m.walls = nil
	if m.current.Terrain == snake.TerrainObstacles {
		if mask, err := snake.OpenObstacles(m.opts.Limits.ObstacleMap, snake.ObstacleMapWidth, snake.ObstacleMapHeight); err == nil {
			m.walls = snake.NewObstacleWorld(snake.ObstacleMapWidth, snake.ObstacleMapHeight, mask)
		}
	}

	m.best = 0
	if m.opts.Store != nil {
		if best, err := m.opts.Store.HighScore(m.current.BoardKey()); err == nil {
			m.best = best
		}
	}
	return m, m.client.listen()
}

func (m Model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKey(msg)
	if action == ActionAbort {
		return m.quit()
	}

	cmd, ok := action.Command()
	if !ok {
		return m, nil
	}
	if action == ActionQuit {
		m.quitAfterBye = true
	}
	if err := m.client.Send(cmd.Code, cmd.Arg); err != nil {
		if m.quitAfterBye {
			return m.quit()
		}
		return m.backToSetup(fmt.Sprintf("Connection lost: %v", err)), nil
	}
	return m, nil
}

func (m Model) handleResponse(r protocol.Response) (tea.Model, tea.Cmd) {
	switch r.Code {
	case protocol.RespSnapshot:
		m.snap = r.Snapshot
		m.recordScore()
	case protocol.RespBye:
		if m.quitAfterBye {
			return m.quit()
		}
		return m.backToSetup(""), nil
	}
	return m, m.client.listen()
}

// recordScore saves the score once per finished round.
func (m *Model) recordScore() {
	if !m.snap.GameOver {
		m.scoreSaved = false
		return
	}
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true

	score := int(m.snap.Score)
	m.best = max(m.best, score)
	if m.opts.Store == nil || score <= 0 {
		return
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.opts.Store.SaveScore(storage.ScoreEntry{
		Board:   m.current.BoardKey(),
		Player:  m.opts.Player,
		Score:   score,
		Length:  len(m.snap.Snake),
		Elapsed: int(m.snap.Elapsed),
	})
}

func (m Model) backToSetup(status string) Model {
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	m.phase = phaseSetup
	m.snap = nil
	m.setup.Reopen()
	m.setup.SetStatus(status)
	if m.best > 0 {
		m.setup.SetBest(fmt.Sprintf("Best on %s: %d", m.current.BoardKey(), m.best))
	}
	return m
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	m.quitting = true
	return m, tea.Quit
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phaseConnecting:
		return "\n" + centerText("Connecting to "+m.opts.Target+" ...", m.opts.Width)
	case phasePlaying:
		if m.snap == nil {
			return "\n" + centerText("Waiting for the server...", m.opts.Width)
		}
		DrawBoard(m.screen, m.snap, m.walls, HUD{Best: m.best, Player: m.opts.Player})
		return RenderScreen(m.screen)
	default:
		return m.setup.View()
	}
}

// Run starts the Bubble Tea program with the given options.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
