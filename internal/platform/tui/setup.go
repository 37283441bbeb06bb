package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// terminalMargin is the space kept around a wrap board for the frame and
// the status line.
const terminalMargin = 5

var errDigitsOnly = errors.New("digits only")

type setupField int

const (
	fieldMode setupField = iota
	fieldDuration
	fieldTerrain
	fieldWidth
	fieldHeight
	fieldStart
	fieldCount
)

// SetupModel is the form a player fills in before each game.
type SetupModel struct {
	limits    snake.Limits
	keyMapper *KeyMapper

	mode     snake.Mode
	terrain  snake.Terrain
	duration textinput.Model
	width    textinput.Model
	height   textinput.Model

	focus  setupField
	termW  int
	termH  int
	status string // error or notice shown under the form
	best   string

	done     bool
	quitting bool
	result   Setup
}

func numberInput(value int) textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 4
	ti.Width = 6
	ti.Prompt = ""
	ti.SetValue(strconv.Itoa(value))
	ti.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return errDigitsOnly
			}
		}
		return nil
	}
	return ti
}

// NewSetupModel creates the form with defaults fitted to the terminal.
func NewSetupModel(limits snake.Limits, termW, termH int) SetupModel {
	m := SetupModel{
		limits:    limits,
		keyMapper: NewKeyMapper(),
		mode:      snake.ModeStandard,
		terrain:   snake.TerrainWrap,
		duration:  numberInput(core.Clamp(60, limits.MinDuration, limits.MaxDuration)),
		termW:     termW,
		termH:     termH,
	}
	maxW, maxH := m.maxSize()
	m.width = numberInput(max(limits.MinWidth, min(30, maxW)))
	m.height = numberInput(max(limits.MinHeight, min(20, maxH)))
	return m
}

// maxSize returns the largest wrap board the server allows that also fits
// the terminal.
func (m SetupModel) maxSize() (int, int) {
	w, h := m.limits.MaxWidth, m.limits.MaxHeight
	if m.termW > 0 {
		w = min(w, m.termW-terminalMargin)
	}
	if m.termH > 0 {
		h = min(h, m.termH-terminalMargin)
	}
	return w, h
}

// SetStatus sets the line shown below the form.
func (m *SetupModel) SetStatus(s string) {
	m.status = s
}

// SetBest sets the best-score line.
func (m *SetupModel) SetBest(s string) {
	m.best = s
}

// Reopen clears the previous result so the form can be used again.
func (m *SetupModel) Reopen() {
	m.done = false
	m.result = Setup{}
}

// Init initializes the model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termW, m.termH = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m SetupModel) visible(f setupField) bool {
	switch f {
	case fieldDuration:
		return m.mode == snake.ModeTimed
	case fieldWidth, fieldHeight:
		return m.terrain == snake.TerrainWrap
	}
	return true
}

func isTextField(f setupField) bool {
	return f == fieldDuration || f == fieldWidth || f == fieldHeight
}

func (m SetupModel) handleKey(msg tea.KeyMsg) (SetupModel, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionNone && !isTextField(m.focus) && msg.String() == "q" {
		action = MenuActionQuit
	}

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, nil
	case MenuActionUp:
		return m.move(-1)
	case MenuActionDown:
		return m.move(1)
	case MenuActionLeft, MenuActionRight:
		m.toggle()
		return m, nil
	case MenuActionSelect:
		if m.focus != fieldStart {
			return m.move(1)
		}
		m.submit()
		return m, nil
	}

	if isTextField(m.focus) {
		var cmd tea.Cmd
		switch m.focus {
		case fieldDuration:
			m.duration, cmd = m.duration.Update(msg)
		case fieldWidth:
			m.width, cmd = m.width.Update(msg)
		case fieldHeight:
			m.height, cmd = m.height.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *SetupModel) toggle() {
	switch m.focus {
	case fieldMode:
		if m.mode == snake.ModeStandard {
			m.mode = snake.ModeTimed
		} else {
			m.mode = snake.ModeStandard
		}
	case fieldTerrain:
		if m.terrain == snake.TerrainWrap {
			m.terrain = snake.TerrainObstacles
		} else {
			m.terrain = snake.TerrainWrap
		}
	}
}

// move shifts focus to the next visible field in direction dir.
func (m SetupModel) move(dir int) (SetupModel, tea.Cmd) {
	next := m.focus
	for {
		next = setupField((int(next) + dir + int(fieldCount)) % int(fieldCount))
		if m.visible(next) {
			break
		}
	}

	m.duration.Blur()
	m.width.Blur()
	m.height.Blur()
	m.focus = next

	var cmd tea.Cmd
	switch next {
	case fieldDuration:
		cmd = m.duration.Focus()
	case fieldWidth:
		cmd = m.width.Focus()
	case fieldHeight:
		cmd = m.height.Focus()
	}
	return m, cmd
}

// submit validates the form and records the result.
func (m *SetupModel) submit() {
	s, err := m.validate()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
	m.result = s
	m.done = true
}

func (m SetupModel) validate() (Setup, error) {
	s := Setup{Mode: m.mode, Terrain: m.terrain}
	l := m.limits

	if m.mode == snake.ModeTimed {
		d, err := strconv.Atoi(m.duration.Value())
		if err != nil || d < l.MinDuration || d > l.MaxDuration {
			return s, fmt.Errorf("duration must be %d..%d seconds", l.MinDuration, l.MaxDuration)
		}
		s.Duration = d
	}

	if m.terrain == snake.TerrainWrap {
		maxW, maxH := m.maxSize()
		if maxW < l.MinWidth || maxH < l.MinHeight {
			return s, fmt.Errorf("terminal too small for a %dx%d board", l.MinWidth, l.MinHeight)
		}
		w, errW := strconv.Atoi(m.width.Value())
		h, errH := strconv.Atoi(m.height.Value())
		if errW != nil || w < l.MinWidth || w > maxW {
			return s, fmt.Errorf("width must be %d..%d", l.MinWidth, maxW)
		}
		if errH != nil || h < l.MinHeight || h > maxH {
			return s, fmt.Errorf("height must be %d..%d", l.MinHeight, maxH)
		}
		s.Width, s.Height = w, h
	}
	return s, nil
}

// Selected returns the submitted setup, or nil if still choosing.
func (m SetupModel) Selected() *Setup {
	if !m.done {
		return nil
	}
	return &m.result
}

// IsQuitting returns true if user wants to quit.
func (m SetupModel) IsQuitting() bool {
	return m.quitting
}

// View renders the form.
func (m SetupModel) View() string {
	var b strings.Builder
	w := m.termW

	b.WriteString("\n")
	b.WriteString(centerText("S N A K E", w))
	b.WriteString("\n\n")

	line := func(f setupField, label, value string) {
		if !m.visible(f) {
			return
		}
		cursor := "  "
		if m.focus == f {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%-14s %s", cursor, label, value), w))
		b.WriteString("\n")
	}

	line(fieldMode, "Mode", choice(m.mode == snake.ModeStandard, "Standard", "Timed"))
	line(fieldDuration, "Time (s)", m.duration.View())
	line(fieldTerrain, "World", choice(m.terrain == snake.TerrainWrap, "Wrap", "Obstacles"))
	maxW, maxH := m.maxSize()
	line(fieldWidth, fmt.Sprintf("Width (<=%d)", maxW), m.width.View())
	line(fieldHeight, fmt.Sprintf("Height (<=%d)", maxH), m.height.View())
	if m.terrain == snake.TerrainObstacles {
		b.WriteString(centerText(fmt.Sprintf("  %-14s %dx%d", "Size", snake.ObstacleMapWidth, snake.ObstacleMapHeight), w))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	line(fieldStart, "[ Start ]", "")

	if m.best != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.best, w))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.status, w))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Move  |  Left/Right: Change  |  Enter: Start  |  Esc: Quit", w))
	return b.String()
}

func choice(first bool, a, b string) string {
	if first {
		return "< " + a + " >"
	}
	return "< " + b + " >"
}

// centerText pads text to center it in width columns.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
