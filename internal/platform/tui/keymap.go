package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/protocol"
)

// GameAction is what a key press means during play.
type GameAction int

const (
	ActionNone GameAction = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionPause
	ActionRestart
	ActionMenu
	ActionQuit
	ActionAbort // leave without telling the server
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a game action.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) GameAction {
	switch msg.String() {
	case "ctrl+c":
		return ActionAbort
	case "q", "Q":
		return ActionQuit
	case "w", "W", "up", "k":
		return ActionUp
	case "s", "S", "down", "j":
		return ActionDown
	case "a", "A", "left", "h":
		return ActionLeft
	case "d", "D", "right", "l":
		return ActionRight
	case "p", "P", " ":
		return ActionPause
	case "r", "R":
		return ActionRestart
	case "m", "M", "esc":
		return ActionMenu
	}
	return ActionNone
}

// Command returns the wire command for a game action. ok is false for
// actions that do not map to a command.
func (a GameAction) Command() (cmd protocol.Command, ok bool) {
	switch a {
	case ActionUp:
		return protocol.Command{Code: protocol.CodeDir, Arg: int32(snake.DirUp)}, true
	case ActionDown:
		return protocol.Command{Code: protocol.CodeDir, Arg: int32(snake.DirDown)}, true
	case ActionLeft:
		return protocol.Command{Code: protocol.CodeDir, Arg: int32(snake.DirLeft)}, true
	case ActionRight:
		return protocol.Command{Code: protocol.CodeDir, Arg: int32(snake.DirRight)}, true
	case ActionPause:
		return protocol.Command{Code: protocol.CodeTogglePause}, true
	case ActionRestart:
		return protocol.Command{Code: protocol.CodeRestart}, true
	case ActionMenu:
		return protocol.Command{Code: protocol.CodeBackToMenu}, true
	case ActionQuit:
		return protocol.Command{Code: protocol.CodeQuit}, true
	}
	return protocol.Command{}, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a setup form action. Letter keys
// are left to text fields, so only non-printing keys navigate.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "esc":
		return MenuActionQuit
	case "up", "shift+tab":
		return MenuActionUp
	case "down", "tab":
		return MenuActionDown
	case "left":
		return MenuActionLeft
	case "right":
		return MenuActionRight
	case "enter":
		return MenuActionSelect
	}
	return MenuActionNone
}
