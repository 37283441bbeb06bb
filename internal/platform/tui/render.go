package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/protocol"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorCyan:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorBrightGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// Board glyphs.
const (
	glyphHead     = '@'
	glyphBody     = 'o'
	glyphFruit    = '*'
	glyphObstacle = '#'
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// HUD is the status shown above the board.
type HUD struct {
	Best   int
	Player string
}

// DrawBoard draws a snapshot centered on scr: a status line, the framed
// grid, and an overlay when paused or over. walls may be nil.
func DrawBoard(scr *core.Screen, snap *protocol.Snapshot, walls *snake.World, hud HUD) {
	scr.Clear()
	w, h := int(snap.Width), int(snap.Height)

	// Frame occupies one cell on each side; the status line sits above.
	ox := max(0, (scr.Width()-(w+2))/2)
	oy := max(1, (scr.Height()-(h+3))/2+1)

	scr.DrawText(ox, oy-1, statusLine(snap, hud), core.ColorBrightWhite)
	scr.DrawFrame(ox, oy, w, h, core.ColorCyan)

	gx, gy := ox+1, oy+1
	if walls != nil && walls.Width == w && walls.Height == h {
		for y := range h {
			for x := range w {
				if walls.IsBlocked(x, y) {
					scr.SetColored(gx+x, gy+y, glyphObstacle, core.ColorGray)
				}
			}
		}
	}

	scr.SetColored(gx+int(snap.FruitX), gy+int(snap.FruitY), glyphFruit, core.ColorRed)
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		p := snap.Snake[i]
		if i == 0 {
			scr.SetColored(gx+int(p.X), gy+int(p.Y), glyphHead, core.ColorBrightGreen)
		} else {
			scr.SetColored(gx+int(p.X), gy+int(p.Y), glyphBody, core.ColorGreen)
		}
	}

	mid := oy + h/2
	switch {
	case snap.GameOver:
		scr.DrawTextCentered(mid, " GAME OVER ", core.ColorRed)
		scr.DrawTextCentered(mid+1, " R: Restart  M: Menu  Q: Quit ", core.ColorYellow)
	case snap.Paused:
		scr.DrawTextCentered(mid, " PAUSED ", core.ColorYellow)
	}
}

func statusLine(snap *protocol.Snapshot, hud HUD) string {
	var b strings.Builder
	if hud.Player != "" {
		fmt.Fprintf(&b, "%s  ", hud.Player)
	}
	fmt.Fprintf(&b, "Score %d  Best %d  Time %s", snap.Score, max(hud.Best, int(snap.Score)), clock(snap.Elapsed))
	if snap.Mode == int32(snake.ModeTimed) {
		fmt.Fprintf(&b, "  Left %s", clock(snap.TimeLeft))
	}
	fmt.Fprintf(&b, "  Len %d", len(snap.Snake))
	return b.String()
}

// clock formats seconds as m:ss.
func clock(secs int32) string {
	secs = max(secs, 0)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
