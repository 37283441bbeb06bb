package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagTarget   string
	flagPlayer   string
	flagNoScores bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play snake in this terminal",
	Long: `Connect to a running server, choose a game, and play.

The target is a Unix socket path or a ws:// URL. Wrap boards are limited
to the terminal size minus a small margin.

Controls:
  W/A/S/D, arrows, h/j/k/l - Steer
  P/Space                  - Pause
  R                        - Restart
  M/Esc                    - Back to the setup menu
  Q                        - Quit (stops the server)
  Ctrl+C                   - Leave without stopping the server

Examples:
  snake play
  snake play --target /tmp/my_snake.sock
  snake play --target ws://example.com:8088/snake --player alice`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagTarget, "target", "", "Server socket path or ws:// URL (default from config)")
	playCmd.Flags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Name recorded with high scores")
	playCmd.Flags().BoolVar(&flagNoScores, "no-scores", false, "Do not read or save high scores")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	target := flagTarget
	if target == "" {
		target = cfg.Server.Socket
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	var store *storage.Store
	if !flagNoScores {
		s, err := storage.Open(cfg.Scores.DB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: high scores disabled: %v\n", err)
		} else {
			store = s
			defer store.Close()
		}
	}

	err := tui.Run(tui.Options{
		Target: target,
		Limits: cfg.Limits(),
		Store:  store,
		Player: flagPlayer,
		Width:  width,
		Height: height,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
