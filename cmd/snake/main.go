// snake is a client/server snake game for the terminal.
//
// Usage:
//
//	snake server             - Run the game server on a Unix socket
//	snake play               - Play against a running server
//	snake ssh                - Serve the client to SSH sessions
//	snake scores [board]     - Show high scores
//	snake config             - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Path to a server.yaml
//	--log-level <level> - debug, info, warn or error
//	--db <path>         - Scores database (default: ~/.snake/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagDBPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - a client/server snake game for the terminal",
	Long: `Snake runs the game on a server that owns the board and the clock.
Clients connect over a Unix socket (or WebSocket), pick a mode and a
world, and receive a snapshot of the board on every tick.

Available commands:
  server   - Run the game server
  play     - Play in this terminal
  ssh      - Serve the client over SSH
  scores   - View high scores
  config   - Print configuration or its JSON Schema

Examples:
  snake server
  snake server --speed fast --websocket :8088
  snake play
  snake play --target ws://localhost:8088/snake
  snake scores timed/obstacles/45x30`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to server.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the configuration and applies the global flags.
// It exits on error.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagLogLevel != "" {
		if _, err := log.ParseLevel(flagLogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", flagLogLevel)
			os.Exit(1)
		}
		cfg.Log.Level = flagLogLevel
	}
	if flagDBPath != "" {
		cfg.Scores.DB = flagDBPath
	}
	return cfg
}

func newLogger(cfg config.Config, prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           cfg.LogLevel(),
	})
}
