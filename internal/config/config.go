// Package config provides YAML-based configuration for the snake server
// and client: file loading with embedded defaults, validation, and a JSON
// Schema of the file format.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/server"
)

// Config is the complete configuration file.
type Config struct {
	Server ServerConfig `yaml:"server" json:"server" jsonschema:"description=Listening endpoints and tick rate"`
	Game   GameConfig   `yaml:"game" json:"game" jsonschema:"description=Limits on what a client may configure"`
	Log    LogConfig    `yaml:"log" json:"log"`
	Scores ScoresConfig `yaml:"scores" json:"scores"`
}

// ServerConfig defines where the server listens and how fast it ticks.
type ServerConfig struct {
	Socket        string `yaml:"socket" json:"socket" jsonschema:"description=Unix socket path"`
	WebSocket     string `yaml:"websocket" json:"websocket,omitempty" jsonschema:"description=TCP address for the WebSocket endpoint; empty disables it"`
	WebSocketPath string `yaml:"websocket_path" json:"websocket_path,omitempty" jsonschema:"description=HTTP path of the WebSocket endpoint"`
	TickMS        int    `yaml:"tick_ms" json:"tick_ms" jsonschema:"minimum=50,maximum=1000,description=Simulation period in milliseconds"`
}

// GameConfig bounds board sizes and durations and tunes scoring.
type GameConfig struct {
	FruitReward   int    `yaml:"fruit_reward" json:"fruit_reward" jsonschema:"minimum=1"`
	MinWidth      int    `yaml:"min_width" json:"min_width" jsonschema:"minimum=5"`
	MaxWidth      int    `yaml:"max_width" json:"max_width" jsonschema:"maximum=200"`
	MinHeight     int    `yaml:"min_height" json:"min_height" jsonschema:"minimum=5"`
	MaxHeight     int    `yaml:"max_height" json:"max_height" jsonschema:"maximum=200"`
	MinDuration   int    `yaml:"min_duration" json:"min_duration" jsonschema:"minimum=1,description=Shortest timed game in seconds"`
	MaxDuration   int    `yaml:"max_duration" json:"max_duration" jsonschema:"description=Longest timed game in seconds"`
	SpawnAttempts int    `yaml:"spawn_attempts" json:"spawn_attempts" jsonschema:"minimum=1,description=Random placements tried before scanning for a free spot"`
	ObstacleMap   string `yaml:"obstacle_map" json:"obstacle_map,omitempty" jsonschema:"description=Path to a 45x30 obstacle map; empty uses the built-in map"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level" json:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// ScoresConfig locates the high-score database.
type ScoresConfig struct {
	DB string `yaml:"db" json:"db" jsonschema:"description=SQLite database path; ~ expands to the home directory"`
}

// Validate fills zero values from the defaults and clamps out-of-range
// values. It fails only on settings that cannot be repaired.
func (c *Config) Validate() error {
	d := Default()

	if c.Server.Socket == "" {
		c.Server.Socket = d.Server.Socket
	}
	if c.Server.WebSocketPath == "" {
		c.Server.WebSocketPath = d.Server.WebSocketPath
	}
	if !strings.HasPrefix(c.Server.WebSocketPath, "/") {
		c.Server.WebSocketPath = "/" + c.Server.WebSocketPath
	}
	if c.Server.TickMS == 0 {
		c.Server.TickMS = d.Server.TickMS
	}
	c.Server.TickMS = clamp(c.Server.TickMS, MinTickMS, MaxTickMS)

	g := &c.Game
	if g.FruitReward <= 0 {
		g.FruitReward = d.Game.FruitReward
	}
	if g.SpawnAttempts <= 0 {
		g.SpawnAttempts = d.Game.SpawnAttempts
	}
	fillRange(&g.MinWidth, &g.MaxWidth, d.Game.MinWidth, d.Game.MaxWidth)
	fillRange(&g.MinHeight, &g.MaxHeight, d.Game.MinHeight, d.Game.MaxHeight)
	fillRange(&g.MinDuration, &g.MaxDuration, d.Game.MinDuration, d.Game.MaxDuration)
	if g.MinWidth < 5 || g.MinHeight < 5 {
		return fmt.Errorf("config: minimum board is 5x5, got %dx%d", g.MinWidth, g.MinHeight)
	}
	if g.MaxWidth > 0xFFFF || g.MaxHeight > 0xFFFF {
		return fmt.Errorf("config: board limits %dx%d exceed 16 bits", g.MaxWidth, g.MaxHeight)
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}

	if c.Scores.DB == "" {
		c.Scores.DB = d.Scores.DB
	}
	return nil
}

func fillRange(lo, hi *int, defLo, defHi int) {
	if *lo <= 0 {
		*lo = defLo
	}
	if *hi <= 0 {
		*hi = defHi
	}
	if *hi < *lo {
		*hi = *lo
	}
}

func clamp(val, lo, hi int) int {
	return max(lo, min(hi, val))
}

// TickInterval returns the simulation period.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Server.TickMS) * time.Millisecond
}

// Limits converts the game section for the session engine.
func (c Config) Limits() snake.Limits {
	return snake.Limits{
		MinWidth:      c.Game.MinWidth,
		MaxWidth:      c.Game.MaxWidth,
		MinHeight:     c.Game.MinHeight,
		MaxHeight:     c.Game.MaxHeight,
		MinDuration:   c.Game.MinDuration,
		MaxDuration:   c.Game.MaxDuration,
		FruitReward:   c.Game.FruitReward,
		SpawnAttempts: c.Game.SpawnAttempts,
		ObstacleMap:   expandHome(c.Game.ObstacleMap),
	}
}

// ServerConfig converts the file into server settings.
func (c Config) ServerConfig() server.Config {
	return server.Config{
		TickInterval: c.TickInterval(),
		Limits:       c.Limits(),
	}
}

// LogLevel returns the parsed log level, or info when it is invalid.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
