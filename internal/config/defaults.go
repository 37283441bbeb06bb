package config

import (
	_ "embed"
)

//go:embed defaults/server.yaml
var defaultServerYAML []byte

// Tick period bounds in milliseconds.
const (
	MinTickMS = 50
	MaxTickMS = 1000
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Socket:        "/tmp/pos_snake.sock",
			WebSocketPath: "/snake",
			TickMS:        100,
		},
		Game: GameConfig{
			FruitReward:   10,
			MinWidth:      10,
			MaxWidth:      60,
			MinHeight:     10,
			MaxHeight:     40,
			MinDuration:   10,
			MaxDuration:   3600,
			SpawnAttempts: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
		Scores: ScoresConfig{
			DB: "~/.snake/scores.db",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultServerYAML
}
