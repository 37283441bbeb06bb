package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/server"
	"github.com/vovakirdan/tui-snake/internal/transport"
)

var (
	flagSocket    string
	flagWebSocket string
	flagWSPath    string
	flagTickMS    int
	flagSpeed     string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the snake game server",
	Long: `Start the game server. It serves one client at a time: the client
configures a game, plays, and may return to its menu to start another.
A client that sends QUIT stops the server; so do SIGINT and SIGTERM.

Speed presets:
  slow   - 150 ms per tick
  normal - 100 ms per tick
  fast   - 70 ms per tick
  insane - 50 ms per tick

Examples:
  snake server
  snake server --socket /tmp/my_snake.sock
  snake server --speed fast
  snake server --websocket :8088`,
	Run: runServer,
}

func init() {
	serverCmd.Flags().StringVar(&flagSocket, "socket", "", "Unix socket path (default from config)")
	serverCmd.Flags().StringVar(&flagWebSocket, "websocket", "", "Also accept WebSocket clients on this address")
	serverCmd.Flags().StringVar(&flagWSPath, "websocket-path", "", "HTTP path of the WebSocket endpoint")
	serverCmd.Flags().IntVar(&flagTickMS, "tick-ms", 0, "Tick period in milliseconds")
	serverCmd.Flags().StringVar(&flagSpeed, "speed", "", "Speed preset: slow, normal, fast, insane")
}

func runServer(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagSocket != "" {
		cfg.Server.Socket = flagSocket
	}
	if flagWebSocket != "" {
		cfg.Server.WebSocket = flagWebSocket
	}
	if flagWSPath != "" {
		cfg.Server.WebSocketPath = flagWSPath
	}
	if flagSpeed != "" {
		preset, err := config.ParseSpeed(flagSpeed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.ApplySpeed(&cfg, preset)
	}
	if flagTickMS > 0 {
		cfg.Server.TickMS = flagTickMS
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg, "snake")

	unixLn, err := transport.ListenUnix(cfg.Server.Socket)
	if err != nil {
		logger.Fatal("cannot listen", "socket", cfg.Server.Socket, "error", err)
	}
	listeners := []net.Listener{unixLn}

	if cfg.Server.WebSocket != "" {
		wsLn, err := transport.NewWebSocketListener(cfg.Server.WebSocket, cfg.Server.WebSocketPath, logger)
		if err != nil {
			unixLn.Close()
			logger.Fatal("cannot listen", "websocket", cfg.Server.WebSocket, "error", err)
		}
		listeners = append(listeners, wsLn)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server", "socket", cfg.Server.Socket, "tick", cfg.TickInterval())
	srv := server.New(cfg.ServerConfig(), logger)
	if err := srv.Serve(ctx, transport.Merge(listeners...)); err != nil {
		logger.Error("server stopped", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("server stopped")
}
