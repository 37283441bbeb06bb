// Package transport provides the byte-stream listeners and dialers the
// snake server and client talk over: a unix stream socket and a WebSocket
// carrying the same bytes in binary frames.
package transport

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"
)

// DialTimeout bounds how long a client waits for a connection.
const DialTimeout = 5 * time.Second

// ListenUnix listens on a unix stream socket at path. A stale socket file
// left by a previous run is removed first. Closing the listener removes
// the file.
func ListenUnix(path string) (*net.UnixListener, error) {
	if fi, err := os.Lstat(path); err == nil {
		if fi.Mode()&fs.ModeSocket == 0 {
			return nil, fmt.Errorf("transport: %s exists and is not a socket", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("transport: remove stale socket: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("transport: stat socket: %w", err)
	}

	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", path, err)
	}
	ln.SetUnlinkOnClose(true)
	return ln, nil
}

// DialUnix connects to the unix socket at path.
func DialUnix(path string) (net.Conn, error) {
	conn, err := net.DialTimeout("unix", path, DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", path, err)
	}
	return conn, nil
}

// Dial connects to target. ws:// and wss:// URLs use the WebSocket
// transport; anything else is a unix socket path.
func Dial(target string) (net.Conn, error) {
	if strings.HasPrefix(target, "ws://") || strings.HasPrefix(target, "wss://") {
		return DialWebSocket(target)
	}
	return DialUnix(target)
}
