package transport

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/protocol"
)

// roundTrip sends a PING from client to server and a snapshot back.
func roundTrip(t *testing.T, client, server net.Conn) {
	t.Helper()

	errc := make(chan error, 1)
	go func() {
		errc <- protocol.WriteCommand(client, protocol.Command{Code: protocol.CodePing})
	}()
	cmd, err := protocol.ReadCommand(server)
	if err != nil {
		t.Fatalf("ReadCommand: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("WriteCommand: %v", err)
	}
	if cmd.Code != protocol.CodePing {
		t.Fatalf("code = %s, want PING", cmd.Code)
	}

	snap := &protocol.Snapshot{Width: 20, Height: 15, Score: 30, Snake: []protocol.Point{{X: 3, Y: 4}, {X: 2, Y: 4}}}
	go func() {
		_, err := server.Write(protocol.AppendSnapshot(nil, snap))
		errc <- err
	}()
	resp, err := protocol.ReadResponse(client)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if resp.Snapshot == nil || resp.Snapshot.Score != 30 || len(resp.Snapshot.Snake) != 2 {
		t.Fatalf("snapshot = %+v", resp.Snapshot)
	}
}

func TestUnixRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.sock")
	ln, err := ListenUnix(path)
	if err != nil {
		t.Fatalf("ListenUnix: %v", err)
	}

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	client, err := Dial(path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	server := <-accepted
	defer server.Close()

	roundTrip(t, client, server)

	if err := ln.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("socket file still present: %v", err)
	}
}

func TestListenUnixRemovesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.sock")
	stale, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		t.Fatal(err)
	}
	stale.SetUnlinkOnClose(false)
	stale.Close()

	ln, err := ListenUnix(path)
	if err != nil {
		t.Fatalf("ListenUnix over stale socket: %v", err)
	}
	ln.Close()
}

func TestListenUnixRefusesRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notasocket")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ListenUnix(path); err == nil {
		t.Fatal("expected error for regular file")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("regular file was removed: %v", err)
	}
}

func TestWebSocketRoundTrip(t *testing.T) {
	tcp, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ln := newWebSocketListener(tcp, "/snake", nil)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	client, err := Dial("ws://" + ln.Addr().String() + "/snake")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	server := <-accepted

	roundTrip(t, client, server)

	// Closing one side ends the other side's stream.
	server.Close()
	buf := make([]byte, 1)
	if _, err := client.Read(buf); err == nil {
		t.Error("read after peer close succeeded")
	}
	client.Close()
}

func TestWebSocketReadSpansMessages(t *testing.T) {
	tcp, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ln := newWebSocketListener(tcp, "/snake", nil)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()
	client, err := DialWebSocket("ws://" + ln.Addr().String() + "/snake")
	if err != nil {
		t.Fatalf("DialWebSocket: %v", err)
	}
	defer client.Close()
	server := <-accepted
	defer server.Close()

	go func() {
		client.Write([]byte{1, 2})
		client.Write([]byte{3})
		client.Write([]byte{4, 5, 6})
	}()
	buf := make([]byte, 6)
	if _, err := io.ReadFull(server, buf); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	for i, b := range buf {
		if b != byte(i+1) {
			t.Fatalf("buf = %v", buf)
		}
	}
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	a, err := ListenUnix(filepath.Join(dir, "a.sock"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ListenUnix(filepath.Join(dir, "b.sock"))
	if err != nil {
		t.Fatal(err)
	}
	ln := Merge(a, b)

	for _, name := range []string{"a.sock", "b.sock"} {
		c, err := DialUnix(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("dial %s: %v", name, err)
		}
		s, err := ln.Accept()
		if err != nil {
			t.Fatalf("accept %s: %v", name, err)
		}
		s.Close()
		c.Close()
	}

	if err := ln.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := ln.Accept(); err == nil {
		t.Error("Accept after Close succeeded")
	}
}
