package transport

import (
	"net"
	"sync"
)

type accepted struct {
	conn net.Conn
	err  error
}

// multiListener accepts from several listeners as one.
type multiListener struct {
	lns       []net.Listener
	results   chan accepted
	done      chan struct{}
	closeOnce sync.Once
}

// Merge combines listeners into one. Accept returns connections from any
// of them in arrival order. The first accept error from any listener is
// returned; Close closes them all.
func Merge(lns ...net.Listener) net.Listener {
	if len(lns) == 1 {
		return lns[0]
	}
	m := &multiListener{
		lns:     lns,
		results: make(chan accepted),
		done:    make(chan struct{}),
	}
	for _, ln := range lns {
		go m.pump(ln)
	}
	return m
}

func (m *multiListener) pump(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		select {
		case m.results <- accepted{conn: conn, err: err}:
		case <-m.done:
			if conn != nil {
				conn.Close()
			}
			return
		}
		if err != nil {
			return
		}
	}
}

func (m *multiListener) Accept() (net.Conn, error) {
	select {
	case a := <-m.results:
		return a.conn, a.err
	case <-m.done:
		return nil, net.ErrClosed
	}
}

func (m *multiListener) Close() error {
	var first error
	m.closeOnce.Do(func() {
		close(m.done)
		for _, ln := range m.lns {
			if err := ln.Close(); err != nil && first == nil {
				first = err
			}
		}
	})
	return first
}

// Addr returns the address of the first listener.
func (m *multiListener) Addr() net.Addr {
	return m.lns[0].Addr()
}
