package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/protocol"
)

// runScheduler advances the session once per tick and streams a snapshot
// after each step. It returns when ctx ends or a write fails.
func (s *Server) runScheduler(ctx context.Context, c *clientConn, logger *log.Logger) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	buf := make([]byte, 0, 1024)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var ok bool
		buf, ok = s.step(buf[:0], logger)
		if !ok {
			continue
		}
		if err := c.write(buf); err != nil {
			if ctx.Err() == nil {
				logger.Warn("snapshot write failed", "error", err)
			}
			return
		}
	}
}

// step runs one simulation step under the lock and encodes the resulting
// snapshot into buf. It reports false while the session is not running.
func (s *Server) step(buf []byte, logger *log.Logger) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session
	if !sess.Running() {
		return buf, false
	}

	wasOver := sess.GameOver()
	if sess.CheckTimeout() {
		logger.Info("time is up", "score", sess.Score())
	}
	sess.Tick()
	if !wasOver && sess.GameOver() {
		logger.Info("game over", "score", sess.Score(), "elapsed", sess.Elapsed().Round(time.Second))
	}

	snap := sess.Snapshot()
	return protocol.AppendSnapshot(buf, &snap), true
}
