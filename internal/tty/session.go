package tty

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Session owns one PTY master fd and one child PID. It is shared between
// the Registry, the I/O Gateway, and its own Lifecycle Monitor goroutine;
// the master fd is closed exactly once, when the last owner is done with
// it (see Session.close / I2 in spec.md's Data Model).
type Session struct {
	id        SessionID
	master    *os.File
	childPID  int
	createdAt time.Time

	modeMu sync.RWMutex
	mode   TerminalMode

	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64
	isAlive      atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

func newSession(id SessionID, master *os.File, childPID int) *Session {
	s := &Session{
		id:        id,
		master:    master,
		childPID:  childPID,
		createdAt: time.Now(),
		mode:      ModeCooked,
	}
	s.isAlive.Store(true)
	return s
}

// ID returns the session's immutable identifier.
func (s *Session) ID() SessionID { return s.id }

// ChildPID returns the immutable child process id.
func (s *Session) ChildPID() int { return s.childPID }

// IsAlive reports whether the Lifecycle Monitor still believes the child
// may be running. Once false, it never becomes true again (I3).
func (s *Session) IsAlive() bool { return s.isAlive.Load() }

// markDead transitions is_alive true->false exactly once, and reports
// whether this call was the one that performed the transition — callers
// use that to decide who bumps sessions_destroyed exactly once.
func (s *Session) markDead() bool {
	return s.isAlive.CompareAndSwap(true, false)
}

// Mode returns the session's current terminal mode.
func (s *Session) Mode() TerminalMode {
	s.modeMu.RLock()
	defer s.modeMu.RUnlock()
	return s.mode
}

// SetMode idempotently records the session's terminal mode intent.
func (s *Session) SetMode(mode TerminalMode) {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.mode = mode
}

// Stats returns the session's byte counters and uptime.
func (s *Session) Stats() PtyStatsSnapshot {
	return PtyStatsSnapshot{
		BytesRead:    s.bytesRead.Load(),
		BytesWritten: s.bytesWritten.Load(),
		Uptime:       time.Since(s.createdAt),
	}
}

// addBytesRead and addBytesWritten are called by the I/O Gateway only;
// both counters are monotonically non-decreasing (I4).
func (s *Session) addBytesRead(n uint64)    { s.bytesRead.Add(n) }
func (s *Session) addBytesWritten(n uint64) { s.bytesWritten.Add(n) }

// close releases the master fd exactly once (I2). Safe to call from both
// the explicit destroy path and the Lifecycle Monitor; whichever arrives
// first performs the close, everyone else observes its result.
func (s *Session) close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.master.Close()
		if s.closeErr != nil {
			slog.Warn("failed to close pty master fd", "session_id", s.id, "error", s.closeErr)
		}
	})
	return s.closeErr
}
