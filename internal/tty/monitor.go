package tty

import (
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

const monitorPollInterval = 100 * time.Millisecond

// lifecycleMonitor is the background task of spec.md §4.4: for one
// session, poll waitpid(WNOHANG) every 100ms until the engine is shutting
// down or the child has exited. It decouples liveness detection from the
// read/write paths so the registry eventually converges with the OS truth
// even if no caller ever touches a dead session again.
type lifecycleMonitor struct {
	session  *Session
	registry *registry
	stats    *statsTracker
	shutdown *shutdownFlag
}

func startLifecycleMonitor(s *Session, r *registry, stats *statsTracker, sd *shutdownFlag) {
	m := &lifecycleMonitor{session: s, registry: r, stats: stats, shutdown: sd}
	go m.run()
}

func (m *lifecycleMonitor) run() {
	ticker := time.NewTicker(monitorPollInterval)
	defer ticker.Stop()

	for range ticker.C {
		if m.shutdown.isSet() || !m.session.IsAlive() {
			return
		}

		var status unix.WaitStatus
		wpid, err := unix.Wait4(m.session.ChildPID(), &status, unix.WNOHANG, nil)
		if err == nil && wpid == 0 {
			// StillAlive: the child has not changed state.
			continue
		}

		m.reap()
		return
	}
}

// reap transitions the session to dead and removes it from the registry.
// An explicit destroy() does not call reap but uses the same markDead
// call; its compare-and-swap guarantees sessions_destroyed is bumped
// exactly once regardless of which of the two wins the race (spec.md's
// Design Notes).
func (m *lifecycleMonitor) reap() {
	if !m.session.markDead() {
		return
	}
	m.registry.remove(m.session.id)
	_ = m.session.close()
	m.stats.incDestroyed()
	slog.Info("pty session terminated", "session_id", m.session.id, "pid", m.session.ChildPID())
}

// shutdownFlag is a tiny atomic-bool wrapper shared by every monitor
// goroutine and the engine's shutdown path.
type shutdownFlag struct {
	flag atomic.Bool
}

func newShutdownFlag() *shutdownFlag { return &shutdownFlag{} }

func (f *shutdownFlag) set()        { f.flag.Store(true) }
func (f *shutdownFlag) isSet() bool { return f.flag.Load() }
