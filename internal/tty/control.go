package tty

import (
	"log/slog"
	"time"

	"golang.org/x/sys/unix"
)

const destroyGracePeriod = 100 * time.Millisecond

// sendTerm delivers SIGTERM to pid and returns any kill error — used by
// Engine.Close, which discards that error, as a best-effort safety net
// where no grace period or reap is possible.
func sendTerm(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}

// controlPlane implements spec.md §4.5: resize, mode changes, signal
// delivery (targeted or broadcast), and destroy with escalating
// SIGTERM->SIGKILL.
type controlPlane struct {
	registry *registry
	stats    *statsTracker
	events   *eventBus
}

func newControlPlane(r *registry, stats *statsTracker, events *eventBus) *controlPlane {
	return &controlPlane{registry: r, stats: stats, events: events}
}

// resize sets the pty winsize and relays SIGWINCH to the child. A failed
// ioctl is logged and swallowed — some platforms tolerate missing winsize
// support — so resize only fails on PtyNotFound.
func (c *controlPlane) resize(id SessionID, rows, cols uint16) error {
	s, ok := c.registry.get(id)
	if !ok {
		return &PtyNotFoundError{ID: id}
	}

	if err := setWinsize(s.master.Fd(), rows, cols); err != nil {
		slog.Warn("failed to set pty winsize", "session_id", id, "error", err)
	}
	if err := unix.Kill(s.ChildPID(), unix.SIGWINCH); err != nil {
		slog.Warn("failed to deliver SIGWINCH", "session_id", id, "error", err)
	}
	return nil
}

// setMode stores the new terminal mode intent for a session.
func (c *controlPlane) setMode(id SessionID, mode TerminalMode) error {
	s, ok := c.registry.get(id)
	if !ok {
		return &PtyNotFoundError{ID: id}
	}
	s.SetMode(mode)
	return nil
}

// sendSignal delivers signal to one session (target != nil) or broadcasts
// it to every currently-registered session (target == nil). Individual
// kill failures during a broadcast are logged and ignored; a targeted send
// failure is returned as a SignalError.
func (c *controlPlane) sendSignal(target *SessionID, signal int) error {
	if target != nil {
		s, ok := c.registry.get(*target)
		if !ok {
			return &PtyNotFoundError{ID: *target}
		}
		if err := unix.Kill(s.ChildPID(), unix.Signal(signal)); err != nil {
			return &SignalError{Pid: s.ChildPID(), Err: err}
		}
	} else {
		for _, s := range c.registry.snapshot() {
			if err := unix.Kill(s.ChildPID(), unix.Signal(signal)); err != nil {
				slog.Warn("failed to deliver broadcast signal", "session_id", s.id, "error", err)
			}
		}
	}

	c.events.publish(SignalEvent{Signal: signal, TargetID: target})
	c.stats.incSignalCount()
	return nil
}

// destroy implements the state machine in spec.md §4.5: remove from the
// registry, SIGTERM, a 100ms grace period, then SIGKILL + blocking reap if
// the child is still alive. The master fd closes when the last reference
// (held here) is released.
func (c *controlPlane) destroy(id SessionID) error {
	s, ok := c.registry.remove(id)
	if !ok {
		return &PtyNotFoundError{ID: id}
	}

	if err := unix.Kill(s.ChildPID(), unix.SIGTERM); err != nil {
		slog.Warn("failed to send SIGTERM", "session_id", id, "error", err)
	}

	time.Sleep(destroyGracePeriod)

	var status unix.WaitStatus
	wpid, err := unix.Wait4(s.ChildPID(), &status, unix.WNOHANG, nil)
	if err == nil && wpid == 0 {
		slog.Warn("force killing pty process", "session_id", id, "pid", s.ChildPID())
		_ = unix.Kill(s.ChildPID(), unix.SIGKILL)
		_, _ = unix.Wait4(s.ChildPID(), &status, 0, nil)
	}

	if s.markDead() {
		c.stats.incDestroyed()
	}
	_ = s.close()

	slog.Info("pty session destroyed", "session_id", id)
	return nil
}
