// Package tty implements the TTY Engine: the subsystem that creates,
// multiplexes, and manages Unix pseudo-terminal sessions on behalf of a
// terminal-emulator application. See SPEC_FULL.md for the full contract.
package tty

import (
	"log/slog"
)

// Engine is the external entry point (spec.md §6). One Engine owns an
// independent Session Registry, stats counters, and event bus; SessionIDs
// are unique and strictly increasing within a single Engine instance (I5).
type Engine struct {
	registry *registry
	stats    *statsTracker
	events   *eventBus
	control  *controlPlane
	shutdown *shutdownFlag
}

// New constructs an Engine with no sessions.
func New() *Engine {
	r := newRegistry()
	stats := newStatsTracker()
	events := newEventBus()
	return &Engine{
		registry: r,
		stats:    stats,
		events:   events,
		control:  newControlPlane(r, stats, events),
		shutdown: newShutdownFlag(),
	}
}

// CreatePty spawns a new session per cfg, registers it, starts its
// Lifecycle Monitor, and returns its id.
func (e *Engine) CreatePty(cfg PtyConfig) (SessionID, error) {
	master, pid, err := spawn(cfg)
	if err != nil {
		return 0, err
	}

	id := e.registry.nextSessionID()
	s := newSession(id, master, pid)
	e.registry.insert(s)
	startLifecycleMonitor(s, e.registry, e.stats, e.shutdown)
	e.stats.incCreated()

	return id, nil
}

// WriteToPty writes data to a session's pty master fd, bounded by the I/O
// Gateway's 100ms timeout.
func (e *Engine) WriteToPty(id SessionID, data []byte) (int, error) {
	s, ok := e.registry.get(id)
	if !ok {
		return 0, &PtyNotFoundError{ID: id}
	}
	if !s.IsAlive() {
		return 0, &ProcessDiedError{Pid: s.ChildPID()}
	}

	n, err := writeTo(s.master.Fd(), data)
	if err != nil {
		if IsTimeoutError(err) {
			return 0, err
		}
		e.stats.incErrors()
		return 0, &IoError{Op: "write", Err: err}
	}

	s.addBytesWritten(uint64(n))
	e.stats.addBytesWritten(uint64(n))
	return n, nil
}

// ReadFromPty reads from a session's pty master fd into buf, bounded by
// the I/O Gateway's 100ms timeout. A transient EAGAIN/EWOULDBLOCK result
// is reported as success with length 0, not an error.
func (e *Engine) ReadFromPty(id SessionID, buf []byte) (int, error) {
	s, ok := e.registry.get(id)
	if !ok {
		return 0, &PtyNotFoundError{ID: id}
	}
	if !s.IsAlive() {
		return 0, &ProcessDiedError{Pid: s.ChildPID()}
	}

	n, err := readFrom(s.master.Fd(), buf)
	if err != nil {
		if IsTimeoutError(err) {
			return 0, err
		}
		if isWouldBlock(err) {
			return 0, nil
		}
		e.stats.incErrors()
		return 0, &IoError{Op: "read", Err: err}
	}

	s.addBytesRead(uint64(n))
	e.stats.addBytesRead(uint64(n))
	return n, nil
}

// ResizePty sets a session's window size and relays SIGWINCH.
func (e *Engine) ResizePty(id SessionID, rows, cols uint16) error {
	return e.control.resize(id, rows, cols)
}

// SetPtyMode records a session's terminal mode intent.
func (e *Engine) SetPtyMode(id SessionID, mode TerminalMode) error {
	return e.control.setMode(id, mode)
}

// SendSignal delivers signal to one session, or to every registered
// session when target is nil.
func (e *Engine) SendSignal(target *SessionID, signal int) error {
	return e.control.sendSignal(target, signal)
}

// GetPtyStats returns a session's byte counters and uptime.
func (e *Engine) GetPtyStats(id SessionID) (PtyStatsSnapshot, error) {
	s, ok := e.registry.get(id)
	if !ok {
		return PtyStatsSnapshot{}, &PtyNotFoundError{ID: id}
	}
	return s.Stats(), nil
}

// ListSessions returns the ids of every currently-registered session.
func (e *Engine) ListSessions() []SessionID {
	return e.registry.list()
}

// GetSessionCount returns the number of currently-registered sessions.
func (e *Engine) GetSessionCount() int {
	return e.registry.count()
}

// DestroyPty explicitly tears down a session.
func (e *Engine) DestroyPty(id SessionID) error {
	return e.control.destroy(id)
}

// Shutdown stops all Lifecycle Monitors at their next tick, snapshots the
// current ids, and destroys each. Individual destroy failures are logged
// and do not abort the sweep.
func (e *Engine) Shutdown() error {
	slog.Info("shutting down tty engine")
	e.shutdown.set()

	for _, id := range e.registry.list() {
		if err := e.control.destroy(id); err != nil && !IsPtyNotFoundError(err) {
			slog.Error("failed to destroy pty during shutdown", "session_id", id, "error", err)
		}
	}

	slog.Info("tty engine shutdown complete")
	return nil
}

// GetStats returns a snapshot of the engine-wide counters.
func (e *Engine) GetStats() TtyStats {
	return e.stats.snapshot()
}

// SubscribeSignals returns a receive-only channel of signal events.
func (e *Engine) SubscribeSignals() <-chan SignalEvent {
	return e.events.subscribe()
}

// Close is a safety net for process exit: every still-registered session
// is sent SIGTERM and marked dead, without waiting for a grace period or
// reaping (mirrors the original engine's Drop impl — see SPEC_FULL.md's
// Supplemented Features). Prefer Shutdown for an orderly, reaping
// teardown; Close is for "we are exiting right now" cleanup paths.
func (e *Engine) Close() {
	for _, s := range e.registry.snapshot() {
		if s.markDead() {
			_ = sendTerm(s.ChildPID())
			e.stats.incDestroyed()
		}
	}
}
