package tty

import (
	"os"
	"strings"
	"time"
)

// SessionID is an opaque, monotonically increasing session identifier.
// Zero is reserved to mean "none" and is never assigned to a session.
type SessionID uint64

// TerminalMode is the terminal mode a session believes it is in. Switching
// modes is idempotent and, for now, only records intent — it does not yet
// rewrite termios flags (see DESIGN.md's Open Question decision).
type TerminalMode int

const (
	ModeCooked TerminalMode = iota
	ModeRaw
	ModeAltScreen
)

func (m TerminalMode) String() string {
	switch m {
	case ModeCooked:
		return "cooked"
	case ModeRaw:
		return "raw"
	case ModeAltScreen:
		return "alt_screen"
	default:
		return "unknown"
	}
}

// PtyConfig carries the inputs needed to spawn a new PTY session.
type PtyConfig struct {
	// Shell is the absolute path to the executable to exec.
	Shell string
	// Args is argv[1:] passed to Shell.
	Args []string
	// Env maps environment variable names to values for the child.
	Env map[string]string
	// WorkingDir, if non-empty, is the child's cwd before exec.
	WorkingDir string
	Rows       uint16
	Cols       uint16
}

// DefaultPtyConfig returns a PtyConfig seeded from the current process
// environment: shell from $SHELL (falling back to /bin/bash), the full
// environment of this process, and a conventional 80x24 window. Mirrors
// the `Default for PtyConfig` impl of the original Rust engine, which
// seeds `env` from the whole process environment rather than leaving it
// empty.
func DefaultPtyConfig() PtyConfig {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/bash"
	}
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, val, ok := strings.Cut(kv, "="); ok {
			env[key] = val
		}
	}
	return PtyConfig{
		Shell: shell,
		Env:   env,
		Rows:  24,
		Cols:  80,
	}
}

// envSlice renders the child's environment as a "KEY=VALUE" slice suitable
// for exec.Cmd.Env: Env is overlaid on top of this process's own
// environment rather than replacing it, matching the original engine's
// child setup (fork inherits the full environment, then only the
// configured keys are overwritten via setenv). A caller that sets Env to a
// partial map — e.g. just overriding TERM — still gets a child with PATH,
// HOME, and everything else this process has.
func (c PtyConfig) envSlice() []string {
	merged := make(map[string]string, len(c.Env))
	for _, kv := range os.Environ() {
		if key, val, ok := strings.Cut(kv, "="); ok {
			merged[key] = val
		}
	}
	for k, v := range c.Env {
		merged[k] = v
	}
	out := make([]string, 0, len(merged))
	for k, v := range merged {
		out = append(out, k+"="+v)
	}
	return out
}

// TtyStats are engine-wide, monotonically increasing counters.
type TtyStats struct {
	SessionsCreated   uint64
	SessionsDestroyed uint64
	TotalBytesRead    uint64
	TotalBytesWritten uint64
	SignalCount       uint64
	Errors            uint64
}

// PtyStatsSnapshot is the per-session view returned by GetPtyStats.
type PtyStatsSnapshot struct {
	BytesRead    uint64
	BytesWritten uint64
	Uptime       time.Duration
}

// SignalEvent is published on the broadcast channel returned by
// SubscribeSignals. TargetID is nil for a broadcast send_signal call.
type SignalEvent struct {
	Signal   int
	TargetID *SessionID
}
