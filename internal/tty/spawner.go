package tty

import (
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	creackpty "github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// spawn implements the Spawner algorithm of spec.md §4.1: open a PTY pair,
// set the initial winsize, fork+exec the configured shell onto the slave,
// and hand the master fd and child pid back to the caller. No session is
// registered here — that is the engine's job once spawn succeeds, keeping
// every failure path in this function free of partial registration.
//
// Go cannot safely fork() from an arbitrary goroutine: the runtime's
// scheduler, GC, and other goroutines would still be live in the child
// between fork and exec. syscall/os.exec route fork+exec through the
// runtime's own forkAndExecInChild, which performs setsid/dup2/chdir/exec
// using only async-signal-safe primitives on a single locked OS thread —
// this is the Go-idiomatic equivalent of spec.md's "dedicated OS-thread
// entry point" escape hatch, so spawn defers to exec.Cmd rather than
// hand-rolling fork(2).
func spawn(cfg PtyConfig) (master *os.File, pid int, err error) {
	ptmx, tty, err := creackpty.Open()
	if err != nil {
		return nil, 0, &PtyCreationError{Phase: "master", Err: err}
	}

	if err := creackpty.Setsize(ptmx, &creackpty.Winsize{Rows: cfg.Rows, Cols: cfg.Cols}); err != nil {
		// Non-fatal: some platforms tolerate missing winsize support.
		slog.Warn("failed to set initial pty winsize", "error", err)
	}

	shell := cfg.Shell
	if shell == "" {
		shell = "/bin/bash"
	}

	cmd := exec.Command(shell, cfg.Args...)
	cmd.Dir = cfg.WorkingDir
	cmd.Env = cfg.envSlice()
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true, // child becomes session leader (detaches controlling terminal)
		Setctty: true, // ... and acquires the slave as its controlling terminal
		Ctty:    0,    // index into {stdin,stdout,stderr}; stdin is the slave fd
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		_ = ptmx.Close()
		_ = tty.Close()
		return nil, 0, &ForkError{Reason: "exec failed", Err: err}
	}

	// The slave fd is only needed by the child; the parent's copy (now
	// duplicated onto the child's stdio) can be released immediately.
	_ = tty.Close()

	slog.Debug("pty spawned", "pid", cmd.Process.Pid, "elapsed", time.Since(start))
	return ptmx, cmd.Process.Pid, nil
}

// setWinsize applies a new terminal size to an already-running session's
// master fd via ioctl(TIOCSWINSZ), per spec.md §6's bit-exact OS interface.
func setWinsize(fd uintptr, rows, cols uint16) error {
	ws := &unix.Winsize{Row: rows, Col: cols}
	return unix.IoctlSetWinsize(int(fd), unix.TIOCSWINSZ, ws)
}
