package tty

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// ioTimeout is the contract deadline for a single read/write syscall
// against a session's master fd (spec.md §4.3). It is not configurable at
// this layer.
const ioTimeout = 100 * time.Millisecond

type ioResult struct {
	n   int
	err error
}

// writeTo performs a timeout-bounded blocking write against fd, off the
// caller's goroutine stack so a hung write cannot stall whatever called
// in. The raw unix.Write syscall (rather than os.File.Write) is used
// deliberately: os.File already integrates reads/writes with the runtime's
// network poller, which would silently defeat the "dedicated
// blocking-capable executor" dispatch spec.md requires.
func writeTo(fd uintptr, data []byte) (int, error) {
	resultCh := make(chan ioResult, 1)
	go func() {
		n, err := unix.Write(int(fd), data)
		resultCh <- ioResult{n: n, err: err}
	}()

	select {
	case res := <-resultCh:
		return res.n, res.err
	case <-time.After(ioTimeout):
		return 0, &TimeoutError{Ms: int(ioTimeout / time.Millisecond)}
	}
}

// readFrom performs a timeout-bounded blocking read against fd into a
// temporary buffer sized to len(buf), copying into buf only once the
// syscall returns.
func readFrom(fd uintptr, buf []byte) (int, error) {
	resultCh := make(chan ioResult, 1)
	tmp := make([]byte, len(buf))
	go func() {
		n, err := unix.Read(int(fd), tmp)
		resultCh <- ioResult{n: n, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err == nil && res.n > 0 {
			copy(buf, tmp[:res.n])
		}
		return res.n, res.err
	case <-time.After(ioTimeout):
		return 0, &TimeoutError{Ms: int(ioTimeout / time.Millisecond)}
	}
}

// isWouldBlock reports whether err is EAGAIN/EWOULDBLOCK — "no data
// available", not a real I/O error.
func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}
