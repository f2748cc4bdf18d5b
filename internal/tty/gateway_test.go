package tty

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func TestIsWouldBlock(t *testing.T) {
	if !isWouldBlock(unix.EAGAIN) {
		t.Error("EAGAIN should be classified as would-block")
	}
	if !isWouldBlock(unix.EWOULDBLOCK) {
		t.Error("EWOULDBLOCK should be classified as would-block")
	}
	if isWouldBlock(errors.New("boom")) {
		t.Error("arbitrary error should not be classified as would-block")
	}
}

func TestReadFromTimesOutOnEmptyPipe(t *testing.T) {
	r, w, err := pipeFds(t)
	if err != nil {
		t.Fatalf("pipeFds: %v", err)
	}
	defer unix.Close(w)
	defer unix.Close(r)

	buf := make([]byte, 16)
	_, err = readFrom(uintptr(r), buf)
	if !IsTimeoutError(err) {
		t.Fatalf("expected TimeoutError reading an empty pipe, got %v", err)
	}
}

func TestWriteThenReadThroughPipe(t *testing.T) {
	r, w, err := pipeFds(t)
	if err != nil {
		t.Fatalf("pipeFds: %v", err)
	}
	defer unix.Close(w)
	defer unix.Close(r)

	n, err := writeTo(uintptr(w), []byte("hello"))
	if err != nil {
		t.Fatalf("writeTo: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected to write 5 bytes, wrote %d", n)
	}

	buf := make([]byte, 16)
	n, err = readFrom(uintptr(r), buf)
	if err != nil {
		t.Fatalf("readFrom: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("expected to read %q, got %q", "hello", buf[:n])
	}
}

func pipeFds(t *testing.T) (r int, w int, err error) {
	t.Helper()
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}
