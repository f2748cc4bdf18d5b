package tty

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestSpawnAndReap(t *testing.T) {
	cfg := DefaultPtyConfig()
	cfg.Shell = "/bin/sh"
	cfg.Args = []string{"-c", "true"}

	master, pid, err := spawn(cfg)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	defer master.Close()

	if pid <= 0 {
		t.Fatalf("expected a positive pid, got %d", pid)
	}

	var status unix.WaitStatus
	if _, err := unix.Wait4(pid, &status, 0, nil); err != nil {
		t.Fatalf("Wait4: %v", err)
	}
	if code := status.ExitStatus(); code != 0 {
		t.Fatalf("expected exit status 0, got %d", code)
	}
}

func TestSpawnUnknownShellIsForkError(t *testing.T) {
	cfg := DefaultPtyConfig()
	cfg.Shell = "/no/such/executable-ttyengine-test"

	_, _, err := spawn(cfg)
	if !IsForkError(err) {
		t.Fatalf("expected ForkError for an unresolvable shell, got %v", err)
	}
}
