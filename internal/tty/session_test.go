package tty

import "testing"

func TestSessionMarkDeadOnce(t *testing.T) {
	s := &Session{}
	s.isAlive.Store(true)

	if !s.markDead() {
		t.Fatal("first markDead should transition true->false and report true")
	}
	if s.markDead() {
		t.Fatal("second markDead should be a no-op and report false")
	}
	if s.IsAlive() {
		t.Fatal("session should report not alive after markDead")
	}
}

func TestSessionModeIsIdempotent(t *testing.T) {
	s := &Session{mode: ModeCooked}

	s.SetMode(ModeRaw)
	if s.Mode() != ModeRaw {
		t.Fatalf("expected mode %v, got %v", ModeRaw, s.Mode())
	}

	s.SetMode(ModeRaw)
	if s.Mode() != ModeRaw {
		t.Fatalf("expected mode to stay %v, got %v", ModeRaw, s.Mode())
	}
}

func TestSessionByteCountersMonotonic(t *testing.T) {
	s := &Session{}

	s.addBytesRead(10)
	s.addBytesRead(5)
	s.addBytesWritten(3)

	stats := s.Stats()
	if stats.BytesRead != 15 {
		t.Errorf("expected bytes_read 15, got %d", stats.BytesRead)
	}
	if stats.BytesWritten != 3 {
		t.Errorf("expected bytes_written 3, got %d", stats.BytesWritten)
	}
}
