package tty

import "testing"

func TestControlPlaneUnknownSession(t *testing.T) {
	r := newRegistry()
	c := newControlPlane(r, newStatsTracker(), newEventBus())

	if err := c.resize(42, 80, 24); !IsPtyNotFoundError(err) {
		t.Errorf("resize: expected PtyNotFoundError, got %v", err)
	}
	if err := c.setMode(42, ModeRaw); !IsPtyNotFoundError(err) {
		t.Errorf("setMode: expected PtyNotFoundError, got %v", err)
	}
	id := SessionID(42)
	if err := c.sendSignal(&id, 0); !IsPtyNotFoundError(err) {
		t.Errorf("sendSignal: expected PtyNotFoundError, got %v", err)
	}
	if err := c.destroy(42); !IsPtyNotFoundError(err) {
		t.Errorf("destroy: expected PtyNotFoundError, got %v", err)
	}
}

func TestControlPlaneBroadcastOnEmptyRegistrySucceeds(t *testing.T) {
	r := newRegistry()
	stats := newStatsTracker()
	c := newControlPlane(r, stats, newEventBus())

	if err := c.sendSignal(nil, 0); err != nil {
		t.Fatalf("broadcast on empty registry should succeed, got %v", err)
	}
	if got := stats.snapshot().SignalCount; got != 1 {
		t.Fatalf("expected signal_count 1, got %d", got)
	}
}
