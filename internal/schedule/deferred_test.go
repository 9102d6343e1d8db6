package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduleRunsAfterDelay(t *testing.T) {
	t.Helper()

	d := NewDeferred()
	var calls atomic.Int32
	d.Schedule("gate", 10*time.Millisecond, func() { calls.Add(1) })

	if !d.Pending("gate") {
		t.Fatalf("Pending() = false right after Schedule")
	}
	waitFor(t, func() bool { return calls.Load() == 1 })
	if d.Pending("gate") {
		t.Fatalf("Pending() = true after task ran")
	}
}

func TestRescheduleReplacesPendingTask(t *testing.T) {
	t.Helper()

	d := NewDeferred()
	var first, second atomic.Int32
	d.Schedule("gate", 20*time.Millisecond, func() { first.Add(1) })
	d.Schedule("gate", 20*time.Millisecond, func() { second.Add(1) })

	waitFor(t, func() bool { return second.Load() == 1 })
	time.Sleep(30 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatalf("superseded task ran %d times", first.Load())
	}
}

func TestCancelAndStop(t *testing.T) {
	t.Helper()

	d := NewDeferred()
	var calls atomic.Int32
	d.Schedule("a", 10*time.Millisecond, func() { calls.Add(1) })
	if !d.Cancel("a") {
		t.Fatalf("Cancel() = false, want true")
	}
	if d.Cancel("a") {
		t.Fatalf("second Cancel() = true, want false")
	}

	d.Schedule("b", 10*time.Millisecond, func() { calls.Add(1) })
	d.Stop()
	d.Schedule("c", time.Millisecond, func() { calls.Add(1) })

	time.Sleep(40 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("calls = %d, want 0", calls.Load())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
