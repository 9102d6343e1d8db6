// Package schedule runs keyed one-shot tasks after a delay.
package schedule

import (
	"sync"
	"time"
)

// Deferred holds at most one pending task per key. Scheduling a key again
// replaces the pending task.
type Deferred struct {
	mu      sync.Mutex
	pending map[string]*task
	seq     uint64
	stopped bool
}

type task struct {
	timer *time.Timer
	gen   uint64
}

func NewDeferred() *Deferred {
	return &Deferred{pending: map[string]*task{}}
}

// Schedule runs fn after delay unless the key is cancelled or rescheduled first.
func (d *Deferred) Schedule(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}
	d.seq++
	t := &task{gen: d.seq}
	t.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		current, ok := d.pending[key]
		if !ok || current.gen != t.gen {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()
		fn()
	})
	d.pending[key] = t
}

// Cancel drops the pending task for key. It reports whether one was pending.
func (d *Deferred) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.pending[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(d.pending, key)
	return true
}

// Pending reports whether key has a task waiting.
func (d *Deferred) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Stop cancels every pending task and refuses new ones.
func (d *Deferred) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, t := range d.pending {
		t.timer.Stop()
		delete(d.pending, key)
	}
}
