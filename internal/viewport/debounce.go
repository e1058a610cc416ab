package viewport

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Trigger calls into one call of fn, made once no
// Trigger has arrived for the delay. A Trigger during the delay reschedules the
// pending call rather than queueing another. Calls of fn never overlap, and Cancel
// and Flush wait for a call already in progress.
type Debouncer struct {
	delay time.Duration
	fn    func()

	run sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.onTimer)
		return
	}
	d.timer.Reset(d.delay)
}

// Cancel drops a pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.run.Lock()
	defer d.run.Unlock()
	return d.cancel()
}

func (d *Debouncer) cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	was := d.pending
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	return was
}

// Flush runs a pending call now, on the caller's goroutine.
func (d *Debouncer) Flush() {
	d.run.Lock()
	defer d.run.Unlock()
	if d.cancel() {
		d.fn()
	}
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) onTimer() {
	d.run.Lock()
	defer d.run.Unlock()
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()
	d.fn()
}
