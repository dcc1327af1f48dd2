// Package query owns the search text and the debounce between
// keystrokes and the value the pipeline actually filters on.
package query

import (
	"sync"
	"time"
)

const (
	// DefaultDelay is the stability window before a raw update settles.
	DefaultDelay = 300 * time.Millisecond
	// DefaultCharWindow is the length jump that settles immediately.
	DefaultCharWindow = 4
)

// Debouncer tracks a raw per-keystroke query and a settled value that
// lags behind it by a stability window. A large single-step change in
// length (paste, autocomplete) bypasses the window and settles
// synchronously, so bulk input updates results without waiting.
type Debouncer struct {
	mu            sync.Mutex
	raw           string
	settled       string
	lastSettleLen int
	delay         time.Duration
	charWindow    int
	timer         *time.Timer
	gen           uint64
	closed        bool
	listeners     []func(settled string)
}

// New creates a debouncer. Non-positive delay or charWindow fall back
// to the defaults.
func New(delay time.Duration, charWindow int) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if charWindow <= 0 {
		charWindow = DefaultCharWindow
	}
	return &Debouncer{delay: delay, charWindow: charWindow}
}

// Subscribe registers a listener invoked with each newly settled value.
// Wire subscribers before the first Update.
func (d *Debouncer) Subscribe(fn func(settled string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// Update records a new raw value. When the length delta since the last
// settle reaches the char window the value settles synchronously;
// otherwise the delay timer is re-armed and the previous pending settle
// is cancelled.
func (d *Debouncer) Update(raw string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.raw = raw

	delta := len(raw) - d.lastSettleLen
	if delta < 0 {
		delta = -delta
	}
	if delta >= d.charWindow {
		d.settleLocked(raw)
		return
	}

	d.stopTimerLocked()
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	d.mu.Unlock()
}

// fire is the timer callback. gen guards against a stale timer that
// lost the race with a newer Update or Close.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.settleLocked(d.raw)
}

// settleLocked commits the settled value and notifies listeners.
// Called with the lock held; releases it.
func (d *Debouncer) settleLocked(value string) {
	d.stopTimerLocked()
	d.settled = value
	d.lastSettleLen = len(value)
	listeners := d.listeners
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
}

// stopTimerLocked cancels any pending settle and invalidates in-flight
// timer callbacks.
func (d *Debouncer) stopTimerLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Raw returns the latest keystroke value.
func (d *Debouncer) Raw() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw
}

// Settled returns the debounced value the pipeline filters on.
func (d *Debouncer) Settled() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Close cancels any pending settle. A settle never fires after Close
// returns; Close is idempotent.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.stopTimerLocked()
}
