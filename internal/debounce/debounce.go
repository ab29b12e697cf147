// Package debounce delays a value until input has been quiet for a fixed
// window. It is built for Bubble Tea: Schedule returns a tea.Cmd whose
// FireMsg must be passed back through Accept in the model's Update.
package debounce

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// FireMsg is delivered when a scheduled delay elapses without being replaced.
type FireMsg struct {
	Owner string
	Gen   uint64
	Value string
}

// Debouncer holds at most one pending value. Scheduling a new value replaces
// the pending one and restarts the delay. It is not safe for concurrent use;
// call it from Update only.
type Debouncer struct {
	owner   string
	delay   time.Duration
	gen     uint64
	cancel  chan struct{}
	pending *string
}

// New returns a Debouncer whose messages are tagged with owner so several
// debouncers can share one program.
func New(owner string, delay time.Duration) *Debouncer {
	return &Debouncer{owner: owner, delay: delay}
}

func (d *Debouncer) Delay() time.Duration { return d.delay }

// SetDelay changes the window for subsequent schedules.
func (d *Debouncer) SetDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	d.delay = delay
}

// Schedule cancels any pending value and starts a new window for value.
func (d *Debouncer) Schedule(value string) tea.Cmd {
	d.Cancel()

	cancel := make(chan struct{})
	d.cancel = cancel
	d.pending = &value

	msg := FireMsg{Owner: d.owner, Gen: d.gen, Value: value}
	delay := d.delay
	return func() tea.Msg {
		if delay <= 0 {
			return msg
		}
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			return msg
		case <-cancel:
			return nil
		}
	}
}

// Cancel drops the pending value, if any. A goroutine still waiting on the
// old window returns without producing a message.
func (d *Debouncer) Cancel() {
	if d.cancel != nil {
		close(d.cancel)
		d.cancel = nil
	}
	d.pending = nil
	d.gen++
}

// Pending reports the value waiting to fire.
func (d *Debouncer) Pending() (string, bool) {
	if d.pending == nil {
		return "", false
	}
	return *d.pending, true
}

// Accept reports whether msg belongs to this debouncer and is the latest
// schedule. An accepted message consumes the pending value.
func (d *Debouncer) Accept(msg FireMsg) bool {
	if msg.Owner != d.owner || msg.Gen != d.gen || d.pending == nil {
		return false
	}
	d.pending = nil
	d.cancel = nil
	return true
}

// Flush consumes the pending value without waiting, as if the window had
// elapsed. The waiting goroutine is released.
func (d *Debouncer) Flush() (string, bool) {
	v, ok := d.Pending()
	if !ok {
		return "", false
	}
	d.Cancel()
	return v, true
}
