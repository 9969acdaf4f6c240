// Package ui provides the terminal components of the userdir browser.
package ui

import (
	"sync"
	"time"
)

// Debouncer delays a call until no new call has arrived for duration.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a new debouncer with the specified duration
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
	}
}

// Debounce executes fn after the debounce duration has elapsed without any
// new calls. Rapid successive calls reset the timer.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel cancels any pending debounced function call
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// SearchDebouncer turns search box edits into a stream of settled terms.
// Only the last term submitted within the delay is delivered on C.
type SearchDebouncer struct {
	debouncer *Debouncer
	out       chan string
	done      chan struct{}
	closeOnce sync.Once
}

// DefaultSearchDelay is how long the search box must be idle before a
// term is committed.
const DefaultSearchDelay = 1000 * time.Millisecond

// NewSearchDebouncer creates a debouncer delivering terms after delay.
func NewSearchDebouncer(delay time.Duration) *SearchDebouncer {
	return &SearchDebouncer{
		debouncer: NewDebouncer(delay),
		out:       make(chan string),
		done:      make(chan struct{}),
	}
}

// Submit records the latest search text, restarting the delay.
func (s *SearchDebouncer) Submit(term string) {
	s.debouncer.Debounce(func() {
		select {
		case s.out <- term:
		case <-s.done:
		}
	})
}

// C delivers settled search terms.
func (s *SearchDebouncer) C() <-chan string {
	return s.out
}

// Done is closed by Close.
func (s *SearchDebouncer) Done() <-chan struct{} {
	return s.done
}

// Close cancels any pending term and releases blocked senders.
func (s *SearchDebouncer) Close() {
	s.closeOnce.Do(func() {
		s.debouncer.Cancel()
		close(s.done)
	})
}
