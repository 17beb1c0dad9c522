// Package pulse models transient UI emphasis flags (price flash,
// invalid-input wiggle) as values that auto-expire on a fixed timer.
//
// A Source owns the reset timer. Close cancels any outstanding timer so
// a torn-down view is never mutated after disposal.
package pulse

import (
	"sync"
	"time"
)

// Flag is the renderer-visible state of one transient signal.
type Flag struct {
	Active    bool
	ExpiresAt time.Time
}

// Source produces and auto-resets a single Flag.
type Source struct {
	ttl time.Duration

	mu     sync.Mutex
	flag   Flag
	timer  *time.Timer
	closed bool
}

// NewSource creates a source whose flag stays active for ttl after each
// trigger.
func NewSource(ttl time.Duration) *Source {
	return &Source{ttl: ttl}
}

// Trigger activates the flag and (re)starts the reset timer. Triggering
// a closed source is a no-op.
func (s *Source) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.flag = Flag{Active: true, ExpiresAt: time.Now().Add(s.ttl)}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.ttl, s.expire)
}

func (s *Source) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.flag = Flag{}
}

// Get returns the current flag. A flag past its expiry reads as
// inactive even if the timer has not fired yet.
func (s *Source) Get() Flag {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flag.Active && !time.Now().Before(s.flag.ExpiresAt) {
		return Flag{}
	}
	return s.flag
}

// Close cancels the outstanding timer and freezes the source. Safe to
// call more than once.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.flag = Flag{}
}
