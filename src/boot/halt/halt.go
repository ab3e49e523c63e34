// Package halt stops a core for good. The boot path halts when it cannot go
// on: the core is at an exception level the MMU setup does not support, an
// exception is fatal, a debug break was hit or the run hook returned.
package halt

import (
	"fmt"
	"sync"
)

// Reason says why a core was halted.
type Reason uint8

const (
	UnsupportedLevel Reason = iota + 1
	Fatal
	Break
	RunReturned
)

func (r Reason) String() string {
	switch r {
	case UnsupportedLevel:
		return "unsupported exception level"
	case Fatal:
		return "fatal exception"
	case Break:
		return "debug break"
	case RunReturned:
		return "run returned"
	}
	return fmt.Sprintf("Reason(%d)", uint8(r))
}

// Halter stops the calling core. On the device Halt never returns.
type Halter interface {
	Halt(core uint32, r Reason)
}

// Func adapts a function to a Halter.
type Func func(core uint32, r Reason)

func (f Func) Halt(core uint32, r Reason) { f(core, r) }

// Event is one recorded halt.
type Event struct {
	Core   uint32
	Reason Reason
}

// Recorder remembers halts and returns; it is the Halter for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Halt(core uint32, reason Reason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Core: core, Reason: reason})
}

// Events returns the halts so far, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent halt.
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}
