package reactor

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Event is an opaque host event flowing through the reactor.
// The protocol dispatcher and the input translator give it meaning.
type Event any

// NativeEventSource wraps a host run-loop handle as a readiness source.
//
// Exactly one NativeEventSource exists per reactor. Implementations must
// make Drain safe to call from the reactor goroutine while the host
// signals the wake callback from arbitrary threads.
type NativeEventSource interface {
	// Register installs the wake callback with the host loop. The host
	// calls wake whenever events become ready; spurious wakes are
	// allowed, missed ones are not. Register is called once, at reactor
	// start.
	Register(wake func()) error

	// Drain returns all currently-ready events in host-observed order
	// without blocking. It returns nil when nothing is ready.
	Drain() []Event

	// Close releases the host handle. After Close the source must not
	// invoke wake again.
	Close() error
}

// Dispatcher is the protocol-dispatch collaborator. The reactor hands it
// each batch of ready events as one dispatch turn on the compositor
// goroutine. A turn must not block indefinitely.
type Dispatcher interface {
	Dispatch(events []Event) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(events []Event) error

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(events []Event) error { return f(events) }

// EventError attributes a dispatch-turn failure to the specific event
// being processed when it occurred. Dispatchers should wrap per-event
// failures in it so no error crosses a turn unattributed.
type EventError struct {
	Event Event
	Err   error
}

// Error returns the attributed message.
func (e *EventError) Error() string {
	return "reactor: dispatch failed for event: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *EventError) Unwrap() error { return e.Err }

// ErrSourceClosed is returned by ChannelSource.Submit after Close.
var ErrSourceClosed = errors.New("reactor: event source closed")

// ChannelSource is a NativeEventSource for hosts without a native
// callback loop: host threads submit events through a buffered channel
// and the reactor drains it. It implements the same ordering contract as
// a callback-driven source.
type ChannelSource struct {
	mu     sync.Mutex
	events []Event
	wake   atomic.Pointer[func()]
	closed atomic.Bool
}

// NewChannelSource creates an empty channel source.
func NewChannelSource() *ChannelSource {
	return &ChannelSource{}
}

// Submit hands an event to the source and wakes the reactor.
// Safe to call from any goroutine.
func (s *ChannelSource) Submit(ev Event) error {
	if s.closed.Load() {
		return ErrSourceClosed
	}
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()

	if wake := s.wake.Load(); wake != nil {
		(*wake)()
	}
	return nil
}

// Register stores the wake callback.
func (s *ChannelSource) Register(wake func()) error {
	if s.closed.Load() {
		return ErrSourceClosed
	}
	s.wake.Store(&wake)
	return nil
}

// Drain returns all pending events in submission order.
func (s *ChannelSource) Drain() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	evs := s.events
	s.events = nil
	return evs
}

// Close marks the source closed. Pending events remain drainable so a
// stopping reactor can flush them.
func (s *ChannelSource) Close() error {
	s.closed.Store(true)
	s.wake.Store(nil)
	return nil
}
