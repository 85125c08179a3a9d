package reactor

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/wayhost"
)

// State is the reactor lifecycle state.
type State uint32

// Reactor states. ShuttingDown is terminal.
const (
	StateIdle State = iota
	StateArmed
	StateDispatching
	StateShuttingDown
)

// stateLoopEntered is internal: the dispatch loop has entered its
// select and owns teardown. Reported as StateArmed; externally the
// reactor is armed between turns either way.
const stateLoopEntered = uint32(StateShuttingDown) + 1

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateDispatching:
		return "dispatching"
	case StateShuttingDown:
		return "shutting-down"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// Reactor errors.
var (
	// ErrRegistration is returned when host loop registration fails at
	// startup. Fatal to the compositor instance.
	ErrRegistration = errors.New("reactor: host loop registration failed")

	// ErrNotIdle is returned by Start on an already-started reactor.
	ErrNotIdle = errors.New("reactor: already started")

	// ErrNotArmed is returned by Run when Start has not succeeded.
	ErrNotArmed = errors.New("reactor: not armed")

	// ErrShuttingDown is returned for operations on a stopped reactor.
	// A stopped reactor cannot restart; create a new one.
	ErrShuttingDown = errors.New("reactor: shutting down")
)

// FusionSource registers the compositor's dispatch readiness with a host
// event source and drives one protocol-dispatch turn per host wakeup.
//
// Start and Run must be called from the designated compositor goroutine;
// Run locks it to its OS thread for the duration of the loop. Stop and
// Post are safe from any goroutine.
type FusionSource struct {
	source     NativeEventSource
	dispatcher Dispatcher

	state atomic.Uint32

	// ready holds cross-thread events posted between turns. Host
	// callbacks marshal payloads here; they never touch protocol state.
	ready readyQueue

	wakeCh chan struct{}
	stopCh chan struct{}

	// doneCh closes when teardown has completed, whichever side owned
	// it: the loop after draining, a direct Stop on a loop that never
	// entered, or Start after a failed registration.
	doneCh chan struct{}

	stopOnce sync.Once
}

// New creates a reactor fusing the given source with the dispatcher.
func New(source NativeEventSource, dispatcher Dispatcher) *FusionSource {
	return &FusionSource{
		source:     source,
		dispatcher: dispatcher,
		wakeCh:     make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (f *FusionSource) State() State {
	s := f.state.Load()
	if s == stateLoopEntered {
		return StateArmed
	}
	return State(s)
}

// Start registers the native event source with the host loop,
// transitioning Idle to Armed. Registration failure is fatal to the
// compositor instance and leaves the reactor unusable.
func (f *FusionSource) Start() error {
	if !f.state.CompareAndSwap(uint32(StateIdle), uint32(StateArmed)) {
		if f.State() == StateShuttingDown {
			return ErrShuttingDown
		}
		return ErrNotIdle
	}
	if err := f.source.Register(f.wake); err != nil {
		f.state.Store(uint32(StateShuttingDown))
		close(f.doneCh) // the loop will never enter; unblock any Stop
		return fmt.Errorf("%w: %w", ErrRegistration, err)
	}
	wayhost.Logger().Info("reactor: armed")
	return nil
}

// wake signals dispatch readiness. Called by the host from any thread;
// coalesces while a turn is pending.
func (f *FusionSource) wake() {
	select {
	case f.wakeCh <- struct{}{}:
	default:
	}
}

// Post marshals an event from an arbitrary thread into the ready queue
// and wakes the dispatcher. Use it for host callbacks that deliver
// payloads directly instead of through the native source's own queue.
func (f *FusionSource) Post(ev Event) error {
	if f.State() == StateShuttingDown {
		return ErrShuttingDown
	}
	f.ready.push(ev)
	f.wake()
	return nil
}

// Run executes the dispatch loop on the calling goroutine until Stop.
// The goroutine is locked to its OS thread: all dispatch turns, and any
// context/present work the dispatcher performs, happen on that thread.
//
// Entering the loop is a state transition: Run claims the armed reactor
// atomically, so a concurrent Stop either observes the claim and waits
// for the loop to exit, or wins the race and owns teardown itself — in
// which case Run returns nil, the same clean stop the loop would have
// delivered.
func (f *FusionSource) Run() error {
	if !f.state.CompareAndSwap(uint32(StateArmed), stateLoopEntered) {
		if f.State() == StateShuttingDown && f.stopRequested() {
			return nil // stopped before the loop entered
		}
		return ErrNotArmed
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(f.doneCh)

	for {
		select {
		case <-f.stopCh:
			f.shutdown()
			return nil
		case <-f.wakeCh:
			f.turn()
		}
	}
}

// turn performs one dispatch turn: drain everything currently ready,
// hand it to the dispatcher once, re-arm. No event is dispatched twice
// and the turn never blocks past the dispatcher's return.
func (f *FusionSource) turn() {
	f.state.Store(uint32(StateDispatching))
	defer f.state.Store(stateLoopEntered)

	events := f.collect()
	if len(events) == 0 {
		return
	}
	f.dispatch(events)
}

// stopRequested reports whether Stop has been called.
func (f *FusionSource) stopRequested() bool {
	select {
	case <-f.stopCh:
		return true
	default:
		return false
	}
}

// collect merges the native source's ready events with cross-thread
// posts, preserving each source's internal order.
func (f *FusionSource) collect() []Event {
	events := f.source.Drain()
	if posted := f.ready.drain(); len(posted) > 0 {
		events = append(events, posted...)
	}
	return events
}

func (f *FusionSource) dispatch(events []Event) {
	err := f.dispatcher.Dispatch(events)
	if err == nil {
		return
	}
	// Never swallow a turn error silently; attribute it if possible.
	var evErr *EventError
	if errors.As(err, &evErr) {
		wayhost.Logger().Warn("reactor: dispatch turn failed",
			"event", fmt.Sprintf("%T", evErr.Event), "err", evErr.Err)
		return
	}
	wayhost.Logger().Warn("reactor: dispatch turn failed", "events", len(events), "err", err)
}

// Stop requests cooperative shutdown from any goroutine: the loop
// finishes the turn in progress, drains already-queued events into one
// final dispatch, then releases the native source. Stop blocks until
// the loop has exited. ShuttingDown is terminal.
func (f *FusionSource) Stop() {
	f.stopOnce.Do(func() {
		close(f.stopCh)
	})
	// Claim teardown if the loop has not entered. Exactly one side wins:
	// either this CAS moves armed/idle to shutting-down and tears down
	// here, or the loop holds the claim and doneCh marks its exit.
	if f.state.CompareAndSwap(uint32(StateArmed), uint32(StateShuttingDown)) ||
		f.state.CompareAndSwap(uint32(StateIdle), uint32(StateShuttingDown)) {
		f.shutdown()
		close(f.doneCh)
		return
	}
	<-f.doneCh
}

// shutdown drains remaining events and closes the source. Runs on the
// goroutine that owned teardown: the loop, or Stop when the loop never
// entered.
func (f *FusionSource) shutdown() {
	f.state.Store(uint32(StateShuttingDown))

	// No accepted event is silently discarded: flush whatever the host
	// queued before the stop was observed.
	if events := f.collect(); len(events) > 0 {
		wayhost.Logger().Debug("reactor: flushing on shutdown", "events", len(events))
		f.dispatch(events)
	}
	if err := f.source.Close(); err != nil {
		wayhost.Logger().Warn("reactor: source close failed", "err", err)
	}
	wayhost.Logger().Info("reactor: stopped")
}

// readyQueue is the thread-safe handoff between host threads and the
// dispatch loop. A mutex-protected slice with swap-drain: producers
// append, the single consumer takes the whole batch.
type readyQueue struct {
	mu    sync.Mutex
	items []Event
}

func (q *readyQueue) push(ev Event) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()
}

func (q *readyQueue) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}
