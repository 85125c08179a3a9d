// Package reactor fuses a host operating system's event-delivery
// mechanism with the compositor's single-threaded protocol dispatcher.
//
// The host's run loop is abstracted behind the [NativeEventSource]
// capability interface (register, drain, close, with a wake callback for
// readiness). [FusionSource] registers with the source and turns each
// host wakeup into exactly one protocol-dispatch turn, so there is never
// a second polling loop competing with the host's.
//
// # State machine
//
//	Idle ── Start ──▶ Armed ── wake ──▶ Dispatching
//	                    ▲                  │
//	                    └── turn done ─────┘
//	Armed ── Stop ──▶ ShuttingDown (terminal)
//
// No event is lost between Armed and Dispatching, delivery preserves
// host-observed order, and a stopped reactor first finishes any accepted
// turn and drains already-queued events. ShuttingDown is terminal;
// restarting requires a new FusionSource.
//
// # Threading
//
// Run executes on the designated compositor goroutine and locks it to
// its OS thread. Host callbacks arriving on other threads hand events
// off through Post, which marshals into a mutex-protected ready queue;
// they must never touch protocol state directly.
//
// On hosts without a callback-driven run loop, [ChannelSource] provides
// the same contract over a Go channel, and on Linux [FDSource] adapts
// any readiness-multiplexed file descriptor via poll(2).
package reactor
