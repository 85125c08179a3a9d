// Package wayhost provides the native host integration layer that lets a
// Wayland-style compositor run on operating systems whose windowing stacks
// do not expose zero-copy buffer sharing or kernel modesetting.
//
// # Overview
//
// wayhost sits entirely below the compositor's wire protocol, on the
// native-OS side. It covers four concerns:
//
//   - Native context and surface lifecycle (backend/): create a rendering
//     context against a host window, present frames, recover from
//     resize/invalidation races, track the backing-store scale factor.
//   - Event-loop fusion (reactor/): register the compositor's dispatch
//     readiness with the host's event-delivery mechanism so host wakeups
//     drive protocol-dispatch turns, without a second polling loop.
//   - Input translation (input/): map host input events into the
//     compositor's normalized input sequence, preserving temporal order.
//   - Buffer format conversion (swizzle/): convert pixel buffers between
//     formats when zero-copy sharing is unavailable, with a wide block
//     path and a byte-identical scalar reference path.
//
// # Quick Start
//
//	cfg := backend.DefaultConfig().WithKind(backend.KindSoftware)
//	b, err := backend.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	ctx, err := b.CreateContext(win, backend.FormatHints{Preferred: wayhost.FormatBGRA8888})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.DestroyContext(ctx)
//
// # Architecture
//
// The library is organized into:
//   - Root package: shared pixel formats, pixel buffers, logging
//   - backend/: backend contract, registry, and per-stack variants
//     (software, headless, wgpu)
//   - reactor/: single-threaded dispatch fusion with the host loop
//   - input/: normalized input model and gesture decomposition
//   - swizzle/: planned, table-driven pixel format conversion
//   - cache/: sharded concurrent cache used for conversion plans
//
// # Threading Model
//
// One designated goroutine, locked to its OS thread, performs all protocol
// dispatch and all context/present operations for a compositor instance.
// Host callbacks arriving on other threads hand off through the reactor's
// thread-safe ready queue; they never touch contexts or protocol state
// directly.
package wayhost

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
