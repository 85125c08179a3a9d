package backend

import (
	"errors"
	"fmt"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrContextDestroyed is returned when a destroyed context is used.
	// DestroyContext itself is idempotent and never returns this.
	ErrContextDestroyed = errors.New("backend: context destroyed")

	// ErrWindowClosed is returned when creating a context against a
	// closed window.
	ErrWindowClosed = errors.New("backend: window closed")

	// ErrWindowBusy is returned when a window already has a live
	// context. At most one context exists per window handle.
	ErrWindowBusy = errors.New("backend: window already has a context")
)

// ContextCreationError reports that no compatible native pixel format
// exists for a window. Fatal to that window only; the compositor keeps
// running other windows.
type ContextCreationError struct {
	Reason string
	Err    error
}

// Error returns the failure description.
func (e *ContextCreationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend: context creation failed: %s: %v", e.Reason, e.Err)
	}
	return "backend: context creation failed: " + e.Reason
}

// Unwrap returns the underlying error, if any.
func (e *ContextCreationError) Unwrap() error { return e.Err }

// ThreadBindingError reports a context made current from a thread while
// another thread still holds it. This is a programming error: it is
// surfaced immediately and never silently ignored.
type ThreadBindingError struct {
	Owner ThreadToken
}

// Error returns the failure description.
func (e *ThreadBindingError) Error() string {
	return fmt.Sprintf("backend: context already current on thread %d", int64(e.Owner))
}

// SurfaceLostError reports a resize or invalidation race during present.
// Recoverable: destroy the context, recreate it against the same window,
// redraw. Width and Height carry the surface's new backing-store pixel
// size so the redraw can allocate correctly.
type SurfaceLostError struct {
	Width  int
	Height int
}

// Error returns the failure description.
func (e *SurfaceLostError) Error() string {
	return fmt.Sprintf("backend: surface lost (now %dx%d)", e.Width, e.Height)
}
