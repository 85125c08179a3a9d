package backend

import (
	"runtime"
	"sync/atomic"
)

// ThreadToken identifies an OS-thread-bound caller. Go offers no
// stable goroutine or thread identity, so binding is explicit: a
// goroutine calls BindThread once, holds the returned token, and
// passes it to context operations that require affinity.
type ThreadToken int64

var nextToken atomic.Int64

// BindThread pins the calling goroutine to its OS thread and returns
// a token representing that binding. The caller must keep running on
// the same goroutine for the token to stay meaningful, and should
// call runtime.UnlockOSThread when done presenting.
func BindThread() ThreadToken {
	runtime.LockOSThread()
	return ThreadToken(nextToken.Add(1))
}

// Context is a live graphics context on one window. It is a tagged
// variant: Kind names the backend that created it, and backends store
// their private surface state in the handle. The exported surface
// metadata (size, format, generation) reads the same regardless of
// kind.
type Context struct {
	kind   Kind
	window *Window
	desc   FormatDescriptor

	// backing size and generation captured at creation; compared
	// against the window on present to detect surface loss.
	backingW   int
	backingH   int
	generation uint64

	// lostReported flips when a surface loss has been returned once,
	// so each loss produces exactly one SurfaceLostError.
	lostReported atomic.Bool

	owner     atomic.Int64 // ThreadToken holding the context, 0 if free
	destroyed atomic.Bool

	handle any // backend-private surface state
}

// NewContext builds a context for a backend implementation. The
// generation and backing size are captured from the window at call
// time.
func NewContext(kind Kind, win *Window, desc FormatDescriptor, handle any) *Context {
	bw, bh := win.BackingSize()
	return &Context{
		kind:       kind,
		window:     win,
		desc:       desc,
		backingW:   bw,
		backingH:   bh,
		generation: win.Generation(),
		handle:     handle,
	}
}

// Kind returns the backend kind that created this context.
func (c *Context) Kind() Kind { return c.kind }

// Window returns the window this context presents to.
func (c *Context) Window() *Window { return c.window }

// Descriptor returns the negotiated surface format.
func (c *Context) Descriptor() FormatDescriptor { return c.desc }

// BackingSize returns the backing-store size the context was created
// at, in pixels.
func (c *Context) BackingSize() (width, height int) {
	return c.backingW, c.backingH
}

// Generation returns the window generation the context was created at.
func (c *Context) Generation() uint64 { return c.generation }

// Handle returns the backend-private surface state.
func (c *Context) Handle() any { return c.handle }

// Destroyed reports whether the context has been destroyed.
func (c *Context) Destroyed() bool { return c.destroyed.Load() }

// MarkDestroyed flips the destroyed flag; returns false if it was
// already set. Backend implementations call this from DestroyContext
// to make destruction idempotent.
func (c *Context) MarkDestroyed() bool {
	return c.destroyed.CompareAndSwap(false, true)
}

// MakeCurrent claims the context for the thread behind the token.
// Returns *ThreadBindingError if another token holds it, and
// ErrContextDestroyed after destruction.
func (c *Context) MakeCurrent(tok ThreadToken) error {
	if c.destroyed.Load() {
		return ErrContextDestroyed
	}
	if c.owner.CompareAndSwap(0, int64(tok)) {
		return nil
	}
	owner := c.owner.Load()
	if owner == int64(tok) {
		return nil // already current on this token
	}
	return &ThreadBindingError{Owner: ThreadToken(owner)}
}

// Release gives up the context. Only the owning token may release.
func (c *Context) Release(tok ThreadToken) error {
	if c.owner.CompareAndSwap(int64(tok), 0) {
		return nil
	}
	owner := c.owner.Load()
	if owner == 0 {
		return nil // already released
	}
	return &ThreadBindingError{Owner: ThreadToken(owner)}
}

// Current reports whether the token currently holds the context.
func (c *Context) Current(tok ThreadToken) bool {
	return c.owner.Load() == int64(tok)
}

// CheckSurface compares the context against the window's current
// surface. On the first call after a loss it returns
// *SurfaceLostError carrying the new backing size; repeated calls for
// the same loss return ErrContextDestroyed so a stale context cannot
// present twice. Backend implementations call this at the top of
// PresentFrame.
func (c *Context) CheckSurface() error {
	if c.destroyed.Load() {
		return ErrContextDestroyed
	}
	if c.window.Closed() {
		return ErrWindowClosed
	}
	if c.window.Generation() == c.generation {
		return nil
	}
	bw, bh := c.window.BackingSize()
	if c.lostReported.CompareAndSwap(false, true) {
		return &SurfaceLostError{Width: bw, Height: bh}
	}
	return ErrContextDestroyed
}
