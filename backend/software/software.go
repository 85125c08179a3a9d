// Package software implements the CPU framebuffer backend. It presents
// into an in-memory framebuffer per window, supports every pixel format
// and is fully deterministic, which makes it the reference backend for
// tests and for hosts without a usable GPU.
package software

import (
	"fmt"
	"sync"

	"github.com/gogpu/wayhost"
	"github.com/gogpu/wayhost/backend"
)

// supported lists the formats the framebuffer accepts, in negotiation
// priority order. A CPU target has no native byte order so every
// four-byte layout works.
var supported = wayhost.Formats()

// init registers the software backend on package import.
func init() {
	backend.Register(backend.KindSoftware, func() backend.GraphicsBackend {
		return New()
	})
}

// surface is the per-context framebuffer state.
type surface struct {
	mu       sync.Mutex
	frame    *wayhost.PixelBuffer
	presents uint64
}

// Backend is the CPU framebuffer backend.
type Backend struct {
	mu          sync.Mutex
	initialized bool
	contexts    map[*backend.Window]*backend.Context
}

// New creates an uninitialized software backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend kind.
func (b *Backend) Name() backend.Kind {
	return backend.KindSoftware
}

// Init prepares the backend. It never fails: a CPU framebuffer has no
// hardware to probe.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		return fmt.Errorf("software: already initialized")
	}
	b.initialized = true
	b.contexts = make(map[*backend.Window]*backend.Context)
	return nil
}

// Close destroys all live contexts and releases the backend.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return backend.ErrNotInitialized
	}
	for _, ctx := range b.contexts {
		ctx.MarkDestroyed()
	}
	b.contexts = nil
	b.initialized = false
	return nil
}

// CreateContext negotiates a format and allocates a framebuffer sized
// to the window's backing store.
func (b *Backend) CreateContext(win *backend.Window, hints backend.FormatHints) (*backend.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	if win.Closed() {
		return nil, backend.ErrWindowClosed
	}
	if _, busy := b.contexts[win]; busy {
		return nil, backend.ErrWindowBusy
	}

	desc, err := backend.Negotiate(hints, supported)
	if err != nil {
		return nil, err
	}

	bw, bh := win.BackingSize()
	frame, err := wayhost.NewPixelBuffer(bw, bh, desc.Format)
	if err != nil {
		return nil, &backend.ContextCreationError{Reason: "framebuffer allocation", Err: err}
	}

	ctx := backend.NewContext(backend.KindSoftware, win, desc, &surface{frame: frame})
	b.contexts[win] = ctx

	wayhost.Logger().Debug("software: context created",
		"width", bw, "height", bh, "format", desc.Format.String())
	return ctx, nil
}

// PresentFrame copies the buffer into the window's framebuffer. The
// buffer must match the negotiated format and the backing size the
// context was created at; a stale context yields *SurfaceLostError
// exactly once.
func (b *Backend) PresentFrame(ctx *backend.Context, buf *wayhost.PixelBuffer) error {
	if err := b.validate(ctx); err != nil {
		return err
	}
	if err := ctx.CheckSurface(); err != nil {
		return err
	}
	if buf.Format() != ctx.Descriptor().Format {
		return fmt.Errorf("software: present format %s, negotiated %s",
			buf.Format(), ctx.Descriptor().Format)
	}
	bw, bh := ctx.BackingSize()
	if buf.Width() != bw || buf.Height() != bh {
		return fmt.Errorf("software: present %dx%d into %dx%d surface",
			buf.Width(), buf.Height(), bw, bh)
	}

	s := ctx.Handle().(*surface)
	s.mu.Lock()
	defer s.mu.Unlock()
	for y := 0; y < bh; y++ {
		copy(s.frame.Row(y), buf.Row(y))
	}
	s.presents++
	return nil
}

// DestroyContext releases the context and its framebuffer. Idempotent.
func (b *Backend) DestroyContext(ctx *backend.Context) error {
	if ctx == nil {
		return nil
	}
	if !ctx.MarkDestroyed() {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.contexts != nil && b.contexts[ctx.Window()] == ctx {
		delete(b.contexts, ctx.Window())
	}
	return nil
}

// LiveResources reports the number of live contexts.
func (b *Backend) LiveResources() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.contexts)
}

// Frame returns a copy of the most recently presented framebuffer.
// Tests and screenshot tools read back through this.
func (b *Backend) Frame(ctx *backend.Context) (*wayhost.PixelBuffer, error) {
	if err := b.validate(ctx); err != nil {
		return nil, err
	}
	s := ctx.Handle().(*surface)
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := wayhost.NewPixelBuffer(s.frame.Width(), s.frame.Height(), s.frame.Format())
	if err != nil {
		return nil, err
	}
	for y := 0; y < s.frame.Height(); y++ {
		copy(out.Row(y), s.frame.Row(y))
	}
	return out, nil
}

// Presents returns how many frames the context has presented.
func (b *Backend) Presents(ctx *backend.Context) uint64 {
	s, ok := ctx.Handle().(*surface)
	if !ok {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

func (b *Backend) validate(ctx *backend.Context) error {
	if ctx == nil || ctx.Kind() != backend.KindSoftware {
		return fmt.Errorf("software: foreign context")
	}
	if ctx.Destroyed() {
		return backend.ErrContextDestroyed
	}
	b.mu.Lock()
	initialized := b.initialized
	b.mu.Unlock()
	if !initialized {
		return backend.ErrNotInitialized
	}
	return nil
}
