// Package headless implements an offscreen backend with no
// presentation target at all. Presents are validated and counted but
// the pixels go nowhere. It exists for CI, protocol tests and tools
// that exercise the full context lifecycle without a display.
package headless

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/wayhost"
	"github.com/gogpu/wayhost/backend"
)

// init registers the headless backend on package import.
func init() {
	backend.Register(backend.KindHeadless, func() backend.GraphicsBackend {
		return New()
	})
}

// counter is the per-context state: presents observed, nothing more.
type counter struct {
	presents atomic.Uint64
}

// Backend is the offscreen backend.
type Backend struct {
	mu          sync.Mutex
	initialized bool
	contexts    map[*backend.Window]*backend.Context
}

// New creates an uninitialized headless backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend kind.
func (b *Backend) Name() backend.Kind {
	return backend.KindHeadless
}

// Init prepares the backend.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		return fmt.Errorf("headless: already initialized")
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

// CreateContext negotiates a format; any four-byte layout is accepted.
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

	desc, err := backend.Negotiate(hints, wayhost.Formats())
	if err != nil {
		return nil, err
	}

	ctx := backend.NewContext(backend.KindHeadless, win, desc, &counter{})
	b.contexts[win] = ctx
	return ctx, nil
}

// PresentFrame validates the frame against the context and counts it.
// Surface-loss and format checks behave exactly as on the visible
// backends so lifecycle tests transfer.
func (b *Backend) PresentFrame(ctx *backend.Context, buf *wayhost.PixelBuffer) error {
	if ctx == nil || ctx.Kind() != backend.KindHeadless {
		return fmt.Errorf("headless: foreign context")
	}
	if err := ctx.CheckSurface(); err != nil {
		return err
	}
	if buf.Format() != ctx.Descriptor().Format {
		return fmt.Errorf("headless: present format %s, negotiated %s",
			buf.Format(), ctx.Descriptor().Format)
	}
	bw, bh := ctx.BackingSize()
	if buf.Width() != bw || buf.Height() != bh {
		return fmt.Errorf("headless: present %dx%d into %dx%d surface",
			buf.Width(), buf.Height(), bw, bh)
	}
	ctx.Handle().(*counter).presents.Add(1)
	return nil
}

// DestroyContext releases the context. Idempotent.
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

// Presents returns how many frames the context has presented.
func (b *Backend) Presents(ctx *backend.Context) uint64 {
	c, ok := ctx.Handle().(*counter)
	if !ok {
		return 0
	}
	return c.presents.Load()
}
