package backend

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wayhost"
)

// Kind identifies a backend implementation.
type Kind string

const (
	// KindAuto selects the highest-priority available backend.
	KindAuto Kind = ""
	// KindSoftware is the CPU framebuffer backend.
	KindSoftware Kind = "software"
	// KindHeadless is the offscreen backend for tests and tools.
	KindHeadless Kind = "headless"
	// KindWGPU is the GPU backend built on wgpu.
	KindWGPU Kind = "wgpu"
)

// FormatHints expresses the compositor's surface format preferences.
// Negotiation walks Preferred then Alternatives in order and picks the
// first format the backend supports.
type FormatHints struct {
	Preferred    wayhost.Format
	Alternatives []wayhost.Format
}

// DefaultFormatHints prefers BGRA (the common native swapchain order)
// and falls back through the remaining orders.
func DefaultFormatHints() FormatHints {
	return FormatHints{
		Preferred: wayhost.FormatBGRA8888,
		Alternatives: []wayhost.Format{
			wayhost.FormatRGBA8888,
			wayhost.FormatBGRX8888,
			wayhost.FormatRGBX8888,
			wayhost.FormatARGB8888,
			wayhost.FormatXRGB8888,
			wayhost.FormatABGR8888,
			wayhost.FormatXBGR8888,
		},
	}
}

// FormatDescriptor is the negotiated surface format. Downgraded is set
// when the backend could not honor Preferred and fell back to an
// alternative; callers that require the preferred format must check it
// rather than discover a mismatch later.
type FormatDescriptor struct {
	Format     wayhost.Format
	Texture    gputypes.TextureFormat
	Downgraded bool
}

// GraphicsBackend is implemented by each backend variant. All methods
// except PresentFrame are called from the compositor thread; contexts
// additionally enforce thread affinity via MakeCurrent.
type GraphicsBackend interface {
	// Name returns the backend kind as a stable string.
	Name() Kind

	// Init acquires backend resources. It must be called before any
	// other method; calling it twice is an error.
	Init() error

	// Close releases the backend. Contexts still alive are destroyed.
	Close() error

	// CreateContext creates a graphics context for the window,
	// negotiating a surface format from the hints. A window supports
	// at most one live context; a second create returns ErrWindowBusy.
	CreateContext(win *Window, hints FormatHints) (*Context, error)

	// PresentFrame presents one frame through the context. The buffer
	// format must match the negotiated descriptor. If the window's
	// surface changed since the context was created, PresentFrame
	// returns *SurfaceLostError exactly once per loss; the caller
	// recreates the context and retries.
	PresentFrame(ctx *Context, buf *wayhost.PixelBuffer) error

	// DestroyContext releases a context. Idempotent.
	DestroyContext(ctx *Context) error

	// LiveResources reports currently allocated backend objects,
	// used by leak checks.
	LiveResources() int
}

// Config selects and parameterizes a backend. Selection is explicit:
// callers pass a Config rather than setting process-global state.
type Config struct {
	// Kind names the backend to use; KindAuto picks by priority.
	Kind Kind

	// Hints seeds format negotiation for contexts created without
	// explicit hints. Zero value means DefaultFormatHints.
	Hints FormatHints
}

// DefaultConfig returns a Config with automatic backend selection.
func DefaultConfig() Config {
	return Config{Kind: KindAuto, Hints: DefaultFormatHints()}
}

// WithKind returns a copy of the config selecting the given backend.
func (c Config) WithKind(kind Kind) Config {
	c.Kind = kind
	return c
}
