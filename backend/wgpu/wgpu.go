// Package wgpu implements the GPU backend on gogpu/wgpu. It owns the
// instance, adapter, device and queue, negotiates the two formats a
// WebGPU swapchain speaks (RGBA8888 and BGRA8888) and presents frames
// by uploading them as textures through a TextureSink.
package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/wayhost"
	"github.com/gogpu/wayhost/backend"
	"github.com/gogpu/wayhost/swizzle"
)

// supported lists the formats with a WebGPU texture equivalent, in
// negotiation priority order.
var supported = []wayhost.Format{
	wayhost.FormatBGRA8888,
	wayhost.FormatRGBA8888,
}

// init registers the wgpu backend on package import.
func init() {
	backend.Register(backend.KindWGPU, func() backend.GraphicsBackend {
		return New()
	})
}

// surface is the per-context texture state.
type surface struct {
	mu       sync.Mutex
	texture  any
	staging  *wayhost.PixelBuffer // RGBA conversion buffer for BGRA surfaces
	presents uint64
}

// Backend is the GPU backend.
type Backend struct {
	mu          sync.Mutex
	initialized bool

	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID
	info     *GPUInfo

	sink  TextureSink
	codec *swizzle.Codec

	contexts map[*backend.Window]*backend.Context
}

// New creates an uninitialized GPU backend. Frames presented without a
// sink are validated but discarded; call SetSink to receive textures.
func New() *Backend {
	return &Backend{codec: swizzle.NewCodec()}
}

// NewWithSink creates a GPU backend delivering textures to sink.
func NewWithSink(sink TextureSink) *Backend {
	b := New()
	b.sink = sink
	return b
}

// SetSink installs the texture sink; nil disables delivery.
func (b *Backend) SetSink(sink TextureSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink = sink
}

// Name returns the backend kind.
func (b *Backend) Name() backend.Kind {
	return backend.KindWGPU
}

// Info returns the selected adapter's description, nil before Init.
func (b *Backend) Info() *GPUInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.info
}

// Init creates the GPU resources: instance, adapter, device, queue.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	desc := &gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
		Flags:    0,
	}
	b.instance = core.NewInstance(desc)

	adapterID, err := b.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", backend.ErrBackendNotAvailable, err)
	}
	b.adapter = adapterID
	logAdapter(adapterID)
	b.info, _ = adapterInfo(adapterID)

	deviceID, err := createDevice(adapterID, "wayhost-device")
	if err != nil {
		b.teardownLocked()
		return err
	}
	b.device = deviceID

	queueID, err := deviceQueue(deviceID)
	if err != nil {
		b.teardownLocked()
		return err
	}
	b.queue = queueID

	b.contexts = make(map[*backend.Window]*backend.Context)
	b.initialized = true
	wayhost.Logger().Info("wgpu: backend initialized")
	return nil
}

// Close destroys live contexts and releases GPU resources in reverse
// order of creation. The queue is released with the device.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return backend.ErrNotInitialized
	}
	for _, ctx := range b.contexts {
		b.destroySurfaceLocked(ctx)
		ctx.MarkDestroyed()
	}
	b.contexts = nil
	b.teardownLocked()
	b.initialized = false
	return nil
}

func (b *Backend) teardownLocked() {
	if err := releaseDevice(b.device); err != nil {
		wayhost.Logger().Warn("wgpu: device release", "error", err)
	}
	b.device = core.DeviceID{}
	b.queue = core.QueueID{}
	if err := releaseAdapter(b.adapter); err != nil {
		wayhost.Logger().Warn("wgpu: adapter release", "error", err)
	}
	b.adapter = core.AdapterID{}
	b.instance = nil
	b.info = nil
}

// CreateContext negotiates a swapchain-capable format for the window.
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

	ctx := backend.NewContext(backend.KindWGPU, win, desc, &surface{})
	b.contexts[win] = ctx

	bw, bh := win.BackingSize()
	wayhost.Logger().Debug("wgpu: context created",
		"width", bw, "height", bh,
		"format", desc.Format.String(), "downgraded", desc.Downgraded)
	return ctx, nil
}

// PresentFrame uploads the frame as a texture. The first present
// creates the texture, later ones update it in place. BGRA frames are
// converted to the RGBA upload order through the swizzle codec.
func (b *Backend) PresentFrame(ctx *backend.Context, buf *wayhost.PixelBuffer) error {
	if ctx == nil || ctx.Kind() != backend.KindWGPU {
		return fmt.Errorf("wgpu: foreign context")
	}
	b.mu.Lock()
	if !b.initialized {
		b.mu.Unlock()
		return backend.ErrNotInitialized
	}
	sink := b.sink
	b.mu.Unlock()

	if err := ctx.CheckSurface(); err != nil {
		return err
	}
	if buf.Format() != ctx.Descriptor().Format {
		return fmt.Errorf("wgpu: present format %s, negotiated %s",
			buf.Format(), ctx.Descriptor().Format)
	}
	bw, bh := ctx.BackingSize()
	if buf.Width() != bw || buf.Height() != bh {
		return fmt.Errorf("wgpu: present %dx%d into %dx%d surface",
			buf.Width(), buf.Height(), bw, bh)
	}

	s := ctx.Handle().(*surface)
	s.mu.Lock()
	defer s.mu.Unlock()

	upload, err := b.uploadPixels(s, buf)
	if err != nil {
		return err
	}
	s.presents++
	if sink == nil {
		return nil
	}

	if s.texture == nil {
		tex, err := sink.CreateTexture(bw, bh, upload)
		if err != nil {
			return err
		}
		s.texture = tex
		return nil
	}
	if err := sink.UpdateTexture(s.texture, upload); err != nil {
		if err != ErrNoUpdater {
			return err
		}
		// No in-place update path: recreate the texture.
		sink.DestroyTexture(s.texture)
		s.texture = nil
		tex, err := sink.CreateTexture(bw, bh, upload)
		if err != nil {
			return err
		}
		s.texture = tex
	}
	return nil
}

// uploadPixels returns tightly packed RGBA bytes for the frame,
// converting from BGRA through a reused staging buffer when needed.
func (b *Backend) uploadPixels(s *surface, buf *wayhost.PixelBuffer) ([]byte, error) {
	if buf.Format() == wayhost.FormatRGBA8888 {
		if buf.Stride() == buf.Width()*buf.Format().BytesPerPixel() {
			return buf.Data(), nil
		}
		// Padded stride: repack rows tightly.
		packed := make([]byte, buf.Width()*buf.Height()*4)
		for y := 0; y < buf.Height(); y++ {
			copy(packed[y*buf.Width()*4:], buf.Row(y))
		}
		return packed, nil
	}

	if s.staging == nil ||
		s.staging.Width() != buf.Width() || s.staging.Height() != buf.Height() {
		staging, err := wayhost.NewPixelBuffer(buf.Width(), buf.Height(), wayhost.FormatRGBA8888)
		if err != nil {
			return nil, err
		}
		s.staging = staging
	}
	if err := b.codec.Convert(s.staging, buf); err != nil {
		return nil, fmt.Errorf("wgpu: upload conversion: %w", err)
	}
	return s.staging.Data(), nil
}

// DestroyContext releases the context and its texture. Idempotent.
func (b *Backend) DestroyContext(ctx *backend.Context) error {
	if ctx == nil {
		return nil
	}
	if !ctx.MarkDestroyed() {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroySurfaceLocked(ctx)
	if b.contexts != nil && b.contexts[ctx.Window()] == ctx {
		delete(b.contexts, ctx.Window())
	}
	return nil
}

func (b *Backend) destroySurfaceLocked(ctx *backend.Context) {
	s, ok := ctx.Handle().(*surface)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.texture != nil && b.sink != nil {
		b.sink.DestroyTexture(s.texture)
	}
	s.texture = nil
	s.staging = nil
}

// LiveResources reports the number of live contexts.
func (b *Backend) LiveResources() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.contexts)
}

// Texture returns the context's current texture, nil before the first
// present. The host draws it through its own renderer.
func (b *Backend) Texture(ctx *backend.Context) any {
	s, ok := ctx.Handle().(*surface)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.texture
}
