package backend

import (
	"math"
	"sync"
)

// ResizeEvent reports a size or scale-factor change on a window.
// Not an error: it is informational and triggers a backing-store
// recompute in the compositor. Width and Height are backing-store
// pixels, not logical units.
type ResizeEvent struct {
	Width  int
	Height int
	Scale  float64
}

// Window is the host window handle a backend renders into. Host glue
// constructs one per native window and forwards native resize and
// scale-change notifications through Resize and SetScale; backends
// observe the window's generation to detect surface loss.
//
// Window is safe for concurrent use: host notifications arrive on host
// threads while the compositor thread presents.
type Window struct {
	mu         sync.Mutex
	width      int // logical units
	height     int
	scale      float64
	generation uint64
	closed     bool

	// resizes holds the latest pending resize; a newer event replaces
	// an unconsumed older one, since only the final size matters.
	resizes chan ResizeEvent
}

// NewWindow creates a window with a logical size and scale factor.
func NewWindow(width, height int, scale float64) *Window {
	if scale <= 0 {
		scale = 1
	}
	return &Window{
		width:   width,
		height:  height,
		scale:   scale,
		resizes: make(chan ResizeEvent, 1),
	}
}

// Size returns the logical size.
func (w *Window) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Scale returns the current backing-store scale factor.
func (w *Window) Scale() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

// BackingSize returns the backing-store size in pixels
// (logical size times scale, rounded).
func (w *Window) BackingSize() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.backingLocked()
}

func (w *Window) backingLocked() (int, int) {
	return int(math.Round(float64(w.width) * w.scale)),
		int(math.Round(float64(w.height) * w.scale))
}

// Generation returns the surface generation. It advances on every
// resize, scale change or close; a context created at generation g is
// lost once the window moves past g.
func (w *Window) Generation() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generation
}

// Resize applies a host resize notification.
func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	if w.closed || (width == w.width && height == w.height) {
		w.mu.Unlock()
		return
	}
	w.width, w.height = width, height
	w.generation++
	ev := w.resizeEventLocked()
	w.mu.Unlock()
	w.publish(ev)
}

// SetScale applies a host scale-factor change (HiDPI toggle).
func (w *Window) SetScale(scale float64) {
	if scale <= 0 {
		return
	}
	w.mu.Lock()
	if w.closed || scale == w.scale {
		w.mu.Unlock()
		return
	}
	w.scale = scale
	w.generation++
	ev := w.resizeEventLocked()
	w.mu.Unlock()
	w.publish(ev)
}

func (w *Window) resizeEventLocked() ResizeEvent {
	bw, bh := w.backingLocked()
	return ResizeEvent{Width: bw, Height: bh, Scale: w.scale}
}

// publish replaces any unconsumed resize event with the newest one.
func (w *Window) publish(ev ResizeEvent) {
	for {
		select {
		case w.resizes <- ev:
			return
		default:
			select {
			case <-w.resizes:
			default:
			}
		}
	}
}

// Resizes returns the channel carrying resize events. Host glue
// typically forwards these into the reactor so the compositor handles
// them on its dispatch thread.
func (w *Window) Resizes() <-chan ResizeEvent {
	return w.resizes
}

// Close marks the window closed and invalidates its surface.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.generation++
}

// Closed reports whether the window has been closed.
func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
