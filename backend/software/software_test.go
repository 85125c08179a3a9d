package software

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/wayhost"
	"github.com/gogpu/wayhost/backend"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	b := New()
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func newContext(t *testing.T, b *Backend, win *backend.Window) *backend.Context {
	t.Helper()
	ctx, err := b.CreateContext(win, backend.DefaultFormatHints())
	if err != nil {
		t.Fatalf("CreateContext() error = %v", err)
	}
	return ctx
}

func frameFor(t *testing.T, ctx *backend.Context, fill byte) *wayhost.PixelBuffer {
	t.Helper()
	w, h := ctx.BackingSize()
	buf, err := wayhost.NewPixelBuffer(w, h, ctx.Descriptor().Format)
	if err != nil {
		t.Fatalf("NewPixelBuffer() error = %v", err)
	}
	for i := range buf.Data() {
		buf.Data()[i] = fill
	}
	return buf
}

func TestRegisteredOnImport(t *testing.T) {
	if !backend.IsRegistered(backend.KindSoftware) {
		t.Fatal("software backend not registered")
	}
}

func TestUseBeforeInit(t *testing.T) {
	b := New()
	_, err := b.CreateContext(backend.NewWindow(10, 10, 1), backend.DefaultFormatHints())
	if !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("CreateContext() error = %v, want ErrNotInitialized", err)
	}
}

func TestPresentReadback(t *testing.T) {
	b := newBackend(t)
	win := backend.NewWindow(16, 8, 1)
	ctx := newContext(t, b, win)

	buf := frameFor(t, ctx, 0x5A)
	if err := b.PresentFrame(ctx, buf); err != nil {
		t.Fatalf("PresentFrame() error = %v", err)
	}

	got, err := b.Frame(ctx)
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if !bytes.Equal(got.Data(), buf.Data()) {
		t.Error("readback differs from presented frame")
	}
	if b.Presents(ctx) != 1 {
		t.Errorf("Presents = %d, want 1", b.Presents(ctx))
	}
}

func TestOneContextPerWindow(t *testing.T) {
	b := newBackend(t)
	win := backend.NewWindow(32, 32, 1)
	ctx := newContext(t, b, win)

	if _, err := b.CreateContext(win, backend.DefaultFormatHints()); !errors.Is(err, backend.ErrWindowBusy) {
		t.Fatalf("second CreateContext() error = %v, want ErrWindowBusy", err)
	}

	// Destroying frees the slot.
	if err := b.DestroyContext(ctx); err != nil {
		t.Fatalf("DestroyContext() error = %v", err)
	}
	if _, err := b.CreateContext(win, backend.DefaultFormatHints()); err != nil {
		t.Fatalf("CreateContext() after destroy error = %v", err)
	}
}

func TestCreateOnClosedWindow(t *testing.T) {
	b := newBackend(t)
	win := backend.NewWindow(32, 32, 1)
	win.Close()
	if _, err := b.CreateContext(win, backend.DefaultFormatHints()); !errors.Is(err, backend.ErrWindowClosed) {
		t.Errorf("CreateContext() error = %v, want ErrWindowClosed", err)
	}
}

func TestResizeDuringPresentRecovery(t *testing.T) {
	b := newBackend(t)
	win := backend.NewWindow(100, 100, 1)
	ctx := newContext(t, b, win)

	if err := b.PresentFrame(ctx, frameFor(t, ctx, 1)); err != nil {
		t.Fatalf("first present error = %v", err)
	}

	// Host resizes between frames.
	win.Resize(200, 150)

	err := b.PresentFrame(ctx, frameFor(t, ctx, 2))
	var lost *backend.SurfaceLostError
	if !errors.As(err, &lost) {
		t.Fatalf("present after resize error = %v, want *SurfaceLostError", err)
	}
	if lost.Width != 200 || lost.Height != 150 {
		t.Errorf("lost size = %dx%d, want 200x150", lost.Width, lost.Height)
	}

	// The loss is reported exactly once per context.
	if err := b.PresentFrame(ctx, frameFor(t, ctx, 2)); !errors.Is(err, backend.ErrContextDestroyed) {
		t.Fatalf("repeated present error = %v, want ErrContextDestroyed", err)
	}

	// Recreation against the same window succeeds and the next present
	// goes through at the new size.
	if err := b.DestroyContext(ctx); err != nil {
		t.Fatalf("DestroyContext() error = %v", err)
	}
	ctx2 := newContext(t, b, win)
	bw, bh := ctx2.BackingSize()
	if bw != 200 || bh != 150 {
		t.Fatalf("recreated backing = %dx%d, want 200x150", bw, bh)
	}
	if err := b.PresentFrame(ctx2, frameFor(t, ctx2, 3)); err != nil {
		t.Fatalf("present after recreation error = %v", err)
	}
}

func TestPresentWrongFormat(t *testing.T) {
	b := newBackend(t)
	win := backend.NewWindow(8, 8, 1)
	ctx, err := b.CreateContext(win, backend.FormatHints{Preferred: wayhost.FormatBGRA8888})
	if err != nil {
		t.Fatalf("CreateContext() error = %v", err)
	}
	buf, _ := wayhost.NewPixelBuffer(8, 8, wayhost.FormatRGBA8888)
	if err := b.PresentFrame(ctx, buf); err == nil {
		t.Error("present with mismatched format should error")
	}
}

func TestPresentWrongSize(t *testing.T) {
	b := newBackend(t)
	win := backend.NewWindow(8, 8, 1)
	ctx := newContext(t, b, win)
	buf, _ := wayhost.NewPixelBuffer(4, 4, ctx.Descriptor().Format)
	if err := b.PresentFrame(ctx, buf); err == nil {
		t.Error("present with mismatched size should error")
	}
}

func TestDestroyIdempotent(t *testing.T) {
	b := newBackend(t)
	win := backend.NewWindow(8, 8, 1)
	ctx := newContext(t, b, win)

	for i := 0; i < 3; i++ {
		if err := b.DestroyContext(ctx); err != nil {
			t.Fatalf("DestroyContext() #%d error = %v", i+1, err)
		}
	}
	if err := b.DestroyContext(nil); err != nil {
		t.Errorf("DestroyContext(nil) error = %v", err)
	}
}

func TestNoResourceLeak(t *testing.T) {
	b := newBackend(t)
	base := b.LiveResources()

	for i := 0; i < 1000; i++ {
		win := backend.NewWindow(16, 16, 1)
		ctx := newContext(t, b, win)
		if err := b.PresentFrame(ctx, frameFor(t, ctx, byte(i))); err != nil {
			t.Fatalf("present #%d error = %v", i, err)
		}
		if err := b.DestroyContext(ctx); err != nil {
			t.Fatalf("destroy #%d error = %v", i, err)
		}
	}

	if got := b.LiveResources(); got != base {
		t.Errorf("LiveResources = %d after churn, want %d", got, base)
	}
}

func TestScaleChangeLosesSurface(t *testing.T) {
	b := newBackend(t)
	win := backend.NewWindow(100, 100, 1)
	ctx := newContext(t, b, win)

	win.SetScale(2)

	err := b.PresentFrame(ctx, frameFor(t, ctx, 1))
	var lost *backend.SurfaceLostError
	if !errors.As(err, &lost) {
		t.Fatalf("present after scale change error = %v, want *SurfaceLostError", err)
	}
	if lost.Width != 200 || lost.Height != 200 {
		t.Errorf("lost size = %dx%d, want 200x200", lost.Width, lost.Height)
	}
}

func TestCloseDestroysContexts(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	win := backend.NewWindow(8, 8, 1)
	ctx := newContext(t, b, win)

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !ctx.Destroyed() {
		t.Error("context survived backend Close")
	}
	if err := b.PresentFrame(ctx, nil); err == nil {
		t.Error("present after Close should error")
	}
}

func TestNegotiationEveryFormat(t *testing.T) {
	b := newBackend(t)
	for _, f := range wayhost.Formats() {
		win := backend.NewWindow(4, 4, 1)
		ctx, err := b.CreateContext(win, backend.FormatHints{Preferred: f})
		if err != nil {
			t.Fatalf("CreateContext(%s) error = %v", f, err)
		}
		if ctx.Descriptor().Format != f {
			t.Errorf("negotiated %s, want %s", ctx.Descriptor().Format, f)
		}
		if ctx.Descriptor().Downgraded {
			t.Errorf("%s reported downgraded on a backend supporting all formats", f)
		}
		_ = b.DestroyContext(ctx)
	}
}
