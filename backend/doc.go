// Package backend provides the native graphics backend abstraction:
// context lifecycle, frame presentation and surface-loss recovery for
// host windows.
//
// A backend variant exists per supported native windowing stack
// (software, headless, wgpu). Variants register via Register() from
// their package init and are selected with an explicit [Config] threaded
// through construction — never a process-wide flag consulted at call
// sites, so the core stays independently testable.
//
// The per-platform native context representations collapse into one
// [Context] type tagged by backend kind; the operations
// (create, make-current, present, destroy) dispatch through the
// [GraphicsBackend] interface rather than a type hierarchy.
//
// # Surface loss
//
// PresentFrame fails with [SurfaceLostError] when the native surface was
// resized or invalidated while the frame was in flight. The caller must
// destroy the context and recreate it against the same window before the
// next present; exactly one recreation is expected per loss event.
//
// # Thread binding
//
// All context and present operations for a compositor instance happen on
// its designated dispatch thread. [BindThread] produces the thread token
// that MakeCurrent checks; making a context current from two tokens at
// once is a programming error surfaced as [ThreadBindingError].
package backend
