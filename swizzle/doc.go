// Package swizzle converts pixel buffers between 32-bit formats by
// permuting channel bytes.
//
// Conversion is driven by an immutable [Plan] built per (source,
// destination) format pair. The plan holds one data-driven permutation
// table derived from the format layouts in the root package; both the
// wide block execution path and the scalar reference path are generated
// from that single table, so the fast path cannot diverge from the
// correct path. For every supported pair the two paths produce
// byte-for-byte identical output — [VerifyAll] checks the full matrix
// and is run by the test suite.
//
// The wide path processes rows in blocks of [LaneWidth] bytes; remainder
// pixels that do not fill a block go through the scalar path. Stride
// padding bytes are never read as pixel data and never written.
//
// [Codec] adds a sharded plan cache in front of [BuildPlan] so repeated
// conversions of the same pair reuse one plan. Plans are immutable after
// construction and safe for concurrent use; two concurrent conversions
// must target disjoint destination buffers, which Convert enforces via
// the buffer's writer guard.
package swizzle
