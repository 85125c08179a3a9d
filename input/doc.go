// Package input maps host input events, delivered through the fused
// reactor, into the compositor's normalized input event sequence.
//
// [Translator.Translate] turns one native event into zero, one or many
// normalized [Event] values. Output order matches decomposition order,
// and timestamps are non-decreasing across a translation session.
// Unknown or malformed native events are dropped, not errors: they are
// reported to the [Diagnostics] collaborator and translation continues.
//
// # Gesture taxonomy
//
// Continuous gestures decompose into an explicit phase sequence:
//
//	Begin → Update* → End        (completed gesture)
//	Begin → Update* → Cancel     (aborted gesture)
//
// The translator keeps one gesture accumulator, scoped to a single
// gesture lifetime and cleared on End or Cancel. Host phase errors are
// repaired deterministically rather than propagated:
//
//   - Begin while a gesture is active: the active gesture is cancelled
//     first (Cancel, then Begin — two events).
//   - Update with no active gesture: a Begin is synthesized before the
//     Update (two events).
//   - End or Cancel with no active gesture: dropped and reported.
//   - A discrete fling decomposes into Begin, Update, End (three events)
//     so consumers see one uniform phase grammar.
package input
