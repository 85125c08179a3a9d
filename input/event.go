package input

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
)

// Kind identifies a normalized input event class.
type Kind uint8

// Normalized event kinds.
const (
	KindPointerMotion Kind = iota
	KindPointerButton
	KindKey
	KindGesture
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPointerMotion:
		return "pointer-motion"
	case KindPointerButton:
		return "pointer-button"
	case KindKey:
		return "key"
	case KindGesture:
		return "gesture"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Button identifies a pointer button.
type Button uint8

// Pointer buttons.
const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Modifier is a bitmask of held keyboard modifiers.
type Modifier uint8

// Modifier bits.
const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModLogo
)

// GestureKind identifies a continuous gesture class.
type GestureKind uint8

// Gesture kinds.
const (
	GesturePan GestureKind = iota
	GesturePinch
	GestureSwipe
)

// String returns the gesture kind name.
func (g GestureKind) String() string {
	switch g {
	case GesturePan:
		return "pan"
	case GesturePinch:
		return "pinch"
	case GestureSwipe:
		return "swipe"
	default:
		return fmt.Sprintf("GestureKind(%d)", uint8(g))
	}
}

// Phase is a gesture lifecycle phase.
type Phase uint8

// Gesture phases, in grammar order.
const (
	PhaseBegin Phase = iota
	PhaseUpdate
	PhaseEnd
	PhaseCancel
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseBegin:
		return "begin"
	case PhaseUpdate:
		return "update"
	case PhaseEnd:
		return "end"
	case PhaseCancel:
		return "cancel"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Event is one normalized input event. Exactly one payload field is
// meaningful, selected by Kind. Time is monotonic from the translation
// session's start and non-decreasing across the session.
type Event struct {
	Kind Kind
	Time time.Duration

	Motion  MotionPayload
	Button  ButtonPayload
	Key     KeyPayload
	Gesture GesturePayload
}

// MotionPayload carries absolute position and relative deltas in
// surface-logical coordinates.
type MotionPayload struct {
	X, Y   float64
	DX, DY float64
}

// ButtonPayload carries a pointer button state change.
type ButtonPayload struct {
	Button  Button
	Pressed bool
}

// KeyPayload carries a key state change with the modifier state in
// effect after the change.
type KeyPayload struct {
	Key       gpucontext.Key
	Pressed   bool
	Modifiers ModifiersState
}

// GesturePayload carries one phase of a continuous gesture.
type GesturePayload struct {
	Gesture  GestureKind
	Phase    Phase
	Fingers  int
	DX, DY   float64
	Scale    float64 // pinch only; 1.0 means unchanged
	Rotation float64 // pinch only, radians
}

// Native host events accepted by the translator. Hosts construct these
// from their own event representations; anything else is dropped and
// reported to diagnostics.
type (
	// NativeMotion is host pointer motion.
	NativeMotion struct {
		Time   time.Duration
		X, Y   float64
		DX, DY float64
	}

	// NativeButton is a host pointer button change.
	NativeButton struct {
		Time    time.Duration
		Button  Button
		Pressed bool
	}

	// NativeKey is a host key change. Held carries the full modifier
	// set reported by the host after the change.
	NativeKey struct {
		Time    time.Duration
		Key     gpucontext.Key
		Pressed bool
		Held    Modifier
	}

	// NativeGesture is one phase of a host continuous gesture.
	NativeGesture struct {
		Time     time.Duration
		Gesture  GestureKind
		Phase    Phase
		Fingers  int
		DX, DY   float64
		Scale    float64
		Rotation float64
	}

	// NativeFling is a discrete host gesture: a completed swipe with a
	// release velocity, delivered as a single event.
	NativeFling struct {
		Time    time.Duration
		Fingers int
		VX, VY  float64
	}
)
