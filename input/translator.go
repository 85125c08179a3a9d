package input

import (
	"fmt"
	"time"

	"github.com/gogpu/wayhost"
)

// Diagnostics receives reports about native events the translator could
// not handle. Dropping is non-fatal; the collaborator decides whether to
// count, log or surface them.
type Diagnostics interface {
	DroppedEvent(native any, reason string)
}

// NopDiagnostics discards all reports.
type NopDiagnostics struct{}

// DroppedEvent does nothing.
func (NopDiagnostics) DroppedEvent(any, string) {}

// Translator converts native host events into normalized events.
//
// A Translator is confined to the compositor goroutine (it is fed from
// reactor dispatch turns) and keeps no state beyond what gesture
// decomposition needs: the in-progress gesture accumulator, the last
// emitted timestamp, and the running modifier state.
type Translator struct {
	diag Diagnostics

	start time.Time     // monotonic session base
	last  time.Duration // high-water timestamp mark

	gesture *gestureState
}

// NewTranslator creates a translator reporting drops to diag.
// A nil diag is replaced with NopDiagnostics.
func NewTranslator(diag Diagnostics) *Translator {
	if diag == nil {
		diag = NopDiagnostics{}
	}
	return &Translator{
		diag:  diag,
		start: time.Now(),
	}
}

// Translate maps one native event to zero, one or many normalized
// events, in decomposition order. Unknown native kinds return nil after
// reporting to diagnostics.
func (t *Translator) Translate(native any) []Event {
	switch ev := native.(type) {
	case NativeMotion:
		return []Event{{
			Kind:   KindPointerMotion,
			Time:   t.stamp(ev.Time),
			Motion: MotionPayload{X: ev.X, Y: ev.Y, DX: ev.DX, DY: ev.DY},
		}}

	case NativeButton:
		return []Event{{
			Kind:   KindPointerButton,
			Time:   t.stamp(ev.Time),
			Button: ButtonPayload{Button: ev.Button, Pressed: ev.Pressed},
		}}

	case NativeKey:
		return []Event{{
			Kind: KindKey,
			Time: t.stamp(ev.Time),
			Key: KeyPayload{
				Key:       ev.Key,
				Pressed:   ev.Pressed,
				Modifiers: modifiersFromMask(ev.Held),
			},
		}}

	case NativeGesture:
		return t.translateGesture(ev)

	case NativeFling:
		return t.translateFling(ev)

	default:
		reason := fmt.Sprintf("unknown native event %T", native)
		wayhost.Logger().Warn("input: dropped event", "type", fmt.Sprintf("%T", native))
		t.diag.DroppedEvent(native, reason)
		return nil
	}
}

// stamp converts a host timestamp to session time, clamped so output
// timestamps never decrease. A zero host time means "now".
func (t *Translator) stamp(hostTime time.Duration) time.Duration {
	ts := hostTime
	if ts == 0 {
		ts = time.Since(t.start)
	}
	if ts < t.last {
		ts = t.last
	}
	t.last = ts
	return ts
}
