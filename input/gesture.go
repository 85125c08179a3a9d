package input

import "time"

// gestureState is the in-progress gesture accumulator. It exists for one
// logical gesture lifetime and is discarded on End or Cancel.
type gestureState struct {
	kind    GestureKind
	fingers int
}

// translateGesture applies the phase grammar documented in the package
// comment, repairing host phase errors deterministically.
func (t *Translator) translateGesture(ev NativeGesture) []Event {
	switch ev.Phase {
	case PhaseBegin:
		var out []Event
		if t.gesture != nil {
			// A new gesture interrupts the active one: cancel it first.
			out = append(out, t.phaseEvent(t.gesture.kind, PhaseCancel, t.gesture.fingers, ev.Time))
			t.gesture = nil
		}
		t.gesture = &gestureState{kind: ev.Gesture, fingers: ev.Fingers}
		return append(out, t.gestureEvent(ev, PhaseBegin))

	case PhaseUpdate:
		if t.gesture == nil {
			// Host skipped Begin; synthesize it so consumers always see
			// the full grammar.
			t.gesture = &gestureState{kind: ev.Gesture, fingers: ev.Fingers}
			return []Event{
				t.phaseEvent(ev.Gesture, PhaseBegin, ev.Fingers, ev.Time),
				t.gestureEvent(ev, PhaseUpdate),
			}
		}
		return []Event{t.gestureEvent(ev, PhaseUpdate)}

	case PhaseEnd, PhaseCancel:
		if t.gesture == nil {
			t.diag.DroppedEvent(ev, "gesture "+ev.Phase.String()+" with no active gesture")
			return nil
		}
		t.gesture = nil
		return []Event{t.gestureEvent(ev, ev.Phase)}

	default:
		t.diag.DroppedEvent(ev, "unknown gesture phase")
		return nil
	}
}

// translateFling decomposes a discrete fling into the uniform
// Begin/Update/End sequence. Any active gesture is cancelled first.
func (t *Translator) translateFling(ev NativeFling) []Event {
	var out []Event
	if t.gesture != nil {
		out = append(out, t.phaseEvent(t.gesture.kind, PhaseCancel, t.gesture.fingers, ev.Time))
		t.gesture = nil
	}
	ts := t.stamp(ev.Time)
	payload := GesturePayload{
		Gesture: GestureSwipe,
		Fingers: ev.Fingers,
		DX:      ev.VX,
		DY:      ev.VY,
		Scale:   1,
	}

	begin := payload
	begin.Phase = PhaseBegin
	begin.DX, begin.DY = 0, 0
	update := payload
	update.Phase = PhaseUpdate
	end := payload
	end.Phase = PhaseEnd
	end.DX, end.DY = 0, 0

	return append(out,
		Event{Kind: KindGesture, Time: ts, Gesture: begin},
		Event{Kind: KindGesture, Time: ts, Gesture: update},
		Event{Kind: KindGesture, Time: ts, Gesture: end},
	)
}

// gestureEvent builds a normalized event from a native gesture phase.
func (t *Translator) gestureEvent(ev NativeGesture, phase Phase) Event {
	scale := ev.Scale
	if scale == 0 {
		scale = 1
	}
	return Event{
		Kind: KindGesture,
		Time: t.stamp(ev.Time),
		Gesture: GesturePayload{
			Gesture:  ev.Gesture,
			Phase:    phase,
			Fingers:  ev.Fingers,
			DX:       ev.DX,
			DY:       ev.DY,
			Scale:    scale,
			Rotation: ev.Rotation,
		},
	}
}

// phaseEvent builds a bare phase marker (no deltas).
func (t *Translator) phaseEvent(kind GestureKind, phase Phase, fingers int, hostTime time.Duration) Event {
	return Event{
		Kind: KindGesture,
		Time: t.stamp(hostTime),
		Gesture: GesturePayload{
			Gesture: kind,
			Phase:   phase,
			Fingers: fingers,
			Scale:   1,
		},
	}
}
