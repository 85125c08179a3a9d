package input

import (
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
)

// recordingDiag captures drop reports for assertions.
type recordingDiag struct {
	dropped []string
}

func (d *recordingDiag) DroppedEvent(_ any, reason string) {
	d.dropped = append(d.dropped, reason)
}

func TestTranslateMotion(t *testing.T) {
	tr := NewTranslator(nil)
	events := tr.Translate(NativeMotion{Time: time.Millisecond, X: 10, Y: 20, DX: 1, DY: 2})
	if len(events) != 1 {
		t.Fatalf("Translate() returned %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Kind != KindPointerMotion {
		t.Errorf("Kind = %v, want pointer-motion", ev.Kind)
	}
	if ev.Motion.X != 10 || ev.Motion.Y != 20 || ev.Motion.DX != 1 || ev.Motion.DY != 2 {
		t.Errorf("Motion = %+v", ev.Motion)
	}
	if ev.Time != time.Millisecond {
		t.Errorf("Time = %v, want 1ms", ev.Time)
	}
}

func TestTranslateButton(t *testing.T) {
	tr := NewTranslator(nil)
	events := tr.Translate(NativeButton{Time: time.Millisecond, Button: ButtonRight, Pressed: true})
	if len(events) != 1 {
		t.Fatalf("Translate() returned %d events, want 1", len(events))
	}
	if got := events[0].Button; got.Button != ButtonRight || !got.Pressed {
		t.Errorf("Button = %+v, want right pressed", got)
	}
}

func TestTranslateKeyModifiers(t *testing.T) {
	tr := NewTranslator(nil)
	events := tr.Translate(NativeKey{
		Time:    time.Millisecond,
		Key:     gpucontext.KeySpace,
		Pressed: true,
		Held:    ModCtrl | ModShift,
	})
	if len(events) != 1 {
		t.Fatalf("Translate() returned %d events, want 1", len(events))
	}
	key := events[0].Key
	if key.Key != gpucontext.KeySpace || !key.Pressed {
		t.Errorf("Key = %+v", key)
	}
	mods := key.Modifiers
	if !mods.Ctrl || !mods.Shift || mods.Alt || mods.Logo {
		t.Errorf("Modifiers = %+v, want ctrl+shift", mods)
	}
	if mods.Serialized.Depressed != serCtrl|serShift {
		t.Errorf("Depressed = %#x, want %#x", mods.Serialized.Depressed, serCtrl|serShift)
	}
}

// TestTimestampsNonDecreasing feeds host timestamps that jump backwards
// and requires the output sequence to be monotonic.
func TestTimestampsNonDecreasing(t *testing.T) {
	tr := NewTranslator(nil)
	hostTimes := []time.Duration{
		5 * time.Millisecond,
		7 * time.Millisecond,
		3 * time.Millisecond, // host clock went backwards
		9 * time.Millisecond,
	}
	var last time.Duration
	for i, ht := range hostTimes {
		events := tr.Translate(NativeMotion{Time: ht, X: float64(i)})
		if len(events) != 1 {
			t.Fatalf("event %d: got %d events", i, len(events))
		}
		if events[0].Time < last {
			t.Fatalf("event %d: time %v < previous %v", i, events[0].Time, last)
		}
		last = events[0].Time
	}
	if last != 9*time.Millisecond {
		t.Errorf("final time = %v, want 9ms", last)
	}
}

func TestTranslateZeroTimeUsesSessionClock(t *testing.T) {
	tr := NewTranslator(nil)
	events := tr.Translate(NativeMotion{})
	if len(events) != 1 {
		t.Fatalf("Translate() returned %d events, want 1", len(events))
	}
	if events[0].Time < 0 {
		t.Errorf("Time = %v, want >= 0", events[0].Time)
	}
}

func TestTranslateUnknownDropped(t *testing.T) {
	diag := &recordingDiag{}
	tr := NewTranslator(diag)

	type mysteryEvent struct{}
	events := tr.Translate(mysteryEvent{})
	if events != nil {
		t.Errorf("Translate(unknown) = %v, want nil", events)
	}
	if len(diag.dropped) != 1 {
		t.Fatalf("diagnostics got %d reports, want 1", len(diag.dropped))
	}

	// Dropping is non-fatal: the translator keeps working.
	if got := tr.Translate(NativeMotion{Time: time.Millisecond}); len(got) != 1 {
		t.Errorf("Translate() after drop returned %d events, want 1", len(got))
	}
}
