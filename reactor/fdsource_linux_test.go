//go:build linux

package reactor

import (
	"sync"
	"testing"

	"golang.org/x/sys/unix"
)

// pipeSource builds an FDSource over a pipe; each byte written is one event.
func pipeSource(t *testing.T) (*FDSource, int) {
	t.Helper()
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		_ = unix.Close(p[0])
		_ = unix.Close(p[1])
	})

	src, err := NewFDSource(p[0], func(fd int) ([]Event, error) {
		var events []Event
		buf := make([]byte, 64)
		for {
			n, err := unix.Read(fd, buf)
			if n <= 0 || err != nil {
				return events, nil // EAGAIN: drained
			}
			for _, b := range buf[:n] {
				events = append(events, int(b))
			}
		}
	})
	if err != nil {
		t.Fatalf("NewFDSource() error = %v", err)
	}
	return src, p[1]
}

func TestFDSourceDeliversInOrder(t *testing.T) {
	src, w := pipeSource(t)

	var mu sync.Mutex
	var got []int
	f := New(src, DispatcherFunc(func(events []Event) error {
		mu.Lock()
		for _, ev := range events {
			got = append(got, ev.(int))
		}
		mu.Unlock()
		return nil
	}))
	stop := runReactor(t, f)

	for i := 1; i <= 50; i++ {
		if _, err := unix.Write(w, []byte{byte(i)}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 50
	})
	stop()

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("event %d = %d, order broken", i, v)
		}
	}
}

func TestFDSourceCloseIdempotent(t *testing.T) {
	src, _ := pipeSource(t)
	if err := src.Register(func() {}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestFDSourceInvalidArgs(t *testing.T) {
	if _, err := NewFDSource(-1, func(int) ([]Event, error) { return nil, nil }); err == nil {
		t.Error("NewFDSource(-1) should fail")
	}
	if _, err := NewFDSource(0, nil); err == nil {
		t.Error("NewFDSource(nil read) should fail")
	}
}
