//go:build linux

package reactor

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/gogpu/wayhost"
)

// ReadFunc drains all events currently readable from fd without
// blocking. It is called from the reactor goroutine during Drain.
type ReadFunc func(fd int) ([]Event, error)

// FDSource is a NativeEventSource over a readiness-multiplexed file
// descriptor, for hosts that expose their event queue as an fd rather
// than a callback run loop. A background goroutine waits in poll(2) and
// fires the wake callback when the fd becomes readable; the reactor then
// drains events via the ReadFunc on its own thread.
type FDSource struct {
	fd   int
	read ReadFunc

	wake func()

	// Self-pipe tokens: pipeW unblocks poll for shutdown and re-arm.
	pipeR, pipeW int

	armCh      chan struct{}
	stopCh     chan struct{}
	doneCh     chan struct{}
	registered bool

	closeOnce sync.Once
	closeErr  error
}

// NewFDSource creates a source over fd. The caller keeps ownership of
// fd; Close stops polling but does not close it.
func NewFDSource(fd int, read ReadFunc) (*FDSource, error) {
	if fd < 0 {
		return nil, errors.New("reactor: negative file descriptor")
	}
	if read == nil {
		return nil, errors.New("reactor: nil read function")
	}
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return nil, fmt.Errorf("reactor: self-pipe: %w", err)
	}
	return &FDSource{
		fd:     fd,
		read:   read,
		pipeR:  p[0],
		pipeW:  p[1],
		armCh:  make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}, nil
}

// Register starts the poll goroutine.
func (s *FDSource) Register(wake func()) error {
	s.wake = wake
	s.registered = true
	go s.pollLoop()
	return nil
}

// pollLoop waits for readability, signals the reactor, then parks until
// the reactor has drained. Level-triggered poll would spin otherwise.
func (s *FDSource) pollLoop() {
	defer close(s.doneCh)

	fds := []unix.PollFd{
		{Fd: int32(s.fd), Events: unix.POLLIN},
		{Fd: int32(s.pipeR), Events: unix.POLLIN},
	}
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		fds[0].Revents = 0
		fds[1].Revents = 0
		n, err := unix.Poll(fds, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			wayhost.Logger().Warn("reactor: poll failed", "err", err)
			return
		}
		if n == 0 {
			continue
		}
		if fds[1].Revents&unix.POLLIN != 0 {
			s.drainPipe()
			continue // re-check stopCh
		}
		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			s.wake()
			// Park until the reactor drained, so the level-triggered fd
			// does not wake us again for the same events.
			select {
			case <-s.armCh:
			case <-s.stopCh:
				return
			}
		}
	}
}

func (s *FDSource) drainPipe() {
	var buf [16]byte
	for {
		if _, err := unix.Read(s.pipeR, buf[:]); err != nil {
			return
		}
	}
}

// Drain reads all ready events from the fd and re-arms the poll loop.
func (s *FDSource) Drain() []Event {
	events, err := s.read(s.fd)
	if err != nil {
		wayhost.Logger().Warn("reactor: fd drain failed", "fd", s.fd, "err", err)
	}
	select {
	case s.armCh <- struct{}{}:
	default:
	}
	return events
}

// Close stops the poll goroutine and releases the self-pipe.
// The watched fd itself stays open.
func (s *FDSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		if s.registered {
			// Unblock poll if it is waiting.
			_, _ = unix.Write(s.pipeW, []byte{0})
			<-s.doneCh
		}
		if err := unix.Close(s.pipeR); err != nil {
			s.closeErr = err
		}
		if err := unix.Close(s.pipeW); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
	})
	return s.closeErr
}
