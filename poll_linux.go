//go:build linux

package queenio

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

var nextSelectorID atomic.Uint64

// selector is the epoll-backed implementation behind Poll.
type selector struct {
	id  uint64
	fd  int
	mu  sync.Mutex // protects raw across concurrent Wait calls
	raw []unix.EpollEvent
}

func newSelector() (*selector, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &selector{
		id: nextSelectorID.Add(1),
		fd: fd,
	}, nil
}

func (s *selector) close() error {
	return unix.Close(s.fd)
}

func (s *selector) add(fd int, token Token, interest Ready, opts PollOpt) error {
	ev := encodeEpollEvent(token, interest, opts)
	return unix.EpollCtl(s.fd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (s *selector) modify(fd int, token Token, interest Ready, opts PollOpt) error {
	ev := encodeEpollEvent(token, interest, opts)
	return unix.EpollCtl(s.fd, unix.EPOLL_CTL_MOD, fd, &ev)
}

func (s *selector) delete(fd int) error {
	return unix.EpollCtl(s.fd, unix.EPOLL_CTL_DEL, fd, &unix.EpollEvent{})
}

func (s *selector) wait(events *Events, timeout time.Duration) error {
	msec := timeoutMsec(timeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	if cap(s.raw) < events.Cap() {
		s.raw = make([]unix.EpollEvent, events.Cap())
	}
	raw := s.raw[:events.Cap()]

	for {
		n, err := unix.EpollWait(s.fd, raw, msec)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}

		events.reset()
		for i := 0; i < n; i++ {
			events.push(decodeEpollEvent(&raw[i]))
		}
		return nil
	}
}

// encodeEpollEvent maps interest and trigger options to epoll flags and
// packs the token into the 64-bit user data (split across Fd and Pad by
// the x/sys struct layout).
func encodeEpollEvent(token Token, interest Ready, opts PollOpt) unix.EpollEvent {
	var kind uint32
	if interest.IsReadable() {
		kind |= unix.EPOLLIN
	}
	if interest.IsWritable() {
		kind |= unix.EPOLLOUT
	}
	if interest.IsHup() {
		kind |= unix.EPOLLRDHUP
	}
	if opts.IsEdge() {
		kind |= unix.EPOLLET
	}
	if opts.IsOneshot() {
		kind |= unix.EPOLLONESHOT
	}
	if opts.IsLevel() {
		kind &^= unix.EPOLLET
	}

	u := uint64(token)
	return unix.EpollEvent{
		Events: kind,
		Fd:     int32(uint32(u)),
		Pad:    int32(uint32(u >> 32)),
	}
}

func decodeEpollEvent(ev *unix.EpollEvent) Event {
	var kind Ready
	if ev.Events&(unix.EPOLLIN|unix.EPOLLPRI) != 0 {
		kind = kind.Insert(ReadyReadable)
	}
	if ev.Events&unix.EPOLLOUT != 0 {
		kind = kind.Insert(ReadyWritable)
	}
	// EPOLLERR usually means a socket error happened
	if ev.Events&unix.EPOLLERR != 0 {
		kind = kind.Insert(ReadyError)
	}
	if ev.Events&(unix.EPOLLRDHUP|unix.EPOLLHUP) != 0 {
		kind = kind.Insert(ReadyHup)
	}

	u := uint64(uint32(ev.Fd)) | uint64(uint32(ev.Pad))<<32
	return Event{kind: kind, token: Token(u)}
}
