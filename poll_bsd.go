//go:build darwin || netbsd || freebsd || openbsd || dragonfly

package queenio

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

var nextSelectorID atomic.Uint64

// selector is the kqueue-backed implementation behind Poll.
//
// kevent has no portable user data slot across the BSDs, so tokens are
// kept in an fd-indexed map instead.
type selector struct {
	id uint64
	fd int

	mu     sync.Mutex // protects tokens
	tokens map[int]Token

	waitMu sync.Mutex // protects raw across concurrent Wait calls
	raw    []unix.Kevent_t
}

func newSelector() (*selector, error) {
	fd, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(fd)
	return &selector{
		id:     nextSelectorID.Add(1),
		fd:     fd,
		tokens: make(map[int]Token),
	}, nil
}

func (s *selector) close() error {
	return unix.Close(s.fd)
}

func keventFlags(opts PollOpt) int {
	flags := unix.EV_ADD
	if opts.IsEdge() {
		flags |= unix.EV_CLEAR
	}
	if opts.IsOneshot() {
		flags |= unix.EV_ONESHOT
	}
	return flags
}

// kevent builds a change entry via SetKevent, which knows the field
// types of Kevent_t on each BSD.
func kevent(fd, filter, flags int) unix.Kevent_t {
	var kev unix.Kevent_t
	unix.SetKevent(&kev, fd, filter, flags)
	return kev
}

func (s *selector) add(fd int, token Token, interest Ready, opts PollOpt) error {
	flags := keventFlags(opts)
	var changes []unix.Kevent_t
	if interest.IsReadable() {
		changes = append(changes, kevent(fd, unix.EVFILT_READ, flags))
	}
	if interest.IsWritable() {
		changes = append(changes, kevent(fd, unix.EVFILT_WRITE, flags))
	}
	if _, err := unix.Kevent(s.fd, changes, nil, nil); err != nil {
		return err
	}

	s.mu.Lock()
	s.tokens[fd] = token
	s.mu.Unlock()
	return nil
}

func (s *selector) modify(fd int, token Token, interest Ready, opts PollOpt) error {
	flags := keventFlags(opts)
	changes := []unix.Kevent_t{
		kevent(fd, unix.EVFILT_READ, unix.EV_DELETE),
		kevent(fd, unix.EVFILT_WRITE, unix.EV_DELETE),
	}
	// removing a filter that was never added reports ENOENT, which is fine
	unix.Kevent(s.fd, changes, nil, nil)

	changes = changes[:0]
	if interest.IsReadable() {
		changes = append(changes, kevent(fd, unix.EVFILT_READ, flags))
	}
	if interest.IsWritable() {
		changes = append(changes, kevent(fd, unix.EVFILT_WRITE, flags))
	}
	if _, err := unix.Kevent(s.fd, changes, nil, nil); err != nil {
		return err
	}

	s.mu.Lock()
	s.tokens[fd] = token
	s.mu.Unlock()
	return nil
}

func (s *selector) delete(fd int) error {
	changes := []unix.Kevent_t{
		kevent(fd, unix.EVFILT_READ, unix.EV_DELETE),
		kevent(fd, unix.EVFILT_WRITE, unix.EV_DELETE),
	}
	unix.Kevent(s.fd, changes, nil, nil)

	s.mu.Lock()
	delete(s.tokens, fd)
	s.mu.Unlock()
	return nil
}

func (s *selector) wait(events *Events, timeout time.Duration) error {
	var ts *unix.Timespec
	if timeout >= 0 {
		t := unix.NsecToTimespec(timeout.Nanoseconds())
		ts = &t
	}

	s.waitMu.Lock()
	defer s.waitMu.Unlock()
	if cap(s.raw) < events.Cap() {
		s.raw = make([]unix.Kevent_t, events.Cap())
	}
	raw := s.raw[:events.Cap()]

	for {
		n, err := unix.Kevent(s.fd, nil, raw, ts)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}

		events.reset()
		s.mu.Lock()
		for i := 0; i < n; i++ {
			ev := &raw[i]
			token, ok := s.tokens[int(ev.Ident)]
			if !ok { // deregistered while in flight
				continue
			}

			var kind Ready
			switch ev.Filter {
			case unix.EVFILT_READ:
				kind = kind.Insert(ReadyReadable)
			case unix.EVFILT_WRITE:
				kind = kind.Insert(ReadyWritable)
			}
			if ev.Flags&unix.EV_EOF != 0 {
				kind = kind.Insert(ReadyHup)
			}
			if ev.Flags&unix.EV_ERROR != 0 {
				kind = kind.Insert(ReadyError)
			}

			events.push(Event{kind: kind, token: token})
		}
		s.mu.Unlock()
		return nil
	}
}
