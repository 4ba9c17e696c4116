package queenio

import (
	"errors"
	"time"
)

var (
	// ErrInterest means a registration asked for neither readable nor
	// writable readiness.
	ErrInterest = errors.New("interest must include readable or writable")
	// ErrAlreadyRegistered means the handle was registered with a
	// different Poll instance before.
	ErrAlreadyRegistered = errors.New("handle already added to another poll")
)

// Poll owns one OS selector (an epoll or kqueue instance) and dispatches
// readiness events for the handles registered on it.
//
// All methods are safe for concurrent use. A handle must not be registered
// with more than one Poll; sockets enforce this through their SelectorID.
type Poll struct {
	sys *selector
}

// NewPoll creates a poll instance with a process-unique id.
func NewPoll() (*Poll, error) {
	sys, err := newSelector()
	if err != nil {
		return nil, err
	}
	return &Poll{sys: sys}, nil
}

// Register starts monitoring ev, tagging its events with token. interest
// must include at least one of readable or writable.
func (p *Poll) Register(ev Evented, token Token, interest Ready, opts PollOpt) error {
	if err := validateArgs(interest); err != nil {
		return err
	}
	return ev.Register(p, token, interest, opts)
}

// Reregister replaces the token, interest and options of an existing
// registration. This is also how a oneshot registration is rearmed.
func (p *Poll) Reregister(ev Evented, token Token, interest Ready, opts PollOpt) error {
	if err := validateArgs(interest); err != nil {
		return err
	}
	return ev.Reregister(p, token, interest, opts)
}

// Deregister stops monitoring ev.
func (p *Poll) Deregister(ev Evented) error {
	return ev.Deregister(p)
}

// Wait blocks until at least one registered handle becomes ready or the
// timeout expires, fills events, and returns the number of events. A
// negative timeout blocks indefinitely; zero polls without blocking.
// Interrupted waits are retried.
func (p *Poll) Wait(events *Events, timeout time.Duration) (int, error) {
	if err := p.sys.wait(events, timeout); err != nil {
		return 0, err
	}
	return events.Len(), nil
}

// Close releases the selector. Registered handles stay open.
func (p *Poll) Close() error {
	return p.sys.close()
}

func validateArgs(interest Ready) error {
	if !interest.IsReadable() && !interest.IsWritable() {
		return ErrInterest
	}
	return nil
}

// timeoutMsec converts a Wait timeout to milliseconds for the selector,
// clamping to the int32 range the kernel interface takes.
func timeoutMsec(timeout time.Duration) int {
	if timeout < 0 {
		return -1
	}
	msec := timeout.Milliseconds()
	if msec > int64(^uint32(0)>>1) {
		msec = int64(^uint32(0) >> 1)
	}
	return int(msec)
}
