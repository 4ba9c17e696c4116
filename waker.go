package queenio

// Waker wakes a Poll.Wait from any goroutine. It is an edge-triggered
// pollable handle backed by an eventfd on Linux and a non-blocking pipe
// on the BSDs.
//
// Wakeup arms the handle (the owning Poll reports it readable) and Finish
// drains it. Repeated wakeups before a drain coalesce into one event.
type Waker struct {
	inner wakeFd
}

// NewWaker creates a waker.
func NewWaker() (*Waker, error) {
	inner, err := newWakeFd()
	if err != nil {
		return nil, err
	}
	return &Waker{inner: inner}, nil
}

// Wakeup makes the registered Poll report this waker readable.
func (w *Waker) Wakeup() error {
	return w.inner.wake()
}

// Finish consumes pending wakeups so the next Wait does not see this
// waker readable again.
func (w *Waker) Finish() error {
	return w.inner.drain()
}

// SetReadiness arms the waker for any non-empty readiness and drains it
// for an empty one.
func (w *Waker) SetReadiness(ready Ready) error {
	if ready.IsEmpty() {
		return w.Finish()
	}
	return w.Wakeup()
}

// Fd returns the pollable file descriptor of the waker.
func (w *Waker) Fd() int { return w.inner.fd() }

// Close releases the waker's descriptors.
func (w *Waker) Close() error { return w.inner.close() }

func (w *Waker) Register(p *Poll, token Token, interest Ready, opts PollOpt) error {
	return EventedFd(w.Fd()).Register(p, token, interest, opts)
}

func (w *Waker) Reregister(p *Poll, token Token, interest Ready, opts PollOpt) error {
	return EventedFd(w.Fd()).Reregister(p, token, interest, opts)
}

func (w *Waker) Deregister(p *Poll) error {
	return EventedFd(w.Fd()).Deregister(p)
}
