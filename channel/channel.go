// Package channel provides a cross-goroutine message channel whose
// receiving end can be registered with a queenio.Poll.
//
// The receiver becomes readable whenever messages are pending, so one
// event loop can multiplex channel traffic with socket I/O. Wakeups ride
// on a queenio.Waker and coalesce: many sends cost at most one event.
package channel

import (
	"errors"
	"sync"
	"sync/atomic"

	ring "github.com/eapache/queue"

	queenio "github.com/danclive/queen-io"
)

var (
	// ErrDisconnected means the other side of the channel is gone.
	ErrDisconnected = errors.New("channel disconnected")
	// ErrFull means a bounded channel is at capacity (TrySend).
	ErrFull = errors.New("channel full")
	// ErrEmpty means no message is pending (TryRecv).
	ErrEmpty = errors.New("channel empty")
)

// New creates an unbounded channel. Send never blocks.
func New[T any]() (*Sender[T], *Receiver[T], error) {
	return newChannel[T](0)
}

// NewSync creates a bounded channel with the given capacity. Send blocks
// while the channel is full; TrySend fails with ErrFull instead.
func NewSync[T any](bound int) (*Sender[T], *Receiver[T], error) {
	if bound < 1 {
		bound = 1
	}
	return newChannel[T](bound)
}

func newChannel[T any](bound int) (*Sender[T], *Receiver[T], error) {
	waker, err := queenio.NewWaker()
	if err != nil {
		return nil, nil, err
	}
	in := &inner[T]{
		buf:   ring.New(),
		bound: bound,
		waker: waker,
	}
	in.notEmpty = sync.NewCond(&in.mu)
	in.notFull = sync.NewCond(&in.mu)
	in.senders.Store(1)
	return &Sender[T]{inner: in}, &Receiver[T]{inner: in}, nil
}

type inner[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	buf      *ring.Queue
	bound    int // 0 means unbounded
	rxClosed bool

	senders atomic.Int64

	// pending counts undelivered wakeups, not queued messages; the
	// inc/dec discipline below closes the lost-wakeup race between a
	// concurrent send and a drain.
	pending atomic.Int64
	waker   *queenio.Waker
}

func (in *inner[T]) inc() error {
	if in.pending.Add(1) == 1 {
		return in.waker.SetReadiness(queenio.ReadyReadable)
	}
	return nil
}

func (in *inner[T]) dec() error {
	first := in.pending.Load()

	if first == 1 {
		if err := in.waker.SetReadiness(queenio.ReadyEmpty); err != nil {
			return err
		}
	}

	remaining := in.pending.Add(-1)

	// a sender raced the drain above; re-assert readability
	if first == 1 && remaining > 0 {
		return in.waker.SetReadiness(queenio.ReadyReadable)
	}
	return nil
}

// Sender is the sending half of a channel. It may be shared across
// goroutines; Clone adds another handle for disconnect tracking.
type Sender[T any] struct {
	inner  *inner[T]
	closed atomic.Bool
}

// Send enqueues v and wakes the receiver. On a bounded channel it blocks
// while the channel is full. It fails with ErrDisconnected once the
// receiver is closed.
func (s *Sender[T]) Send(v T) error {
	in := s.inner
	in.mu.Lock()
	for in.bound > 0 && in.buf.Length() >= in.bound && !in.rxClosed {
		in.notFull.Wait()
	}
	if in.rxClosed {
		in.mu.Unlock()
		return ErrDisconnected
	}
	in.buf.Add(v)
	in.notEmpty.Signal()
	in.mu.Unlock()

	return in.inc()
}

// TrySend is Send that fails with ErrFull instead of blocking.
func (s *Sender[T]) TrySend(v T) error {
	in := s.inner
	in.mu.Lock()
	if in.rxClosed {
		in.mu.Unlock()
		return ErrDisconnected
	}
	if in.bound > 0 && in.buf.Length() >= in.bound {
		in.mu.Unlock()
		return ErrFull
	}
	in.buf.Add(v)
	in.notEmpty.Signal()
	in.mu.Unlock()

	return in.inc()
}

// Clone returns another sending handle on the same channel.
func (s *Sender[T]) Clone() *Sender[T] {
	s.inner.senders.Add(1)
	return &Sender[T]{inner: s.inner}
}

// Close drops this sending handle. When the last handle is closed the
// receiver observes ErrDisconnected after draining, and gets one final
// wakeup.
func (s *Sender[T]) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.inner.senders.Add(-1) == 0 {
		in := s.inner
		in.mu.Lock()
		in.notEmpty.Broadcast()
		rxClosed := in.rxClosed
		in.mu.Unlock()
		// the receiver released the waker already, nobody to wake
		if rxClosed {
			return nil
		}
		return in.inc()
	}
	return nil
}

// Receiver is the receiving half of a channel. It implements
// queenio.Evented: register it and it reports readable while messages
// are pending.
type Receiver[T any] struct {
	inner *inner[T]
}

// TryRecv dequeues one message without blocking. It fails with ErrEmpty
// when nothing is pending and with ErrDisconnected when all senders are
// closed and the channel is drained.
func (r *Receiver[T]) TryRecv() (T, error) {
	var zero T
	in := r.inner
	in.mu.Lock()
	if in.buf.Length() == 0 {
		disconnected := in.senders.Load() == 0
		in.mu.Unlock()
		if disconnected {
			return zero, ErrDisconnected
		}
		return zero, ErrEmpty
	}
	v := in.buf.Remove().(T)
	in.notFull.Signal()
	in.mu.Unlock()

	if err := in.dec(); err != nil {
		return v, err
	}
	return v, nil
}

// Recv dequeues one message, blocking until one arrives or all senders
// are closed.
func (r *Receiver[T]) Recv() (T, error) {
	var zero T
	in := r.inner
	in.mu.Lock()
	for in.buf.Length() == 0 {
		if in.senders.Load() == 0 {
			in.mu.Unlock()
			return zero, ErrDisconnected
		}
		in.notEmpty.Wait()
	}
	v := in.buf.Remove().(T)
	in.notFull.Signal()
	in.mu.Unlock()

	if err := in.dec(); err != nil {
		return v, err
	}
	return v, nil
}

// Len returns the number of queued messages.
func (r *Receiver[T]) Len() int {
	r.inner.mu.Lock()
	defer r.inner.mu.Unlock()
	return r.inner.buf.Length()
}

// Close drops the receiving half: senders fail with ErrDisconnected from
// now on, and the waker is released.
func (r *Receiver[T]) Close() error {
	in := r.inner
	in.mu.Lock()
	if in.rxClosed {
		in.mu.Unlock()
		return nil
	}
	in.rxClosed = true
	in.notFull.Broadcast()
	in.mu.Unlock()
	return in.waker.Close()
}

func (r *Receiver[T]) Register(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	in := r.inner
	if err := in.waker.Register(p, token, interest, opts); err != nil {
		return err
	}
	// messages may have arrived before registration
	if in.pending.Load() > 0 {
		return in.waker.SetReadiness(queenio.ReadyReadable)
	}
	return nil
}

func (r *Receiver[T]) Reregister(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	return r.inner.waker.Reregister(p, token, interest, opts)
}

func (r *Receiver[T]) Deregister(p *queenio.Poll) error {
	return r.inner.waker.Deregister(p)
}
