// Package queue provides FIFO queues for event-loop programs: a pollable
// concurrent Queue, a plain blocking BlockQueue, and a MessagesQueue that
// both blocks and polls.
package queue

import (
	"errors"
	"sync"
	"sync/atomic"

	ring "github.com/eapache/queue"

	queenio "github.com/danclive/queen-io"
)

var (
	// ErrFull means a bounded queue is at capacity.
	ErrFull = errors.New("queue full")
	// ErrEmpty means the queue has nothing to pop.
	ErrEmpty = errors.New("queue empty")
	// ErrClosed means the queue was closed: pushes are rejected, and
	// pops fail once the queue is drained.
	ErrClosed = errors.New("queue closed")
)

// Queue is a concurrent FIFO whose consumer side can be registered with a
// queenio.Poll: it reports readable while elements are pending.
//
// All methods are safe for concurrent use and a Queue may be copied;
// copies share the same storage.
type Queue[T any] struct {
	inner *queueInner[T]
}

type queueInner[T any] struct {
	mu     sync.Mutex
	buf    *ring.Queue
	bound  int // 0 means unbounded
	closed bool

	// pending counts undelivered wakeups; see the channel package for
	// the race this discipline closes.
	pending atomic.Int64
	waker   *queenio.Waker
}

// Bounded creates a queue rejecting pushes beyond cap elements.
func Bounded[T any](capacity int) (Queue[T], error) {
	if capacity < 1 {
		capacity = 1
	}
	return newQueue[T](capacity)
}

// Unbounded creates a queue with no capacity limit.
func Unbounded[T any]() (Queue[T], error) {
	return newQueue[T](0)
}

func newQueue[T any](bound int) (Queue[T], error) {
	waker, err := queenio.NewWaker()
	if err != nil {
		return Queue[T]{}, err
	}
	return Queue[T]{inner: &queueInner[T]{
		buf:   ring.New(),
		bound: bound,
		waker: waker,
	}}, nil
}

func (q Queue[T]) inc() error {
	if q.inner.pending.Add(1) == 1 {
		return q.inner.waker.SetReadiness(queenio.ReadyReadable)
	}
	return nil
}

func (q Queue[T]) dec() error {
	first := q.inner.pending.Load()

	if first == 1 {
		if err := q.inner.waker.SetReadiness(queenio.ReadyEmpty); err != nil {
			return err
		}
	}

	remaining := q.inner.pending.Add(-1)

	if first == 1 && remaining > 0 {
		return q.inner.waker.SetReadiness(queenio.ReadyReadable)
	}
	return nil
}

// Push enqueues v, failing with ErrClosed on a closed queue and ErrFull
// on a bounded queue at capacity.
func (q Queue[T]) Push(v T) error {
	in := q.inner
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return ErrClosed
	}
	if in.bound > 0 && in.buf.Length() >= in.bound {
		in.mu.Unlock()
		return ErrFull
	}
	in.buf.Add(v)
	in.mu.Unlock()

	return q.inc()
}

// Pop dequeues without blocking. An empty open queue fails with ErrEmpty;
// an empty closed queue with ErrClosed. A closed queue still drains.
func (q Queue[T]) Pop() (T, error) {
	var zero T
	in := q.inner
	in.mu.Lock()
	if in.buf.Length() == 0 {
		closed := in.closed
		in.mu.Unlock()
		if closed {
			return zero, ErrClosed
		}
		return zero, ErrEmpty
	}
	v := in.buf.Remove().(T)
	in.mu.Unlock()

	if err := q.dec(); err != nil {
		return v, err
	}
	return v, nil
}

// Len returns the number of queued elements.
func (q Queue[T]) Len() int {
	q.inner.mu.Lock()
	defer q.inner.mu.Unlock()
	return q.inner.buf.Length()
}

// Capacity returns the bound, or 0 for an unbounded queue.
func (q Queue[T]) Capacity() int { return q.inner.bound }

func (q Queue[T]) IsEmpty() bool { return q.Len() == 0 }

func (q Queue[T]) IsFull() bool {
	if q.inner.bound == 0 {
		return false
	}
	return q.Len() >= q.inner.bound
}

// Pending returns the undelivered wakeup count.
func (q Queue[T]) Pending() int { return int(q.inner.pending.Load()) }

// Close marks the queue closed and reports whether this call did it.
// Queued elements remain poppable.
func (q Queue[T]) Close() bool {
	in := q.inner
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return false
	}
	in.closed = true
	return true
}

func (q Queue[T]) IsClosed() bool {
	q.inner.mu.Lock()
	defer q.inner.mu.Unlock()
	return q.inner.closed
}

// Wake makes the registered Poll report the queue readable regardless of
// contents; useful to nudge a consumer loop.
func (q Queue[T]) Wake() error {
	return q.inner.waker.SetReadiness(queenio.ReadyReadable)
}

// Fd returns the pollable file descriptor.
func (q Queue[T]) Fd() int { return q.inner.waker.Fd() }

func (q Queue[T]) Register(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	if err := q.inner.waker.Register(p, token, interest, opts); err != nil {
		return err
	}
	if q.inner.pending.Load() > 0 {
		return q.inner.waker.SetReadiness(queenio.ReadyReadable)
	}
	return nil
}

func (q Queue[T]) Reregister(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	return q.inner.waker.Reregister(p, token, interest, opts)
}

func (q Queue[T]) Deregister(p *queenio.Poll) error {
	return q.inner.waker.Deregister(p)
}
