package queue

import (
	"sync"

	ring "github.com/eapache/queue"

	queenio "github.com/danclive/queen-io"
)

// MessagesQueue is a blocking FIFO that is also pollable: registered with
// a queenio.Poll it reports readable for as long as it is non-empty.
// Dedicated worker goroutines can Pop while an event loop watches the
// same queue.
//
// A MessagesQueue may be copied; copies share the same storage.
type MessagesQueue[T any] struct {
	inner *messagesQueueInner[T]
}

type messagesQueueInner[T any] struct {
	mu           sync.Mutex
	cond         *sync.Cond
	buf          *ring.Queue
	registration *queenio.Registration
	readiness    *queenio.SetReadiness
}

// NewMessagesQueue creates an empty pollable blocking queue.
func NewMessagesQueue[T any]() (MessagesQueue[T], error) {
	registration, readiness, err := queenio.NewRegistration()
	if err != nil {
		return MessagesQueue[T]{}, err
	}
	in := &messagesQueueInner[T]{
		buf:          ring.New(),
		registration: registration,
		readiness:    readiness,
	}
	in.cond = sync.NewCond(&in.mu)
	return MessagesQueue[T]{inner: in}, nil
}

// Push enqueues v, wakes one blocked Pop, and asserts readability on the
// empty-to-non-empty transition.
func (q MessagesQueue[T]) Push(v T) error {
	in := q.inner
	in.mu.Lock()
	defer in.mu.Unlock()
	in.buf.Add(v)
	in.cond.Signal()

	if in.buf.Length() == 1 {
		return in.readiness.SetReadiness(queenio.ReadyReadable)
	}
	return nil
}

// Pop dequeues, blocking while the queue is empty, and clears readability
// on the non-empty-to-empty transition.
func (q MessagesQueue[T]) Pop() (T, error) {
	in := q.inner
	in.mu.Lock()
	defer in.mu.Unlock()
	for in.buf.Length() == 0 {
		in.cond.Wait()
	}
	v := in.buf.Remove().(T)

	if in.buf.Length() == 0 {
		if err := in.readiness.SetReadiness(queenio.ReadyEmpty); err != nil {
			return v, err
		}
	}
	return v, nil
}

// TryPop dequeues without blocking, maintaining readability to match the
// queue state after the pop.
func (q MessagesQueue[T]) TryPop() (T, bool, error) {
	var zero T
	in := q.inner
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.buf.Length() <= 1 {
		if err := in.readiness.SetReadiness(queenio.ReadyEmpty); err != nil {
			return zero, false, err
		}
	} else {
		if err := in.readiness.SetReadiness(queenio.ReadyReadable); err != nil {
			return zero, false, err
		}
	}

	if in.buf.Length() == 0 {
		return zero, false, nil
	}
	return in.buf.Remove().(T), true, nil
}

// Len returns the number of queued elements.
func (q MessagesQueue[T]) Len() int {
	q.inner.mu.Lock()
	defer q.inner.mu.Unlock()
	return q.inner.buf.Length()
}

func (q MessagesQueue[T]) Register(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	in := q.inner
	if err := in.registration.Register(p, token, interest, opts); err != nil {
		return err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	// elements may have been pushed before registration
	if in.buf.Length() > 0 {
		return in.readiness.SetReadiness(queenio.ReadyReadable)
	}
	return nil
}

func (q MessagesQueue[T]) Reregister(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	return q.inner.registration.Reregister(p, token, interest, opts)
}

func (q MessagesQueue[T]) Deregister(p *queenio.Poll) error {
	return q.inner.registration.Deregister(p)
}
