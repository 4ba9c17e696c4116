package queue

import (
	"sync"

	ring "github.com/eapache/queue"
)

// BlockQueue is a mutex-and-condvar FIFO: Pop blocks until an element is
// available. It is not pollable; see MessagesQueue for that.
//
// A BlockQueue may be copied; copies share the same storage.
type BlockQueue[T any] struct {
	inner *blockQueueInner[T]
}

type blockQueueInner[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond
	buf  *ring.Queue
}

// NewBlockQueue creates an empty blocking queue.
func NewBlockQueue[T any]() BlockQueue[T] {
	in := &blockQueueInner[T]{buf: ring.New()}
	in.cond = sync.NewCond(&in.mu)
	return BlockQueue[T]{inner: in}
}

// Push enqueues v and wakes one blocked Pop.
func (q BlockQueue[T]) Push(v T) {
	in := q.inner
	in.mu.Lock()
	in.buf.Add(v)
	in.mu.Unlock()
	in.cond.Signal()
}

// Pop dequeues, blocking while the queue is empty.
func (q BlockQueue[T]) Pop() T {
	in := q.inner
	in.mu.Lock()
	defer in.mu.Unlock()
	for in.buf.Length() == 0 {
		in.cond.Wait()
	}
	return in.buf.Remove().(T)
}

// TryPop dequeues without blocking.
func (q BlockQueue[T]) TryPop() (T, bool) {
	in := q.inner
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.buf.Length() == 0 {
		var zero T
		return zero, false
	}
	return in.buf.Remove().(T), true
}

// Len returns the number of queued elements.
func (q BlockQueue[T]) Len() int {
	q.inner.mu.Lock()
	defer q.inner.mu.Unlock()
	return q.inner.buf.Length()
}
