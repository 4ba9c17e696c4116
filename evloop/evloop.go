// Package evloop runs a minimal dispatch loop over a queenio.Poll,
// delivering every readiness event to a user Handler.
package evloop

import (
	"sync/atomic"
	"time"

	queenio "github.com/danclive/queen-io"
)

const defaultEventCapacity = 1024

// Handler receives readiness events from an EventLoop. Event is called on
// the loop goroutine, so it may register and deregister handles freely.
type Handler interface {
	Event(l *EventLoop, token queenio.Token, ready queenio.Ready)
}

// EventLoop owns a Poll and an event buffer and dispatches events until
// shut down. It is driven from a single goroutine; Shutdown may be called
// from any goroutine.
type EventLoop struct {
	run    atomic.Bool
	poll   *queenio.Poll
	events *queenio.Events
}

// New creates an event loop with its own Poll.
func New() (*EventLoop, error) {
	poll, err := queenio.NewPoll()
	if err != nil {
		return nil, err
	}
	return &EventLoop{
		poll:   poll,
		events: queenio.NewEvents(defaultEventCapacity),
	}, nil
}

// Poll returns the underlying Poll, e.g. for wiring up a Waker.
func (l *EventLoop) Poll() *queenio.Poll { return l.poll }

func (l *EventLoop) Register(ev queenio.Evented, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	return l.poll.Register(ev, token, interest, opts)
}

func (l *EventLoop) Reregister(ev queenio.Evented, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	return l.poll.Reregister(ev, token, interest, opts)
}

func (l *EventLoop) Deregister(ev queenio.Evented) error {
	return l.poll.Deregister(ev)
}

// RunOnce blocks for up to timeout (forever if negative), then dispatches
// whatever became ready to h.
func (l *EventLoop) RunOnce(h Handler, timeout time.Duration) error {
	n, err := l.poll.Wait(l.events, timeout)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		ev := l.events.Get(i)
		h.Event(l, ev.Token(), ev.Readiness())
	}
	return nil
}

// Run dispatches events until Shutdown is called or a Wait fails.
func (l *EventLoop) Run(h Handler) error {
	l.run.Store(true)
	for l.run.Load() {
		if err := l.RunOnce(h, -1); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown makes Run return after the current dispatch round. Call it
// from the handler, or wake the loop through a registered Waker after
// calling it from another goroutine.
func (l *EventLoop) Shutdown() { l.run.Store(false) }

// Close releases the loop's Poll.
func (l *EventLoop) Close() error { return l.poll.Close() }
