package evloop

import (
	"sync"
	"testing"
	"time"

	queenio "github.com/danclive/queen-io"
)

const wakerToken = queenio.Token(17)

type countingHandler struct {
	waker  *queenio.Waker
	events int
	limit  int
}

func (h *countingHandler) Event(l *EventLoop, token queenio.Token, ready queenio.Ready) {
	if token != wakerToken || !ready.IsReadable() {
		return
	}
	h.events++
	h.waker.Finish()
	if h.events >= h.limit {
		l.Shutdown()
	}
}

func TestRunDispatchesAndShutsDown(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	waker, err := queenio.NewWaker()
	if err != nil {
		t.Fatal(err)
	}
	defer waker.Close()

	if err := l.Register(waker, wakerToken, queenio.ReadyReadable, queenio.PollLevel); err != nil {
		t.Fatal(err)
	}

	h := &countingHandler{waker: waker, limit: 3}
	go func() {
		for i := 0; i < h.limit; i++ {
			waker.Wakeup()
			time.Sleep(10 * time.Millisecond)
		}
	}()

	done := make(chan error, 1)
	go func() { done <- l.Run(h) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not shut down")
	}
	if h.events < h.limit {
		t.Fatalf("dispatched %d events, want at least %d", h.events, h.limit)
	}
}

func TestRunOnceTimeout(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	h := &countingHandler{limit: 1}
	if err := l.RunOnce(h, 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if h.events != 0 {
		t.Fatalf("idle loop dispatched %d events", h.events)
	}
}

type latchHandler struct {
	waker *queenio.Waker
	seen  chan struct{}
	once  sync.Once
}

func (h *latchHandler) Event(l *EventLoop, token queenio.Token, ready queenio.Ready) {
	h.waker.Finish()
	h.once.Do(func() { close(h.seen) })
}

func TestShutdownFromAnotherGoroutine(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	waker, err := queenio.NewWaker()
	if err != nil {
		t.Fatal(err)
	}
	defer waker.Close()

	if err := l.Register(waker, wakerToken, queenio.ReadyReadable, queenio.PollLevel); err != nil {
		t.Fatal(err)
	}

	h := &latchHandler{waker: waker, seen: make(chan struct{})}
	done := make(chan error, 1)
	go func() { done <- l.Run(h) }()

	waker.Wakeup()
	select {
	case <-h.seen:
	case <-time.After(5 * time.Second):
		t.Fatal("loop never dispatched")
	}

	l.Shutdown()
	waker.Wakeup()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not observe shutdown")
	}
}

func TestDeregisterStopsDispatch(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	waker, err := queenio.NewWaker()
	if err != nil {
		t.Fatal(err)
	}
	defer waker.Close()

	if err := l.Register(waker, wakerToken, queenio.ReadyReadable, queenio.PollLevel); err != nil {
		t.Fatal(err)
	}
	if err := l.Deregister(waker); err != nil {
		t.Fatal(err)
	}

	waker.Wakeup()
	h := &countingHandler{waker: waker, limit: 1}
	if err := l.RunOnce(h, 100*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if h.events != 0 {
		t.Fatalf("deregistered waker dispatched %d events", h.events)
	}
}
