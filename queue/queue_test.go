package queue

import (
	"sync"
	"testing"
	"time"

	queenio "github.com/danclive/queen-io"
)

const qToken = queenio.Token(0)

func mkpoll(t *testing.T) *queenio.Poll {
	t.Helper()
	p, err := queenio.NewPoll()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestQueueOrder(t *testing.T) {
	q, err := Unbounded[int]()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := q.Push(i); err != nil {
			t.Fatal(err)
		}
	}
	if q.Len() != 5 {
		t.Fatalf("len %d, want 5", q.Len())
	}
	for i := 0; i < 5; i++ {
		v, err := q.Pop()
		if err != nil {
			t.Fatal(err)
		}
		if v != i {
			t.Fatalf("got %d, want %d", v, i)
		}
	}
	if _, err := q.Pop(); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestQueueBounded(t *testing.T) {
	q, err := Bounded[int](2)
	if err != nil {
		t.Fatal(err)
	}
	if q.Capacity() != 2 {
		t.Fatalf("capacity %d, want 2", q.Capacity())
	}
	q.Push(1)
	q.Push(2)
	if !q.IsFull() {
		t.Fatal("queue should be full")
	}
	if err := q.Push(3); err != ErrFull {
		t.Fatalf("expected ErrFull, got %v", err)
	}
}

func TestQueueClose(t *testing.T) {
	q, err := Unbounded[int]()
	if err != nil {
		t.Fatal(err)
	}
	q.Push(1)
	if !q.Close() {
		t.Fatal("first close should report true")
	}
	if q.Close() {
		t.Fatal("second close should report false")
	}
	if err := q.Push(2); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	// a closed queue still drains
	if v, err := q.Pop(); err != nil || v != 1 {
		t.Fatalf("got %d, %v", v, err)
	}
	if _, err := q.Pop(); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestQueuePollable(t *testing.T) {
	q, err := Unbounded[string]()
	if err != nil {
		t.Fatal(err)
	}
	p := mkpoll(t)
	if err := p.Register(q, qToken, queenio.ReadyReadable, queenio.PollEdge); err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push("wake up")
	}()

	events := queenio.NewEvents(16)
	n, err := p.Wait(events, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("no event for push")
	}
	if v, err := q.Pop(); err != nil || v != "wake up" {
		t.Fatalf("got %q, %v", v, err)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q, err := Unbounded[int]()
	if err != nil {
		t.Fatal(err)
	}
	p := mkpoll(t)
	if err := p.Register(q, qToken, queenio.ReadyReadable, queenio.PollEdge); err != nil {
		t.Fatal(err)
	}

	const producers = 4
	const perProducer = 250
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				if err := q.Push(j); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		q.Close()
		// closing does not signal by itself
		q.Wake()
	}()

	events := queenio.NewEvents(16)
	received := 0
	deadline := time.Now().Add(10 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatalf("timed out after %d items", received)
		}
		if _, err := p.Wait(events, time.Second); err != nil {
			t.Fatal(err)
		}
		for {
			_, err := q.Pop()
			if err == ErrEmpty {
				break
			}
			if err == ErrClosed {
				if received != producers*perProducer {
					t.Fatalf("received %d, want %d", received, producers*perProducer)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			received++
		}
	}
}

func TestQueueWake(t *testing.T) {
	q, err := Unbounded[int]()
	if err != nil {
		t.Fatal(err)
	}
	p := mkpoll(t)
	if err := p.Register(q, qToken, queenio.ReadyReadable, queenio.PollLevel); err != nil {
		t.Fatal(err)
	}

	// Wake nudges the consumer with no element queued
	if err := q.Wake(); err != nil {
		t.Fatal(err)
	}
	events := queenio.NewEvents(16)
	n, err := p.Wait(events, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("no event for wake")
	}
}
