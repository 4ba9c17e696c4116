package queue

import (
	"sync"
	"testing"
	"time"

	queenio "github.com/danclive/queen-io"
)

func TestBlockQueuePopBlocks(t *testing.T) {
	q := NewBlockQueue[int]()

	if _, ok := q.TryPop(); ok {
		t.Fatal("TryPop on empty queue succeeded")
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push(7)
	}()

	if v := q.Pop(); v != 7 {
		t.Fatalf("got %d, want 7", v)
	}
}

func TestBlockQueueManyWorkers(t *testing.T) {
	q := NewBlockQueue[int]()

	const items = 1000
	const workers = 8

	var wg sync.WaitGroup
	var mu sync.Mutex
	sum := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v := q.Pop()
				if v < 0 { // poison pill
					return
				}
				mu.Lock()
				sum += v
				mu.Unlock()
			}
		}()
	}

	want := 0
	for i := 1; i <= items; i++ {
		q.Push(i)
		want += i
	}
	for i := 0; i < workers; i++ {
		q.Push(-1)
	}
	wg.Wait()

	if sum != want {
		t.Fatalf("sum %d, want %d", sum, want)
	}
}

func TestMessagesQueuePollableWhileNonEmpty(t *testing.T) {
	q, err := NewMessagesQueue[string]()
	if err != nil {
		t.Fatal(err)
	}
	p := mkpoll(t)
	if err := p.Register(q, qToken, queenio.ReadyReadable, queenio.PollLevel); err != nil {
		t.Fatal(err)
	}

	events := queenio.NewEvents(16)
	if n, _ := p.Wait(events, 100*time.Millisecond); n != 0 {
		t.Fatal("empty queue reported readable")
	}

	if err := q.Push("a"); err != nil {
		t.Fatal(err)
	}
	if err := q.Push("b"); err != nil {
		t.Fatal(err)
	}

	n, err := p.Wait(events, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("non-empty queue not readable")
	}

	// still readable with one element left
	if v, ok, err := q.TryPop(); err != nil || !ok || v != "a" {
		t.Fatalf("got %q, %v, %v", v, ok, err)
	}
	n, err = p.Wait(events, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("queue with remaining element not readable")
	}

	// drained: readiness clears
	if v, ok, err := q.TryPop(); err != nil || !ok || v != "b" {
		t.Fatalf("got %q, %v, %v", v, ok, err)
	}
	if n, _ := p.Wait(events, 100*time.Millisecond); n != 0 {
		t.Fatal("drained queue still readable")
	}
}

func TestMessagesQueueBlockingPop(t *testing.T) {
	q, err := NewMessagesQueue[int]()
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push(99)
	}()

	v, err := q.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if v != 99 {
		t.Fatalf("got %d, want 99", v)
	}
}

func TestMessagesQueueRegisterNonEmpty(t *testing.T) {
	q, err := NewMessagesQueue[int]()
	if err != nil {
		t.Fatal(err)
	}
	if err := q.Push(1); err != nil {
		t.Fatal(err)
	}

	// registered after the push, must still report readable
	p := mkpoll(t)
	if err := p.Register(q, qToken, queenio.ReadyReadable, queenio.PollLevel); err != nil {
		t.Fatal(err)
	}
	events := queenio.NewEvents(16)
	n, err := p.Wait(events, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("pre-filled queue not readable after register")
	}
}
