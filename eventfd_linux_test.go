//go:build linux

package queenio

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestEventFdCounter(t *testing.T) {
	efd, err := NewEventFd()
	if err != nil {
		t.Fatal(err)
	}
	defer efd.Close()

	// empty counter reads as EAGAIN in non-blocking mode
	if _, err := efd.Read(); err != unix.EAGAIN {
		t.Fatalf("expected EAGAIN, got %v", err)
	}

	if err := efd.Write(3); err != nil {
		t.Fatal(err)
	}
	if err := efd.Write(4); err != nil {
		t.Fatal(err)
	}

	// writes accumulate, a read resets
	n, err := efd.Read()
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Fatalf("expected counter 7, got %d", n)
	}
	if _, err := efd.Read(); err != unix.EAGAIN {
		t.Fatalf("expected EAGAIN, got %v", err)
	}
}

func TestEventFdSemaphore(t *testing.T) {
	efd, err := NewEventFdWithOptions(2, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK|unix.EFD_SEMAPHORE)
	if err != nil {
		t.Fatal(err)
	}
	defer efd.Close()

	for i := 0; i < 2; i++ {
		n, err := efd.Read()
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Fatalf("semaphore read %d, expected 1", n)
		}
	}
	if _, err := efd.Read(); err != unix.EAGAIN {
		t.Fatalf("expected EAGAIN, got %v", err)
	}
}

func TestEventFdPollable(t *testing.T) {
	p := mkpoll(t)
	efd, err := NewEventFd()
	if err != nil {
		t.Fatal(err)
	}
	defer efd.Close()

	if err := p.Register(efd, Token(11), ReadyReadable, PollLevel); err != nil {
		t.Fatal(err)
	}

	events := NewEvents(16)
	waitNone(t, p, events)

	if err := efd.Write(1); err != nil {
		t.Fatal(err)
	}
	waitOne(t, p, events, Token(11))

	if _, err := efd.Read(); err != nil {
		t.Fatal(err)
	}
	waitNone(t, p, events)
}
