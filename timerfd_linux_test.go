//go:build linux

package queenio

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestTimerFdPeriodic(t *testing.T) {
	timer, err := CreateTimerFd(ClockMonotonic, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
	if err != nil {
		t.Fatal(err)
	}
	defer timer.Close()

	old, err := timer.SetTime(TimerSpec{
		Value:    20 * time.Millisecond,
		Interval: 20 * time.Millisecond,
	}, TimerDefault)
	if err != nil {
		t.Fatal(err)
	}
	if old.Value != 0 || old.Interval != 0 {
		t.Fatalf("fresh timer reported previous setting %+v", old)
	}

	p := mkpoll(t)
	if err := p.Register(timer, Token(2), ReadyReadable, PollLevel); err != nil {
		t.Fatal(err)
	}

	events := NewEvents(16)
	waitOne(t, p, events, Token(2))

	time.Sleep(50 * time.Millisecond)
	n, err := timer.Read()
	if err != nil {
		t.Fatal(err)
	}
	if n < 2 {
		t.Fatalf("expected at least 2 expirations, got %d", n)
	}
}

func TestTimerFdGetTime(t *testing.T) {
	timer, err := NewTimerFd()
	if err != nil {
		t.Fatal(err)
	}
	defer timer.Close()

	if _, err := timer.SetTime(TimerSpec{Value: time.Hour}, TimerDefault); err != nil {
		t.Fatal(err)
	}
	cur, err := timer.GetTime()
	if err != nil {
		t.Fatal(err)
	}
	if cur.Value <= 0 || cur.Value > time.Hour {
		t.Fatalf("remaining time out of range: %v", cur.Value)
	}

	// disarm and confirm the old setting is handed back
	old, err := timer.SetTime(TimerSpec{}, TimerDefault)
	if err != nil {
		t.Fatal(err)
	}
	if old.Value == 0 {
		t.Fatal("expected non-zero previous value")
	}
}
