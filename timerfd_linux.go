//go:build linux

package queenio

import (
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Clock selects which kernel clock a TimerFd measures.
type Clock int

const (
	ClockRealtime      = Clock(unix.CLOCK_REALTIME)
	ClockMonotonic     = Clock(unix.CLOCK_MONOTONIC)
	ClockBoottime      = Clock(unix.CLOCK_BOOTTIME)
	ClockRealtimeAlarm = Clock(unix.CLOCK_REALTIME_ALARM)
	ClockBoottimeAlarm = Clock(unix.CLOCK_BOOTTIME_ALARM)
)

func (c Clock) String() string {
	switch c {
	case ClockRealtime:
		return "CLOCK_REALTIME"
	case ClockMonotonic:
		return "CLOCK_MONOTONIC"
	case ClockBoottime:
		return "CLOCK_BOOTTIME"
	case ClockRealtimeAlarm:
		return "CLOCK_REALTIME_ALARM"
	case ClockBoottimeAlarm:
		return "CLOCK_BOOTTIME_ALARM"
	}
	return "CLOCK_UNKNOWN"
}

// Flags to SetTime.
const (
	// TimerDefault interprets the value as relative to now.
	TimerDefault = 0
	// TimerAbstime interprets the value as an absolute time on the
	// timer's clock.
	TimerAbstime = unix.TFD_TIMER_ABSTIME
	// TimerCancelOnSet additionally fails pending reads with ECANCELED
	// when a realtime clock undergoes a discontinuous change. It is
	// meaningless without TFD_TIMER_ABSTIME, so it implies it.
	TimerCancelOnSet = unix.TFD_TIMER_CANCEL_ON_SET | unix.TFD_TIMER_ABSTIME
)

// TimerSpec describes a timer setting: the initial expiration Value and,
// for periodic timers, the repeat Interval. A zero Value disarms.
type TimerSpec struct {
	Interval time.Duration
	Value    time.Duration
}

// TimerFd wraps a Linux timerfd: a timer whose expirations are delivered
// as readability of a file descriptor.
//
// See timerfd_create(2).
type TimerFd struct {
	rawfd int
}

// NewTimerFd creates a CLOCK_REALTIME timerfd with
// TFD_CLOEXEC | TFD_NONBLOCK.
func NewTimerFd() (*TimerFd, error) {
	return CreateTimerFd(ClockRealtime, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
}

// CreateTimerFd creates a timerfd on the given clock with the given flags.
func CreateTimerFd(clock Clock, flags int) (*TimerFd, error) {
	fd, err := unix.TimerfdCreate(int(clock), flags)
	if err != nil {
		return nil, err
	}
	return &TimerFd{rawfd: fd}, nil
}

// SetTime arms (or disarms) the timer and returns the previous setting.
func (t *TimerFd) SetTime(spec TimerSpec, flags int) (TimerSpec, error) {
	newSpec := unix.ItimerSpec{
		Interval: unix.NsecToTimespec(spec.Interval.Nanoseconds()),
		Value:    unix.NsecToTimespec(spec.Value.Nanoseconds()),
	}
	var oldSpec unix.ItimerSpec
	if err := unix.TimerfdSettime(t.rawfd, flags, &newSpec, &oldSpec); err != nil {
		return TimerSpec{}, err
	}
	return timerSpecFromItimer(&oldSpec), nil
}

// GetTime returns the current setting: the time until the next expiration
// and the interval.
func (t *TimerFd) GetTime() (TimerSpec, error) {
	var cur unix.ItimerSpec
	if err := unix.TimerfdGettime(t.rawfd, &cur); err != nil {
		return TimerSpec{}, err
	}
	return timerSpecFromItimer(&cur), nil
}

// Read returns the number of expirations since the last read. On a
// non-blocking timerfd no expirations reads as EAGAIN.
func (t *TimerFd) Read() (uint64, error) {
	var x uint64
	_, err := unix.Read(t.rawfd, (*(*[8]byte)(unsafe.Pointer(&x)))[:])
	if err != nil {
		return 0, err
	}
	return x, nil
}

// Fd returns the raw file descriptor.
func (t *TimerFd) Fd() int { return t.rawfd }

func (t *TimerFd) Close() error { return unix.Close(t.rawfd) }

func (t *TimerFd) Register(p *Poll, token Token, interest Ready, opts PollOpt) error {
	return EventedFd(t.rawfd).Register(p, token, interest, opts)
}

func (t *TimerFd) Reregister(p *Poll, token Token, interest Ready, opts PollOpt) error {
	return EventedFd(t.rawfd).Reregister(p, token, interest, opts)
}

func (t *TimerFd) Deregister(p *Poll) error {
	return EventedFd(t.rawfd).Deregister(p)
}

func timerSpecFromItimer(its *unix.ItimerSpec) TimerSpec {
	return TimerSpec{
		Interval: time.Duration(its.Interval.Nano()),
		Value:    time.Duration(its.Value.Nano()),
	}
}
