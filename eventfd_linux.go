//go:build linux

package queenio

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// EventFd wraps a Linux eventfd: a kernel-maintained 64-bit counter that
// is pollable for readability whenever it is non-zero.
//
// See eventfd(2).
type EventFd struct {
	rawfd int
}

// NewEventFd creates an eventfd with a zero counter and
// EFD_CLOEXEC | EFD_NONBLOCK.
func NewEventFd() (*EventFd, error) {
	return NewEventFdWithOptions(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
}

// NewEventFdWithOptions creates an eventfd with the given initial counter
// value and flags (EFD_CLOEXEC, EFD_NONBLOCK, EFD_SEMAPHORE).
func NewEventFdWithOptions(initval uint, flags int) (*EventFd, error) {
	fd, err := unix.Eventfd(initval, flags)
	if err != nil {
		return nil, err
	}
	return &EventFd{rawfd: fd}, nil
}

// Read returns the counter value and resets it (or decrements it by one
// in semaphore mode). On a non-blocking eventfd a zero counter reads as
// EAGAIN.
func (e *EventFd) Read() (uint64, error) {
	var x uint64
	_, err := unix.Read(e.rawfd, (*(*[8]byte)(unsafe.Pointer(&x)))[:])
	if err != nil {
		return 0, err
	}
	return x, nil
}

// Write adds val to the counter.
func (e *EventFd) Write(val uint64) error {
	_, err := unix.Write(e.rawfd, (*(*[8]byte)(unsafe.Pointer(&val)))[:])
	return err
}

// Fd returns the raw file descriptor.
func (e *EventFd) Fd() int { return e.rawfd }

func (e *EventFd) Close() error { return unix.Close(e.rawfd) }

func (e *EventFd) Register(p *Poll, token Token, interest Ready, opts PollOpt) error {
	return EventedFd(e.rawfd).Register(p, token, interest, opts)
}

func (e *EventFd) Reregister(p *Poll, token Token, interest Ready, opts PollOpt) error {
	return EventedFd(e.rawfd).Reregister(p, token, interest, opts)
}

func (e *EventFd) Deregister(p *Poll) error {
	return EventedFd(e.rawfd).Deregister(p)
}
