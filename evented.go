package queenio

import "sync/atomic"

// Evented is implemented by any handle that can be registered with a Poll.
//
// Implementations usually delegate to an EventedFd over their raw file
// descriptor; purely in-process sources delegate to a Registration.
type Evented interface {
	Register(p *Poll, token Token, interest Ready, opts PollOpt) error
	Reregister(p *Poll, token Token, interest Ready, opts PollOpt) error
	Deregister(p *Poll) error
}

// EventedFd adapts a raw file descriptor to the Evented interface.
//
// The caller keeps ownership of the descriptor: it must stay open while
// registered and be deregistered before close.
type EventedFd int

func (fd EventedFd) Register(p *Poll, token Token, interest Ready, opts PollOpt) error {
	return p.sys.add(int(fd), token, interest, opts)
}

func (fd EventedFd) Reregister(p *Poll, token Token, interest Ready, opts PollOpt) error {
	return p.sys.modify(int(fd), token, interest, opts)
}

func (fd EventedFd) Deregister(p *Poll) error {
	return p.sys.delete(int(fd))
}

// SelectorID guards a handle against being registered with two different
// Poll instances over its lifetime. The zero value is ready to use and is
// what sockets embed.
type SelectorID struct {
	id atomic.Uint64
}

// AssociateSelector records the Poll this handle belongs to, failing with
// ErrAlreadyRegistered if a different Poll claimed it earlier.
func (s *SelectorID) AssociateSelector(p *Poll) error {
	cur := s.id.Load()
	if cur != 0 && cur != p.sys.id {
		return ErrAlreadyRegistered
	}
	s.id.Store(p.sys.id)
	return nil
}
