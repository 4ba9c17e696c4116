package queenio

// Registration and SetReadiness are the two halves of a purely in-process
// event source. The Registration side is registered with a Poll; any
// goroutine holding the SetReadiness side can then make it fire.
//
// Both halves share one Waker, so readiness is binary: a non-empty set
// arms the handle and an empty set drains it.
type Registration struct {
	waker *Waker
}

// SetReadiness updates the readiness of its paired Registration.
type SetReadiness struct {
	waker *Waker
}

// NewRegistration creates a paired Registration and SetReadiness.
func NewRegistration() (*Registration, *SetReadiness, error) {
	waker, err := NewWaker()
	if err != nil {
		return nil, nil, err
	}
	return &Registration{waker: waker}, &SetReadiness{waker: waker}, nil
}

func (r *Registration) Register(p *Poll, token Token, interest Ready, opts PollOpt) error {
	return r.waker.Register(p, token, interest, opts)
}

func (r *Registration) Reregister(p *Poll, token Token, interest Ready, opts PollOpt) error {
	return r.waker.Reregister(p, token, interest, opts)
}

func (r *Registration) Deregister(p *Poll) error {
	return r.waker.Deregister(p)
}

// Close releases the shared waker; the paired SetReadiness becomes inert.
func (r *Registration) Close() error {
	return r.waker.Close()
}

// SetReadiness arms the registration for a non-empty set and drains it
// for an empty one.
func (s *SetReadiness) SetReadiness(ready Ready) error {
	return s.waker.SetReadiness(ready)
}
