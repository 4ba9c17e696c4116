//go:build linux

package queenio

import "golang.org/x/sys/unix"

// wakeFd on Linux is an eventfd.
type wakeFd struct {
	efd *EventFd
}

func newWakeFd() (wakeFd, error) {
	efd, err := NewEventFd()
	if err != nil {
		return wakeFd{}, err
	}
	return wakeFd{efd: efd}, nil
}

func (w wakeFd) wake() error {
	err := w.efd.Write(1)
	// counter saturated, a wakeup is pending anyway
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

func (w wakeFd) drain() error {
	_, err := w.efd.Read()
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

func (w wakeFd) fd() int { return w.efd.Fd() }

func (w wakeFd) close() error { return w.efd.Close() }
