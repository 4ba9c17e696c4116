//go:build darwin || netbsd || freebsd || openbsd || dragonfly

package queenio

import "golang.org/x/sys/unix"

// wakeFd on the BSDs is a non-blocking pipe; the read end is the pollable
// handle.
type wakeFd struct {
	r, w int
}

func newWakeFd() (wakeFd, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return wakeFd{}, err
	}
	for _, fd := range fds {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return wakeFd{}, err
		}
	}
	return wakeFd{r: fds[0], w: fds[1]}, nil
}

func (p wakeFd) wake() error {
	_, err := unix.Write(p.w, []byte{0})
	// pipe full, a wakeup is pending anyway
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

func (p wakeFd) drain() error {
	var buf [128]byte
	for {
		n, err := unix.Read(p.r, buf[:])
		if err == unix.EAGAIN {
			return nil
		}
		if err != nil {
			return err
		}
		if n < len(buf) {
			return nil
		}
	}
}

func (p wakeFd) fd() int { return p.r }

func (p wakeFd) close() error {
	err := unix.Close(p.r)
	if err2 := unix.Close(p.w); err == nil {
		err = err2
	}
	return err
}
