// Package net provides non-blocking TCP and Unix domain sockets for use
// with a queenio.Poll.
//
// Every socket is switched to non-blocking mode at construction. Read,
// Write and Accept never park the calling goroutine: when the kernel has
// nothing to offer they return unix.EAGAIN and the caller retries after
// the next readiness event.
package net

import (
	"errors"
	stdnet "net"
	"syscall"

	"golang.org/x/sys/unix"
)

// ErrNoRawConn means a stdlib connection does not expose its descriptor
// through syscall.RawConn.
var ErrNoRawConn = errors.New("net.Conn does not implement syscall.Conn")

// dupFd uses RawConn to dup() the file descriptor out of a stdlib socket.
// The duplicate is owned by the wrapper; the original connection stays
// untouched.
func dupFd(conn syscall.Conn) (newfd int, err error) {
	rc, err := conn.SyscallConn()
	if err != nil {
		return -1, ErrNoRawConn
	}

	// Control() guarantees the integrity of the file descriptor
	ec := rc.Control(func(fd uintptr) {
		newfd, err = unix.Dup(int(fd))
	})
	if ec != nil {
		return -1, ec
	}
	if err != nil {
		return -1, err
	}

	unix.CloseOnExec(newfd)
	if err := unix.SetNonblock(newfd, true); err != nil {
		unix.Close(newfd)
		return -1, err
	}
	return newfd, nil
}

// newSocket opens a non-blocking close-on-exec stream socket.
func newSocket(family int) (int, error) {
	fd, err := unix.Socket(family, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}
	unix.CloseOnExec(fd)
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, err
	}
	return fd, nil
}

func tcpSockaddr(a *stdnet.TCPAddr) (unix.Sockaddr, int, error) {
	ip := a.IP
	if ip == nil {
		ip = stdnet.IPv4zero
	}
	if ip4 := ip.To4(); ip4 != nil {
		sa := &unix.SockaddrInet4{Port: a.Port}
		copy(sa.Addr[:], ip4)
		return sa, unix.AF_INET, nil
	}
	ip16 := ip.To16()
	if ip16 == nil {
		return nil, 0, &stdnet.AddrError{Err: "unsupported address", Addr: a.String()}
	}
	sa := &unix.SockaddrInet6{Port: a.Port}
	copy(sa.Addr[:], ip16)
	if a.Zone != "" {
		ifi, err := stdnet.InterfaceByName(a.Zone)
		if err != nil {
			return nil, 0, err
		}
		sa.ZoneId = uint32(ifi.Index)
	}
	return sa, unix.AF_INET6, nil
}

func sockaddrToTCP(sa unix.Sockaddr) *stdnet.TCPAddr {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return &stdnet.TCPAddr{IP: append([]byte(nil), sa.Addr[:]...), Port: sa.Port}
	case *unix.SockaddrInet6:
		return &stdnet.TCPAddr{IP: append([]byte(nil), sa.Addr[:]...), Port: sa.Port}
	}
	return nil
}

// takeError reads and clears the pending socket error.
func takeError(fd int) (sockErr error, err error) {
	code, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return unix.Errno(code), nil
	}
	return nil, nil
}
