package net

import (
	"io"
	stdnet "net"

	"golang.org/x/sys/unix"

	queenio "github.com/danclive/queen-io"
)

// UnixStream is a non-blocking Unix domain stream connection.
type UnixStream struct {
	sid queenio.SelectorID
	fd  int
}

// ConnectUnix starts a non-blocking connect to the socket at path.
func ConnectUnix(path string) (*UnixStream, error) {
	fd, err := newSocket(unix.AF_UNIX)
	if err != nil {
		return nil, err
	}
	sa := &unix.SockaddrUnix{Name: path}
	if err := unix.Connect(fd, sa); err != nil && err != unix.EINPROGRESS && err != unix.EAGAIN {
		unix.Close(fd)
		return nil, err
	}
	return &UnixStream{fd: fd}, nil
}

// NewUnixStream takes over a stdlib Unix connection by duplicating its
// descriptor.
func NewUnixStream(conn *stdnet.UnixConn) (*UnixStream, error) {
	fd, err := dupFd(conn)
	if err != nil {
		return nil, err
	}
	return &UnixStream{fd: fd}, nil
}

// UnixPair returns two connected non-blocking Unix stream sockets.
func UnixPair() (*UnixStream, *UnixStream, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, err
	}
	for _, fd := range fds {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return nil, nil, err
		}
	}
	return &UnixStream{fd: fds[0]}, &UnixStream{fd: fds[1]}, nil
}

// Read reads without blocking; unix.EAGAIN when nothing is buffered,
// io.EOF when the peer closed.
func (s *UnixStream) Read(b []byte) (int, error) {
	n, err := unix.Read(s.fd, b)
	if n < 0 {
		n = 0
	}
	if err != nil {
		return n, err
	}
	if n == 0 && len(b) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write writes without blocking; it may write fewer bytes than given.
func (s *UnixStream) Write(b []byte) (int, error) {
	n, err := unix.Write(s.fd, b)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (s *UnixStream) LocalAddr() (*stdnet.UnixAddr, error) {
	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return nil, err
	}
	return sockaddrToUnix(sa), nil
}

func (s *UnixStream) PeerAddr() (*stdnet.UnixAddr, error) {
	sa, err := unix.Getpeername(s.fd)
	if err != nil {
		return nil, err
	}
	return sockaddrToUnix(sa), nil
}

func (s *UnixStream) TakeError() (sockErr error, err error) {
	return takeError(s.fd)
}

// Shutdown closes one or both directions; how is unix.SHUT_RD,
// unix.SHUT_WR or unix.SHUT_RDWR.
func (s *UnixStream) Shutdown(how int) error {
	return unix.Shutdown(s.fd, how)
}

// Fd returns the raw file descriptor.
func (s *UnixStream) Fd() int { return s.fd }

func (s *UnixStream) Close() error { return unix.Close(s.fd) }

func (s *UnixStream) Register(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	if err := s.sid.AssociateSelector(p); err != nil {
		return err
	}
	return queenio.EventedFd(s.fd).Register(p, token, interest, opts)
}

func (s *UnixStream) Reregister(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	return queenio.EventedFd(s.fd).Reregister(p, token, interest, opts)
}

func (s *UnixStream) Deregister(p *queenio.Poll) error {
	return queenio.EventedFd(s.fd).Deregister(p)
}

// UnixListener is a non-blocking Unix domain listening socket.
type UnixListener struct {
	sid queenio.SelectorID
	fd  int
}

// ListenUnix binds a non-blocking listener to the socket at path.
func ListenUnix(path string) (*UnixListener, error) {
	fd, err := newSocket(unix.AF_UNIX)
	if err != nil {
		return nil, err
	}
	sa := &unix.SockaddrUnix{Name: path}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.Listen(fd, unix.SOMAXCONN); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &UnixListener{fd: fd}, nil
}

// AcceptUnix returns the next pending connection, or unix.EAGAIN when
// none is queued.
func (l *UnixListener) Accept() (*UnixStream, error) {
	fd, _, err := unix.Accept(l.fd)
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(fd)
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &UnixStream{fd: fd}, nil
}

func (l *UnixListener) LocalAddr() (*stdnet.UnixAddr, error) {
	sa, err := unix.Getsockname(l.fd)
	if err != nil {
		return nil, err
	}
	return sockaddrToUnix(sa), nil
}

func (l *UnixListener) TakeError() (sockErr error, err error) {
	return takeError(l.fd)
}

// Fd returns the raw file descriptor.
func (l *UnixListener) Fd() int { return l.fd }

func (l *UnixListener) Close() error { return unix.Close(l.fd) }

func (l *UnixListener) Register(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	if err := l.sid.AssociateSelector(p); err != nil {
		return err
	}
	return queenio.EventedFd(l.fd).Register(p, token, interest, opts)
}

func (l *UnixListener) Reregister(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	return queenio.EventedFd(l.fd).Reregister(p, token, interest, opts)
}

func (l *UnixListener) Deregister(p *queenio.Poll) error {
	return queenio.EventedFd(l.fd).Deregister(p)
}

func sockaddrToUnix(sa unix.Sockaddr) *stdnet.UnixAddr {
	if sa, ok := sa.(*unix.SockaddrUnix); ok {
		return &stdnet.UnixAddr{Name: sa.Name, Net: "unix"}
	}
	return nil
}
