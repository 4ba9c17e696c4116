package net

import (
	"io"
	stdnet "net"

	"golang.org/x/sys/unix"

	queenio "github.com/danclive/queen-io"
)

// TCPStream is a non-blocking TCP connection registered by raw file
// descriptor.
type TCPStream struct {
	sid queenio.SelectorID
	fd  int
}

// Connect starts a non-blocking connect to addr ("host:port"). The call
// returns before the handshake completes; register the stream for
// writable readiness and check TakeError once it fires.
func Connect(addr string) (*TCPStream, error) {
	tcpaddr, err := stdnet.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	sa, family, err := tcpSockaddr(tcpaddr)
	if err != nil {
		return nil, err
	}

	fd, err := newSocket(family)
	if err != nil {
		return nil, err
	}
	if err := unix.Connect(fd, sa); err != nil && err != unix.EINPROGRESS {
		unix.Close(fd)
		return nil, err
	}
	return &TCPStream{fd: fd}, nil
}

// NewTCPStream takes over a stdlib TCP connection by duplicating its
// descriptor. The original conn can be closed by the caller afterwards.
func NewTCPStream(conn *stdnet.TCPConn) (*TCPStream, error) {
	fd, err := dupFd(conn)
	if err != nil {
		return nil, err
	}
	return &TCPStream{fd: fd}, nil
}

// Read reads without blocking. It returns unix.EAGAIN when no data is
// buffered and io.EOF when the peer closed the connection.
func (s *TCPStream) Read(b []byte) (int, error) {
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
// unix.EAGAIN means the send buffer is full.
func (s *TCPStream) Write(b []byte) (int, error) {
	n, err := unix.Write(s.fd, b)
	if n < 0 {
		n = 0
	}
	return n, err
}

// Peek reads without consuming.
func (s *TCPStream) Peek(b []byte) (int, error) {
	n, _, err := unix.Recvfrom(s.fd, b, unix.MSG_PEEK)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (s *TCPStream) LocalAddr() (*stdnet.TCPAddr, error) {
	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return nil, err
	}
	return sockaddrToTCP(sa), nil
}

func (s *TCPStream) PeerAddr() (*stdnet.TCPAddr, error) {
	sa, err := unix.Getpeername(s.fd)
	if err != nil {
		return nil, err
	}
	return sockaddrToTCP(sa), nil
}

func (s *TCPStream) SetNoDelay(nodelay bool) error {
	return unix.SetsockoptInt(s.fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, boolInt(nodelay))
}

func (s *TCPStream) NoDelay() (bool, error) {
	v, err := unix.GetsockoptInt(s.fd, unix.IPPROTO_TCP, unix.TCP_NODELAY)
	return v != 0, err
}

func (s *TCPStream) SetKeepAlive(keepalive bool) error {
	return unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, boolInt(keepalive))
}

func (s *TCPStream) SetTTL(ttl int) error {
	return unix.SetsockoptInt(s.fd, unix.IPPROTO_IP, unix.IP_TTL, ttl)
}

func (s *TCPStream) TTL() (int, error) {
	return unix.GetsockoptInt(s.fd, unix.IPPROTO_IP, unix.IP_TTL)
}

// TakeError reads and clears the pending socket error, e.g. the outcome
// of a non-blocking connect.
func (s *TCPStream) TakeError() (sockErr error, err error) {
	return takeError(s.fd)
}

// Shutdown closes one or both directions; how is unix.SHUT_RD,
// unix.SHUT_WR or unix.SHUT_RDWR.
func (s *TCPStream) Shutdown(how int) error {
	return unix.Shutdown(s.fd, how)
}

// Fd returns the raw file descriptor.
func (s *TCPStream) Fd() int { return s.fd }

func (s *TCPStream) Close() error { return unix.Close(s.fd) }

func (s *TCPStream) Register(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	if err := s.sid.AssociateSelector(p); err != nil {
		return err
	}
	return queenio.EventedFd(s.fd).Register(p, token, interest, opts)
}

func (s *TCPStream) Reregister(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	return queenio.EventedFd(s.fd).Reregister(p, token, interest, opts)
}

func (s *TCPStream) Deregister(p *queenio.Poll) error {
	return queenio.EventedFd(s.fd).Deregister(p)
}

// TCPListener is a non-blocking TCP listening socket.
type TCPListener struct {
	sid queenio.SelectorID
	fd  int
}

// Listen binds a non-blocking listener to addr ("host:port") with
// SO_REUSEADDR set.
func Listen(addr string) (*TCPListener, error) {
	tcpaddr, err := stdnet.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	sa, family, err := tcpSockaddr(tcpaddr)
	if err != nil {
		return nil, err
	}

	fd, err := newSocket(family)
	if err != nil {
		return nil, err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.Listen(fd, unix.SOMAXCONN); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &TCPListener{fd: fd}, nil
}

// NewTCPListener takes over a stdlib listener by duplicating its
// descriptor.
func NewTCPListener(ln *stdnet.TCPListener) (*TCPListener, error) {
	fd, err := dupFd(ln)
	if err != nil {
		return nil, err
	}
	return &TCPListener{fd: fd}, nil
}

// Accept returns the next pending connection as a non-blocking TCPStream,
// or unix.EAGAIN when none is queued.
func (l *TCPListener) Accept() (*TCPStream, *stdnet.TCPAddr, error) {
	fd, sa, err := unix.Accept(l.fd)
	if err != nil {
		return nil, nil, err
	}
	unix.CloseOnExec(fd)
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, nil, err
	}
	return &TCPStream{fd: fd}, sockaddrToTCP(sa), nil
}

func (l *TCPListener) LocalAddr() (*stdnet.TCPAddr, error) {
	sa, err := unix.Getsockname(l.fd)
	if err != nil {
		return nil, err
	}
	return sockaddrToTCP(sa), nil
}

func (l *TCPListener) SetTTL(ttl int) error {
	return unix.SetsockoptInt(l.fd, unix.IPPROTO_IP, unix.IP_TTL, ttl)
}

func (l *TCPListener) TTL() (int, error) {
	return unix.GetsockoptInt(l.fd, unix.IPPROTO_IP, unix.IP_TTL)
}

func (l *TCPListener) TakeError() (sockErr error, err error) {
	return takeError(l.fd)
}

// Fd returns the raw file descriptor.
func (l *TCPListener) Fd() int { return l.fd }

func (l *TCPListener) Close() error { return unix.Close(l.fd) }

func (l *TCPListener) Register(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	if err := l.sid.AssociateSelector(p); err != nil {
		return err
	}
	return queenio.EventedFd(l.fd).Register(p, token, interest, opts)
}

func (l *TCPListener) Reregister(p *queenio.Poll, token queenio.Token, interest queenio.Ready, opts queenio.PollOpt) error {
	return queenio.EventedFd(l.fd).Reregister(p, token, interest, opts)
}

func (l *TCPListener) Deregister(p *queenio.Poll) error {
	return queenio.EventedFd(l.fd).Deregister(p)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
