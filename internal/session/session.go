// Package session owns the lifecycle of exactly one TCP connection.
//
// A Session starts Closed, becomes Open through Connect, ConnectFrom or
// Accept, and returns to Closed through Close.  Reads never return an
// error: a peer close, a reset or an unrecoverable failure all collapse
// into the ReadClosed sentinel, and the cause is kept for Err.  Setup
// failures are returned as *errors.SocketError values and always leave
// the session Closed and reusable.
//
// A Session is meant for one reader at a time.  Close and Write may be
// called from other goroutines; closing aborts a blocked Read.
package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	ncerr "tcpport/internal/errors"
	"tcpport/internal/metrics"
	"tcpport/internal/transport"
	"tcpport/util"
)

const (
	// ReadClosed is returned by Read once the stream has ended.
	ReadClosed = -1

	// PollTimeout bounds how long Available waits for a byte.
	PollTimeout = time.Millisecond

	// AcceptBacklog is the pending-connection queue length used by Accept.
	AcceptBacklog = 1
)

// State is the lifecycle state of a session.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (st State) String() string {
	if st == StateOpen {
		return "open"
	}
	return "closed"
}

// Endpoint is one side of a connection: a dotted-decimal IPv4 address
// and a port in host byte order.
type Endpoint struct {
	Address string
	Port    int
}

func (e Endpoint) String() string { return util.FormatAddr(e.Address, e.Port) }

func endpointOf(a net.Addr) Endpoint {
	ta, ok := a.(*net.TCPAddr)
	if !ok || ta == nil {
		return Endpoint{}
	}
	ip := ta.IP
	if ip4 := ip.To4(); ip4 != nil {
		ip = ip4
	}
	return Endpoint{Address: ip.String(), Port: ta.Port}
}

// Option configures a Session.
type Option func(*Session)

// WithResolver replaces the default HostResolver.
func WithResolver(r transport.Resolver) Option {
	return func(s *Session) { s.resolver = r }
}

// WithLogger attaches a logger.  Without one the session is silent.
func WithLogger(l *util.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics feeds connection and byte counters into m.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Session) { s.metrics = m }
}

// WithListenHook registers fn to be called with the bound listening
// endpoint right before Accept blocks.  Useful with port 0.
func WithListenHook(fn func(Endpoint)) Option {
	return func(s *Session) { s.listenHook = fn }
}

// Session is a single TCP connection and its endpoint pair.
type Session struct {
	resolver   transport.Resolver
	logger     *util.Logger
	metrics    *metrics.Collector
	listenHook func(Endpoint)

	mu      sync.Mutex
	state   State
	conn    *net.TCPConn // non-nil iff state == StateOpen
	reader  *bufio.Reader
	local   Endpoint
	remote  Endpoint
	readErr error
}

// New returns a Closed session.
func New(opts ...Option) *Session {
	s := &Session{resolver: transport.NewHostResolver()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ── Setup ────────────────────────────────────────────────────────────

// Connect resolves host:port and connects to it from an ephemeral local
// endpoint.
func (s *Session) Connect(ctx context.Context, host string, port int) error {
	return s.dial(ctx, nil, host, port)
}

// ConnectFrom binds localHost:localPort before connecting to host:port,
// so the peer sees traffic from a fixed source endpoint.
func (s *Session) ConnectFrom(ctx context.Context, localHost string, localPort int, host string, port int) error {
	if !s.IsClosed() {
		return ncerr.ErrAlreadyOpen
	}
	local, err := s.resolver.Resolve(ctx, localHost, localPort)
	if err != nil {
		s.fail(err)
		return err
	}
	return s.dial(ctx, local.TCPAddr(), host, port)
}

func (s *Session) dial(ctx context.Context, local *net.TCPAddr, host string, port int) error {
	if !s.IsClosed() {
		return ncerr.ErrAlreadyOpen
	}
	s.metrics.ConnectAttempt()

	remote, err := s.resolver.Resolve(ctx, host, port)
	if err != nil {
		s.fail(err)
		return err
	}

	d := net.Dialer{Control: transport.ReuseAddrControl}
	if local != nil {
		d.LocalAddr = local
		s.logger.Verbose("binding %s", local)
	}
	s.logger.Verbose("connecting to %s", remote)

	c, err := d.DialContext(ctx, "tcp4", remote.String())
	if err != nil {
		var serr *ncerr.SocketError
		if transport.IsBindFailure(err) {
			serr = ncerr.Wrap(ncerr.ErrBind, "bind", local.String(), transport.ErrorCode(err), err)
		} else {
			serr = ncerr.Wrap(ncerr.ErrConnect, "connect", remote.String(), transport.ErrorCode(err), err)
		}
		s.fail(serr)
		return serr
	}
	return s.adopt(c.(*net.TCPConn))
}

// Accept binds host:port, waits for exactly one peer and adopts its
// connection.  The listening socket is closed before Accept returns.
// Cancelling ctx aborts the wait with an ErrAccept error.
func (s *Session) Accept(ctx context.Context, host string, port int) error {
	if !s.IsClosed() {
		return ncerr.ErrAlreadyOpen
	}
	s.metrics.ConnectAttempt()

	local, err := s.resolver.Resolve(ctx, host, port)
	if err != nil {
		s.fail(err)
		return err
	}

	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp4", local.String())
	if err != nil {
		kind, op := ncerr.ErrListen, "listen"
		if transport.IsBindFailure(err) {
			kind, op = ncerr.ErrBind, "bind"
		}
		serr := ncerr.Wrap(kind, op, local.String(), transport.ErrorCode(err), err)
		s.fail(serr)
		return serr
	}
	ln := l.(*net.TCPListener)
	defer ln.Close()

	if err := transport.SetListenBacklog(ln, AcceptBacklog); err != nil {
		s.logger.Debug("backlog %d on %s: %v", AcceptBacklog, local, err)
	}

	bound := endpointOf(ln.Addr())
	s.logger.Verbose("listening on %s", bound)
	if s.listenHook != nil {
		s.listenHook(bound)
	}

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	c, err := ln.AcceptTCP()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		serr := ncerr.Wrap(ncerr.ErrAccept, "accept", bound.String(), transport.ErrorCode(err), err)
		s.fail(serr)
		return serr
	}
	return s.adopt(c)
}

// adopt makes c the session's connection.  A session that was opened
// concurrently keeps its existing connection and c is closed.
func (s *Session) adopt(c *net.TCPConn) error {
	s.mu.Lock()
	if s.state == StateOpen {
		s.mu.Unlock()
		c.Close()
		return ncerr.ErrAlreadyOpen
	}
	s.conn = c
	s.reader = bufio.NewReaderSize(c, util.DefaultBufSize)
	s.local = endpointOf(c.LocalAddr())
	s.remote = endpointOf(c.RemoteAddr())
	s.readErr = nil
	s.state = StateOpen
	local, remote := s.local, s.remote
	s.mu.Unlock()

	s.metrics.ConnectionOpened()
	s.logger.Verbose("connected %s -> %s", local, remote)
	return nil
}

func (s *Session) fail(err error) {
	s.metrics.RecordError(err.Error())
	s.logger.Debug("%v", err)
}

// ── I/O ──────────────────────────────────────────────────────────────

func (s *Session) snapshot() (*net.TCPConn, *bufio.Reader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return nil, nil
	}
	return s.conn, s.reader
}

// Write sends up to len(p) bytes.  A short count with a nil error is
// possible and callers that need everything sent must loop.
func (s *Session) Write(p []byte) (int, error) {
	c, _ := s.snapshot()
	if c == nil {
		return 0, ncerr.ErrNotOpen
	}
	n, err := c.Write(p)
	s.metrics.BytesSent(int64(n))
	if err != nil {
		serr := ncerr.Wrap(ncerr.ErrSend, "send", s.RemoteEndpoint().String(), transport.ErrorCode(err), err)
		s.fail(serr)
		return n, serr
	}
	return n, nil
}

// CloseWrite half-closes the connection so the peer reads end-of-stream
// while this side can still receive.
func (s *Session) CloseWrite() error {
	c, _ := s.snapshot()
	if c == nil {
		return ncerr.ErrNotOpen
	}
	if err := c.CloseWrite(); err != nil {
		return ncerr.Wrap(ncerr.ErrSend, "shutdown", s.RemoteEndpoint().String(), transport.ErrorCode(err), err)
	}
	return nil
}

// Available reports whether a Read would return without blocking,
// waiting at most PollTimeout.  An ended stream counts as ready.
func (s *Session) Available() bool {
	c, r := s.snapshot()
	if c == nil {
		return false
	}
	if r.Buffered() > 0 {
		return true
	}

	if err := c.SetReadDeadline(time.Now().Add(PollTimeout)); err != nil {
		return true
	}
	_, err := r.Peek(1)
	c.SetReadDeadline(time.Time{}) //nolint:errcheck

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return false
	}
	return true
}

// Read blocks until at least one byte arrives and returns the count.
// It returns ReadClosed once the peer has closed, reset the connection
// or an unrecoverable error has occurred, and 0 only for an empty p.
func (s *Session) Read(p []byte) int {
	_, r := s.snapshot()
	if r == nil {
		return ReadClosed
	}
	if len(p) == 0 {
		return 0
	}

	for {
		n, err := r.Read(p)
		if n > 0 {
			s.metrics.BytesReceived(int64(n))
			return n
		}
		if err == nil {
			continue
		}

		switch class := transport.ClassifyReadError(err); class {
		case transport.ReadRetry, transport.ReadTruncated:
			s.metrics.ReadRetry()
			s.logger.Debug("read %s: %v, retrying", class, err)
			continue
		case transport.ReadReset:
			s.metrics.ReadReset()
			s.logger.Verbose("connection reset by %s", s.RemoteEndpoint())
			s.endRead(nil)
		default:
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				s.logger.Debug("read: end of stream")
				s.endRead(nil)
			} else {
				s.logger.Debug("read: %v", err)
				s.endRead(err)
			}
		}
		return ReadClosed
	}
}

func (s *Session) endRead(err error) {
	s.mu.Lock()
	s.readErr = err
	s.mu.Unlock()
	if err != nil {
		s.metrics.RecordError(err.Error())
	}
}

// Err returns the error that ended reading, or nil when the stream
// ended with an orderly close, a reset or a local Close.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readErr
}

// ── Teardown ─────────────────────────────────────────────────────────

// Close releases the connection.  It is safe to call any number of
// times, from any goroutine.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return
	}
	c := s.conn
	s.state = StateClosed
	s.conn = nil
	s.reader = nil
	local, remote := s.local, s.remote
	s.mu.Unlock()

	c.Close()
	s.metrics.ConnectionClosed()
	s.logger.Debug("closed %s -> %s", local, remote)
}

// ── Accessors ────────────────────────────────────────────────────────

// IsClosed reports whether the session has no open connection.
func (s *Session) IsClosed() bool { return s.State() == StateClosed }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LocalEndpoint returns the local side of the last connection.
func (s *Session) LocalEndpoint() Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local
}

// RemoteEndpoint returns the peer side of the last connection.
func (s *Session) RemoteEndpoint() Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remote
}

func (s *Session) LocalAddress() string  { return s.LocalEndpoint().Address }
func (s *Session) LocalPort() int        { return s.LocalEndpoint().Port }
func (s *Session) RemoteAddress() string { return s.RemoteEndpoint().Address }
func (s *Session) RemotePort() int       { return s.RemoteEndpoint().Port }
