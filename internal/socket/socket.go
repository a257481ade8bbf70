// Package socket provides the owning handle around an established
// connection: its descriptor, the resolution metadata that produced
// it, and a strict Created → Connected → Closed lifecycle.
package socket

import (
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	errs "godial/internal/errors"
	"godial/internal/metrics"
	"godial/internal/resolve"
)

// State is the lifecycle state of a Socket.  Exactly one state holds
// at any time, and there is no transition out of StateClosed.
type State int32

const (
	// StateCreated means the handle exists but carries no live
	// connection yet.  It is transient: the failover dialer binds a
	// connection immediately after construction.
	StateCreated State = iota

	// StateConnected means the handle owns a live connection and
	// Read/Write are valid.
	StateConnected

	// StateClosed is terminal; the descriptor has been released.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// Socket owns one established connection plus the metadata of the
// resolution that produced it.  Read and Write are blocking and valid
// only while the socket is connected.
//
// The state word is atomic so that a relay closing the socket from a
// second goroutine cannot race the release, but a Socket is otherwise
// meant to be driven by a single owner.
type Socket struct {
	id           string
	state        atomic.Int32
	conn         net.Conn
	host         string
	port         string
	resolvedAddr string
	candidates   []resolve.Candidate

	metrics *metrics.Collector
	onClose func(*Socket)
}

// New returns a handle in StateCreated holding the resolution
// metadata.  The candidate list is retained for diagnostics until the
// socket is closed.
func New(host, port string, candidates []resolve.Candidate) *Socket {
	return &Socket{
		id:         uuid.NewString(),
		host:       host,
		port:       port,
		candidates: candidates,
	}
}

// SetMetrics attaches a collector; a nil collector disables counting.
func (s *Socket) SetMetrics(m *metrics.Collector) { s.metrics = m }

// SetOnClose registers a hook invoked exactly once when the socket
// transitions to StateClosed.  The registry uses it to deregister.
func (s *Socket) SetOnClose(fn func(*Socket)) { s.onClose = fn }

// Bind attaches an established connection for the winning candidate,
// moving the handle from Created to Connected.  Binding twice or
// binding a closed handle is a usage error.
func (s *Socket) Bind(conn net.Conn, winner resolve.Candidate) error {
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateConnected)) {
		if s.State() == StateClosed {
			return errs.ErrClosed
		}
		return errs.New("socket is already connected")
	}
	s.conn = conn
	s.resolvedAddr = winner.Addr()
	s.metrics.ConnectionOpened()
	return nil
}

// ── Accessors ────────────────────────────────────────────────────────

// ID returns the unique identifier assigned at construction.
func (s *Socket) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Socket) State() State { return State(s.state.Load()) }

// Host returns the hostname the socket was resolved from.
func (s *Socket) Host() string { return s.host }

// Port returns the requested port or service name.
func (s *Socket) Port() string { return s.port }

// ResolvedAddr returns the textual address of the candidate that
// actually connected, or "" before binding.
func (s *Socket) ResolvedAddr() string { return s.resolvedAddr }

// Candidates returns the full candidate list this handle resolved to.
func (s *Socket) Candidates() []resolve.Candidate { return s.candidates }

// RemoteAddr returns the remote address of the live connection, or
// nil when not connected.
func (s *Socket) RemoteAddr() net.Addr {
	if s.State() != StateConnected {
		return nil
	}
	return s.conn.RemoteAddr()
}

// LocalAddr returns the local address of the live connection, or nil
// when not connected.
func (s *Socket) LocalAddr() net.Addr {
	if s.State() != StateConnected {
		return nil
	}
	return s.conn.LocalAddr()
}

// ── I/O ──────────────────────────────────────────────────────────────

// Read blocks until up to len(p) bytes arrive.  An orderly remote
// close surfaces as (0, io.EOF); it is never folded into the count.
// Reading outside the connected state is a usage error.
func (s *Socket) Read(p []byte) (int, error) {
	if err := s.ioState(); err != nil {
		return 0, err
	}
	n, err := s.conn.Read(p)
	s.metrics.BytesReceived(int64(n))
	if err != nil && err != io.EOF {
		return n, errs.Wrap("read", s.resolvedAddr, err)
	}
	return n, err
}

// Write blocks until len(p) bytes are sent or the connection fails.
// On failure the actual byte count written is returned alongside the
// error; it is never retried here.
func (s *Socket) Write(p []byte) (int, error) {
	if err := s.ioState(); err != nil {
		return 0, err
	}
	n, err := s.conn.Write(p)
	s.metrics.BytesSent(int64(n))
	if err != nil {
		return n, errs.Wrap("write", s.resolvedAddr, err)
	}
	return n, nil
}

func (s *Socket) ioState() error {
	switch s.State() {
	case StateConnected:
		return nil
	case StateClosed:
		return errs.ErrClosed
	default:
		return errs.ErrNotConnected
	}
}

// CloseWrite half-closes the sending side when the underlying
// connection supports it, signalling EOF to the remote while reads
// stay open.
func (s *Socket) CloseWrite() error {
	if err := s.ioState(); err != nil {
		return err
	}
	if tc, ok := s.conn.(*net.TCPConn); ok {
		return tc.CloseWrite()
	}
	return nil
}

// ── Deadlines ────────────────────────────────────────────────────────
//
// Timeouts are not a feature of this layer; callers that need them set
// OS-level deadlines through these passthroughs.

// SetDeadline sets the read and write deadlines on the connection.
func (s *Socket) SetDeadline(t time.Time) error {
	if err := s.ioState(); err != nil {
		return err
	}
	return s.conn.SetDeadline(t)
}

// SetReadDeadline sets the read deadline on the connection.
func (s *Socket) SetReadDeadline(t time.Time) error {
	if err := s.ioState(); err != nil {
		return err
	}
	return s.conn.SetReadDeadline(t)
}

// SetWriteDeadline sets the write deadline on the connection.
func (s *Socket) SetWriteDeadline(t time.Time) error {
	if err := s.ioState(); err != nil {
		return err
	}
	return s.conn.SetWriteDeadline(t)
}

// ── Teardown ─────────────────────────────────────────────────────────

// Close releases the connection exactly once and moves the handle to
// StateClosed.  Closing an already-closed or never-connected handle
// is a no-op; the descriptor can never be released twice.
func (s *Socket) Close() error {
	if s.state.CompareAndSwap(int32(StateCreated), int32(StateClosed)) {
		// Never bound: no descriptor to release, but the hook still
		// fires so a registry entry cannot outlive the handle.
		if s.onClose != nil {
			s.onClose(s)
		}
		return nil
	}
	if !s.state.CompareAndSwap(int32(StateConnected), int32(StateClosed)) {
		return nil
	}

	err := s.conn.Close()
	s.metrics.ConnectionClosed()
	if s.onClose != nil {
		s.onClose(s)
	}
	if err != nil {
		return errs.Wrap("close", s.resolvedAddr, err)
	}
	return nil
}
