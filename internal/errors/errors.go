// Package errors provides domain-specific error types for godial.
//
// These types carry structured context (operation, address, the
// per-candidate failures behind an aggregate) that helps callers
// decide how to handle failures and provides better diagnostics than
// plain string wrapping.
package errors

import (
	"errors"
	"fmt"
	"net"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrAllCandidatesFailed means every resolved candidate refused
	// the connection.  No descriptor is left open when it is returned.
	ErrAllCandidatesFailed = errors.New("all candidate addresses failed")

	// ErrNoCandidates means resolution produced an empty candidate
	// list after family filtering.
	ErrNoCandidates = errors.New("no candidate addresses")

	// ErrNotConnected is returned for I/O attempted before a socket
	// reaches the connected state.
	ErrNotConnected = errors.New("socket is not connected")

	// ErrClosed is returned for I/O attempted after a socket has been
	// closed.  It wraps net.ErrClosed so shutdown paths that already
	// tolerate closed-connection errors tolerate this one too.
	ErrClosed = fmt.Errorf("socket is closed: %w", net.ErrClosed)
)

// ── Structured error types ───────────────────────────────────────────

// ResolveError represents a failed hostname/service resolution.
type ResolveError struct {
	Host string
	Port string
	Err  error // underlying resolver error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s:%s: %v", e.Host, e.Port, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// ConnectError represents a connection attempt that exhausted every
// candidate.  Attempts holds the per-candidate failures in the order
// they were tried.
type ConnectError struct {
	Host     string
	Attempts []error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v after %d attempt(s)",
		e.Host, ErrAllCandidatesFailed, len(e.Attempts))
}

// Unwrap exposes the sentinel plus every per-candidate failure, so
// errors.Is(err, ErrAllCandidatesFailed) and inspection of individual
// attempts both work.
func (e *ConnectError) Unwrap() []error {
	return append([]error{ErrAllCandidatesFailed}, e.Attempts...)
}

// NetworkError represents a failure in a single network operation.
type NetworkError struct {
	Op   string // operation: "dial", "read", "write", "close"
	Addr string // network address involved
	Err  error  // underlying error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{Op: op, Addr: addr, Err: err}
}

// WrapResolve creates a ResolveError.
func WrapResolve(host, port string, err error) *ResolveError {
	return &ResolveError{Host: host, Port: port, Err: err}
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use godial/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
