// Package session represents a single connection lifecycle, binding a
// socket handle with I/O endpoints and shared context.
//
// Sessions decouple the relay loop from concrete I/O sources — it
// doesn't need to know whether it's reading from os.Stdin or a test
// buffer, it just uses the session's Reader/Writer.
package session

import (
	"context"
	"io"

	"godial/internal/socket"
	"godial/util"
)

// Session encapsulates the runtime context for a single connection.
type Session struct {
	Socket *socket.Socket
	Stdin  io.Reader
	Stdout io.Writer
	Logger *util.Logger
}

// New creates a Session bound to the given socket and I/O pair.
func New(s *socket.Socket, stdin io.Reader, stdout io.Writer, logger *util.Logger) *Session {
	return &Session{
		Socket: s,
		Stdin:  stdin,
		Stdout: stdout,
		Logger: logger,
	}
}

// Relay shuttles bytes between the socket and the local I/O endpoints
// until one side closes or the context is cancelled.  The socket's
// write side is half-closed when the local reader reaches EOF.
func (s *Session) Relay(ctx context.Context) error {
	return util.BidirectionalCopy(ctx, s.Socket, s.Stdin, s.Stdout)
}
