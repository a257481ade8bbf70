// Package registry tracks the set of live socket handles so a single
// teardown path can release everything at shutdown.
//
// A Registry is deliberately unsynchronized: the design assumes one
// owner drives Register, Deregister, and CloseAll from a single
// goroutine.  Concurrent callers must add their own mutual exclusion.
package registry

import (
	"errors"

	"godial/internal/socket"
	"godial/internal/vec"
	"godial/util"
)

// Registry is a collection of live socket handles.  Membership
// reflects exactly the handles that have been registered and not yet
// closed; duplicates are rejected.
type Registry struct {
	sockets vec.Vec[*socket.Socket]
	logger  *util.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *util.Logger) *Registry {
	if logger == nil {
		logger = util.NewLogger(0)
	}
	return &Registry{logger: logger}
}

// Len returns the number of registered handles.
func (r *Registry) Len() int { return r.sockets.Len() }

// Sockets returns a snapshot of the registered handles.
func (r *Registry) Sockets() []*socket.Socket {
	out := make([]*socket.Socket, r.sockets.Len())
	copy(out, r.sockets.Slice())
	return out
}

// Register adds a handle and hooks its close so the entry cannot
// outlive the socket.  Registering the same handle twice is a no-op.
func (r *Registry) Register(s *socket.Socket) {
	if s == nil || r.contains(s) {
		return
	}
	r.sockets.Push(s)
	s.SetOnClose(func(closed *socket.Socket) {
		vec.Remove(&r.sockets, closed)
	})
	r.logger.Debug("registered socket %s (%d live)", s.ID(), r.sockets.Len())
}

// Deregister removes a handle without closing it.  Absent handles are
// ignored.
func (r *Registry) Deregister(s *socket.Socket) {
	if s == nil {
		return
	}
	if vec.Remove(&r.sockets, s) {
		s.SetOnClose(nil)
		r.logger.Debug("deregistered socket %s (%d live)", s.ID(), r.sockets.Len())
	}
}

// CloseAll closes every registered handle and clears the registry.
// It is the only bulk-teardown path and is safe to call repeatedly,
// including on an empty registry.
func (r *Registry) CloseAll() error {
	if r.sockets.Len() == 0 {
		return nil
	}
	r.logger.Verbose("closing %d socket(s)", r.sockets.Len())

	var closeErrs []error
	for _, s := range r.Sockets() {
		if err := s.Close(); err != nil {
			closeErrs = append(closeErrs, err)
		}
	}
	r.sockets.Clear()
	r.sockets.Compact()

	return errors.Join(closeErrs...)
}

func (r *Registry) contains(s *socket.Socket) bool {
	for _, x := range r.sockets.Slice() {
		if x == s {
			return true
		}
	}
	return false
}
