// Package core ties resolution, failover dialing, the socket
// registry, and the relay loop into runnable modes.
package core

import (
	"context"
	"io"
	"os"

	"godial/internal/registry"
	"godial/internal/resolve"
	"godial/internal/session"
	"godial/internal/transport"
	"godial/util"
)

// ConnectMode resolves a host, dials the candidates with failover,
// and relays stdin/stdout over the resulting connection — the default
// client mode.
type ConnectMode struct {
	Resolver *resolve.Resolver
	Dialer   *transport.FailoverDialer
	Registry *registry.Registry
	Logger   *util.Logger

	Host string
	Port string // numeric or service name

	// Stdin/Stdout default to os.Stdin/os.Stdout when nil.
	// Override in tests for deterministic I/O.
	Stdin  io.Reader
	Stdout io.Writer
}

func (m *ConnectMode) stdin() io.Reader {
	if m.Stdin != nil {
		return m.Stdin
	}
	return os.Stdin
}

func (m *ConnectMode) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// Run resolves the host, connects with failover, registers the
// handle, and relays until the connection is done.  Every handle the
// run produced is closed through the registry before Run returns.
func (m *ConnectMode) Run(ctx context.Context) error {
	defer m.Registry.CloseAll() //nolint:errcheck

	m.Logger.Verbose("resolving %s:%s", m.Host, m.Port)

	candidates, err := m.Resolver.Resolve(ctx, m.Host, m.Port)
	m.Dialer.Metrics.ResolveDone(err != nil)
	if err != nil {
		return err
	}
	m.Logger.Verbose("resolved %d candidate(s)", len(candidates))

	sock, err := m.Dialer.Connect(ctx, m.Host, m.Port, candidates)
	if err != nil {
		return err
	}
	m.Registry.Register(sock)

	m.Logger.Info("connected to %s (%s)", sock.ResolvedAddr(), sock.ID())

	sess := session.New(sock, m.stdin(), m.stdout(), m.Logger)
	return sess.Relay(ctx)
}
