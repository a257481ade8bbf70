package core

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	errs "godial/internal/errors"
	"godial/internal/metrics"
	"godial/internal/registry"
	"godial/internal/resolve"
	"godial/internal/transport"
	"godial/util"
)

// fixedLookuper answers every query with a fixed set of addresses,
// standing in for the OS resolver.
type fixedLookuper struct {
	ips []string
	err error
}

func (f *fixedLookuper) LookupIPAddr(_ context.Context, _ string) ([]net.IPAddr, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]net.IPAddr, len(f.ips))
	for i, s := range f.ips {
		out[i] = net.IPAddr{IP: net.ParseIP(s)}
	}
	return out, nil
}

func (f *fixedLookuper) LookupPort(_ context.Context, _, service string) (int, error) {
	return net.DefaultResolver.LookupPort(context.Background(), "tcp", service)
}

func newMode(lk resolve.Lookuper, port string) (*ConnectMode, *metrics.Collector) {
	logger := util.NewLogger(0)
	m := metrics.New()
	return &ConnectMode{
		Resolver: &resolve.Resolver{Lookup: lk},
		Dialer: &transport.FailoverDialer{
			Dialer:  &transport.TCPDialer{Timeout: 2 * time.Second},
			Logger:  logger,
			Metrics: m,
		},
		Registry: registry.NewRegistry(logger),
		Logger:   logger,
		Host:     "test.example.com",
		Port:     port,
	}, m
}

func TestConnectModeRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		io.Copy(conn, conn) //nolint:errcheck
	}()
	port := ln.Addr().(*net.TCPAddr).Port

	mode, m := newMode(&fixedLookuper{ips: []string{"127.0.0.1"}}, itoa(port))
	input := bytes.NewBufferString("PING\r\n")
	output := &bytes.Buffer{}
	mode.Stdin = input
	mode.Stdout = output

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := mode.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := output.String(); got != "PING\r\n" {
		t.Errorf("output = %q, want %q", got, "PING\r\n")
	}
	if got := m.TotalBytesOut(); got != 6 {
		t.Errorf("bytes out = %d, want 6", got)
	}
	if got := mode.Registry.Len(); got != 0 {
		t.Errorf("registry has %d entries after Run, want 0", got)
	}
}

func TestConnectModeFailsOver(t *testing.T) {
	// Listener bound to 127.0.0.1 only; the first candidate
	// (127.0.0.2) is refused on the same port, the second connects.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Write([]byte("second candidate\n")) //nolint:errcheck
		conn.Close()
	}()
	port := ln.Addr().(*net.TCPAddr).Port

	mode, m := newMode(&fixedLookuper{ips: []string{"127.0.0.2", "127.0.0.1"}}, itoa(port))
	output := &bytes.Buffer{}
	mode.Stdin = bytes.NewBufferString("")
	mode.Stdout = output

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := mode.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := output.String(); got != "second candidate\n" {
		t.Errorf("output = %q", got)
	}
	if got := m.ConnectAttempts(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
	if got := m.ConnectFailures(); got != 1 {
		t.Errorf("failures = %d, want 1", got)
	}
}

func TestConnectModeUnresolvable(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "invalid.invalid", IsNotFound: true}
	mode, m := newMode(&fixedLookuper{err: dnsErr}, "7")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := mode.Run(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	var re *errs.ResolveError
	if !errs.As(err, &re) {
		t.Fatalf("err = %T (%v), want *ResolveError", err, err)
	}

	// Resolution failed, so no connection was ever attempted.
	if got := m.ConnectAttempts(); got != 0 {
		t.Errorf("attempts = %d, want 0", got)
	}
	if got := m.ResolveFailures(); got != 1 {
		t.Errorf("resolve failures = %d, want 1", got)
	}
}

func TestConnectModeAllCandidatesRefused(t *testing.T) {
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}

	mode, m := newMode(&fixedLookuper{ips: []string{"127.0.0.1", "127.0.0.2"}}, itoa(port))
	mode.Stdin = bytes.NewBufferString("")
	mode.Stdout = &bytes.Buffer{}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = mode.Run(ctx)
	if !errs.Is(err, errs.ErrAllCandidatesFailed) {
		t.Fatalf("err = %v, want ErrAllCandidatesFailed", err)
	}
	if got := m.ActiveConnections(); got != 0 {
		t.Errorf("active connections = %d, want 0", got)
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
