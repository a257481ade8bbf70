package transport

import (
	"context"
	"net"
	"testing"
	"time"

	errs "godial/internal/errors"
	"godial/internal/metrics"
	"godial/internal/resolve"
	"godial/internal/socket"
	"godial/util"
)

func loopbackCandidate(t *testing.T, port int) resolve.Candidate {
	t.Helper()
	return resolve.Candidate{
		Family:  resolve.IPv4,
		Network: "tcp4",
		IP:      net.IPv4(127, 0, 0, 1).To4(),
		Port:    port,
		Host:    "localhost",
	}
}

// closedPort returns a loopback port with no listener on it.
func closedPort(t *testing.T) int {
	t.Helper()
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	return port
}

func quietDialer() *FailoverDialer {
	return &FailoverDialer{
		Dialer: &TCPDialer{Timeout: 2 * time.Second},
		Logger: util.NewLogger(0),
	}
}

func TestConnectFirstCandidate(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	cands := []resolve.Candidate{loopbackCandidate(t, port)}

	d := quietDialer()
	s, err := d.Connect(context.Background(), "localhost", "echo", cands)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Close()

	if got := s.State(); got != socket.StateConnected {
		t.Errorf("state = %v, want connected", got)
	}
	if got := s.ResolvedAddr(); got != cands[0].Addr() {
		t.Errorf("resolved addr = %q, want %q", got, cands[0].Addr())
	}
	if len(s.Candidates()) != 1 {
		t.Errorf("candidates = %d, want 1", len(s.Candidates()))
	}
}

func TestConnectFailsOverToSecondCandidate(t *testing.T) {
	dead := closedPort(t)

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
		conn.Close()
	}()
	live := ln.Addr().(*net.TCPAddr).Port

	cands := []resolve.Candidate{
		loopbackCandidate(t, dead),
		loopbackCandidate(t, live),
	}

	m := metrics.New()
	d := quietDialer()
	d.Metrics = m

	s, err := d.Connect(context.Background(), "localhost", "6667", cands)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Close()

	if got := s.ResolvedAddr(); got != cands[1].Addr() {
		t.Errorf("resolved addr = %q, want second candidate %q", got, cands[1].Addr())
	}
	if got := m.ConnectAttempts(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
	if got := m.ConnectFailures(); got != 1 {
		t.Errorf("failures = %d, want 1", got)
	}
}

func TestConnectAllCandidatesFailed(t *testing.T) {
	cands := []resolve.Candidate{
		loopbackCandidate(t, closedPort(t)),
		loopbackCandidate(t, closedPort(t)),
		loopbackCandidate(t, closedPort(t)),
	}

	m := metrics.New()
	d := quietDialer()
	d.Metrics = m

	_, err := d.Connect(context.Background(), "localhost", "6667", cands)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errs.Is(err, errs.ErrAllCandidatesFailed) {
		t.Errorf("err = %v, want ErrAllCandidatesFailed", err)
	}

	var ce *errs.ConnectError
	if !errs.As(err, &ce) {
		t.Fatalf("err = %T, want *ConnectError", err)
	}
	if len(ce.Attempts) != 3 {
		t.Errorf("attempts recorded = %d, want 3", len(ce.Attempts))
	}
	if got := m.ConnectAttempts(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	if got := m.ActiveConnections(); got != 0 {
		t.Errorf("active connections = %d, want 0", got)
	}
}

func TestConnectEmptyCandidates(t *testing.T) {
	d := quietDialer()
	_, err := d.Connect(context.Background(), "localhost", "6667", nil)
	if !errs.Is(err, errs.ErrNoCandidates) {
		t.Errorf("err = %v, want ErrNoCandidates", err)
	}
}

// orderDialer fails every attempt and records the order addresses
// were tried in.
type orderDialer struct {
	dialed []string
}

func (d *orderDialer) Dial(_ context.Context, _, address string) (net.Conn, error) {
	d.dialed = append(d.dialed, address)
	return nil, errs.New("refused")
}

func TestDialCandidatesStrictOrder(t *testing.T) {
	cands := []resolve.Candidate{
		loopbackCandidate(t, 1001),
		loopbackCandidate(t, 1002),
		loopbackCandidate(t, 1003),
	}

	od := &orderDialer{}
	d := &FailoverDialer{Dialer: od, Logger: util.NewLogger(0)}

	_, _, err := d.DialCandidates(context.Background(), cands)
	if !errs.Is(err, errs.ErrAllCandidatesFailed) {
		t.Fatalf("err = %v", err)
	}

	want := []string{"127.0.0.1:1001", "127.0.0.1:1002", "127.0.0.1:1003"}
	if len(od.dialed) != len(want) {
		t.Fatalf("dialed %d addresses, want %d", len(od.dialed), len(want))
	}
	for i := range want {
		if od.dialed[i] != want[i] {
			t.Errorf("attempt %d = %q, want %q", i, od.dialed[i], want[i])
		}
	}
}

// leakyDialer returns a live connection together with an error — a
// misbehaving implementation whose connection must still be released.
type leakyDialer struct {
	conns []net.Conn
}

func (d *leakyDialer) Dial(_ context.Context, _, _ string) (net.Conn, error) {
	client, server := net.Pipe()
	go func() {
		// Drain until closed so Close is observable below.
		buf := make([]byte, 1)
		server.Read(buf) //nolint:errcheck
	}()
	d.conns = append(d.conns, client)
	return client, errs.New("handshake failed")
}

func TestFailedAttemptClosesConnection(t *testing.T) {
	ld := &leakyDialer{}
	d := &FailoverDialer{Dialer: ld, Logger: util.NewLogger(0)}

	cands := []resolve.Candidate{loopbackCandidate(t, 1001), loopbackCandidate(t, 1002)}
	_, _, err := d.DialCandidates(context.Background(), cands)
	if !errs.Is(err, errs.ErrAllCandidatesFailed) {
		t.Fatalf("err = %v", err)
	}

	for i, conn := range ld.conns {
		if _, werr := conn.Write([]byte("x")); werr == nil {
			t.Errorf("conn %d still open after failed attempt", i)
		}
	}
}

func TestDialCandidatesContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	od := &orderDialer{}
	d := &FailoverDialer{Dialer: od, Logger: util.NewLogger(0)}

	cands := []resolve.Candidate{loopbackCandidate(t, 1001), loopbackCandidate(t, 1002)}
	_, _, err := d.DialCandidates(ctx, cands)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errs.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled in chain", err)
	}
	if len(od.dialed) != 0 {
		t.Errorf("dialed %d addresses after cancellation, want 0", len(od.dialed))
	}
}
