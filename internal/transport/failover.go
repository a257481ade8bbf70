package transport

import (
	"context"
	"net"

	errs "godial/internal/errors"
	"godial/internal/metrics"
	"godial/internal/resolve"
	"godial/internal/socket"
	"godial/util"
)

// FailoverDialer tries candidate endpoints strictly in resolver order,
// one at a time, and returns a connected socket handle bound to the
// first candidate that accepts.
//
// Per-candidate failures are logged and absorbed; only the aggregate
// "all candidates failed" outcome propagates.  A failed attempt never
// leaves its connection open.
type FailoverDialer struct {
	Dialer  Dialer // per-candidate dialer; nil means a default TCPDialer
	Logger  *util.Logger
	Metrics *metrics.Collector
}

func (d *FailoverDialer) dialer() Dialer {
	if d.Dialer != nil {
		return d.Dialer
	}
	return &TCPDialer{}
}

func (d *FailoverDialer) logger() *util.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return util.NewLogger(0)
}

// Connect resolves nothing itself: it consumes an already-ordered
// candidate list and produces a connected handle that retains the
// list for diagnostics.
func (d *FailoverDialer) Connect(ctx context.Context, host, port string, candidates []resolve.Candidate) (*socket.Socket, error) {
	if len(candidates) == 0 {
		return nil, errs.ErrNoCandidates
	}

	conn, winner, err := d.DialCandidates(ctx, candidates)
	if err != nil {
		return nil, err
	}

	s := socket.New(host, port, candidates)
	s.SetMetrics(d.Metrics)
	if err := s.Bind(conn, winner); err != nil {
		conn.Close() //nolint:errcheck
		return nil, err
	}

	d.logger().Verbose("connected to %s (%s of %d candidate(s))",
		winner.Addr(), winner.Family, len(candidates))
	return s, nil
}

// DialCandidates walks the candidate list in order and returns the
// first connection that establishes, along with the winning candidate.
// When every candidate fails it returns a ConnectError aggregating the
// per-candidate errors, guaranteeing no connection remains open.
func (d *FailoverDialer) DialCandidates(ctx context.Context, candidates []resolve.Candidate) (net.Conn, resolve.Candidate, error) {
	attempts := make([]error, 0, len(candidates))

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, err)
			break
		}

		d.Metrics.ConnectAttempt()
		conn, err := d.dialer().Dial(ctx, cand.Network, cand.Addr())
		if err == nil {
			return conn, cand, nil
		}

		// The attempt failed: whatever it opened must be released
		// before the next candidate is tried.
		if conn != nil {
			conn.Close() //nolint:errcheck
		}
		d.Metrics.ConnectFailure()
		d.Metrics.RecordError(err.Error())
		d.logger().Warn("connect %s (%s): %v", cand.Host, cand.Addr(), err)
		attempts = append(attempts, errs.Wrap("dial", cand.Addr(), err))
	}

	var host string
	if len(candidates) > 0 {
		host = candidates[0].Host
	}
	return nil, resolve.Candidate{}, &errs.ConnectError{Host: host, Attempts: attempts}
}
