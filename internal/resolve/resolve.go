// Package resolve turns a (host, port) pair into an ordered list of
// candidate endpoints using the OS name resolution facility.
//
// Candidate order is preserved exactly as the resolver returned it:
// DNS-level preference such as round-robin rotation is encoded in that
// order, and the failover dialer depends on it.
package resolve

import (
	"context"
	"net"
	"strconv"

	errs "godial/internal/errors"
)

// Family is the address family of a candidate, carried explicitly
// alongside the address rather than inferred from its byte length.
type Family int

const (
	IPv4 Family = iota + 1
	IPv6
)

func (f Family) String() string {
	switch f {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return "unknown"
	}
}

// Network returns the net package dial network for the family.
func (f Family) Network() string {
	if f == IPv6 {
		return "tcp6"
	}
	return "tcp4"
}

// Policy selects which address families Resolve returns.  The zero
// value is IPv4Only, the historical default of this layer.
type Policy int

const (
	IPv4Only Policy = iota
	IPv6Only
	DualStack
)

func (p Policy) admits(f Family) bool {
	switch p {
	case IPv4Only:
		return f == IPv4
	case IPv6Only:
		return f == IPv6
	default:
		return true
	}
}

// Candidate is one resolver-produced endpoint.  Candidates are
// immutable once produced.
type Candidate struct {
	Family  Family
	Network string // "tcp4" or "tcp6"
	IP      net.IP
	Port    int
	Host    string // the hostname that resolved to this candidate
}

// Addr returns the textual host:port form used for dialing.
func (c Candidate) Addr() string {
	return net.JoinHostPort(c.IP.String(), strconv.Itoa(c.Port))
}

// Lookuper is the slice of net.Resolver this package needs.  Tests
// inject implementations to control candidate orderings and failures.
type Lookuper interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupPort(ctx context.Context, network, service string) (int, error)
}

// Resolver resolves hostnames to candidate endpoints.
type Resolver struct {
	Policy Policy
	Lookup Lookuper // nil means net.DefaultResolver
}

func (r *Resolver) lookup() Lookuper {
	if r.Lookup != nil {
		return r.Lookup
	}
	return net.DefaultResolver
}

// Resolve produces the ordered, non-empty candidate list for host and
// port.  Port may be numeric or a service name ("6667", "ircd").  The
// call blocks until the OS resolver answers; it is never retried here.
func (r *Resolver) Resolve(ctx context.Context, host, port string) ([]Candidate, error) {
	portNum, err := r.lookup().LookupPort(ctx, "tcp", port)
	if err != nil {
		return nil, errs.WrapResolve(host, port, err)
	}

	addrs, err := r.lookup().LookupIPAddr(ctx, host)
	if err != nil {
		return nil, errs.WrapResolve(host, port, err)
	}

	candidates := make([]Candidate, 0, len(addrs))
	for _, a := range addrs {
		fam := IPv6
		if v4 := a.IP.To4(); v4 != nil {
			fam = IPv4
			a.IP = v4
		}
		if !r.Policy.admits(fam) {
			continue
		}
		candidates = append(candidates, Candidate{
			Family:  fam,
			Network: fam.Network(),
			IP:      a.IP,
			Port:    portNum,
			Host:    host,
		})
	}

	if len(candidates) == 0 {
		return nil, errs.WrapResolve(host, port, errs.ErrNoCandidates)
	}
	return candidates, nil
}
