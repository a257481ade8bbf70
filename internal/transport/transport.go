// Package transport provides network connection establishment: a
// plain single-address TCP dialer and a failover dialer that walks an
// ordered candidate list until one endpoint accepts.
package transport

import (
	"context"
	"net"
)

// Dialer opens one outbound network connection.  The failover dialer
// uses a Dialer for each candidate attempt, so tests can substitute
// implementations that fail on command.
type Dialer interface {
	// Dial establishes a connection to the given network address,
	// blocking until it is connected or the attempt fails.
	Dial(ctx context.Context, network, address string) (net.Conn, error)
}
