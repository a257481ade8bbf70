package util

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
)

// DefaultBufSize is the standard buffer size for network I/O (32 KiB).
const DefaultBufSize = 32 * 1024

// WriteCloser is implemented by connections that support half-close,
// such as *net.TCPConn and the socket handle wrapping one.
type WriteCloser interface {
	CloseWrite() error
}

// BidirectionalCopy shuffles data between a connection and an
// arbitrary reader/writer pair (typically stdin/stdout) until one side
// reaches EOF or the context is cancelled.
func BidirectionalCopy(ctx context.Context, conn io.ReadWriteCloser, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	// network → writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		buf := GetBuf()
		_, err := io.CopyBuffer(w, conn, *buf)
		PutBuf(buf)
		errCh <- err
		cancel()
	}()

	// reader → network
	wg.Add(1)
	go func() {
		defer wg.Done()
		buf := GetBuf()
		_, err := io.CopyBuffer(conn, r, *buf)
		PutBuf(buf)
		// Half-close the write side so the remote knows we're done
		// sending, but keep the read side open to drain any remaining
		// data from the server (the other goroutine handles that).
		if hc, ok := conn.(WriteCloser); ok {
			hc.CloseWrite() //nolint:errcheck
		}
		errCh <- err
		// Only cancel on real errors; a normal EOF from the reader
		// should NOT tear down the connection before the remote
		// finishes sending.
		if err != nil {
			cancel()
		}
	}()

	<-ctx.Done()
	conn.Close() // unblock any pending reads/writes
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil && !isHarmless(err) {
			return err
		}
	}
	return nil
}

// isHarmless returns true for errors that are expected during shutdown.
func isHarmless(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// net.OpError wrapping "use of closed network connection"
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}
