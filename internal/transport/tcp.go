package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// dialTCP opens a plain TCP connection. Pixel servers speak the protocol in
// the clear; there is no TLS or authentication on this path.
func dialTCP(ctx context.Context, addr string) (Conn, error) {
	d := &net.Dialer{KeepAlive: 30 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("TCP dial %s: %w", addr, err)
	}
	return conn, nil
}
