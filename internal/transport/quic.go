package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/quic-go/quic-go"
)

// quicConn carries the pixel protocol over a single bidirectional QUIC stream.
type quicConn struct {
	*quic.Stream
	qconn *quic.Conn
	tr    *quic.Transport // keep alive to prevent GC of underlying UDP socket
}

// dialQUIC connects to a QUIC-capable pixel server and opens the stream the
// protocol runs on.
func dialQUIC(ctx context.Context, addr string) (Conn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}

	// Use a fresh UDP socket for the client
	udpConn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, fmt.Errorf("listen UDP: %w", err)
	}

	tr := &quic.Transport{Conn: udpConn}
	quicConf := &quic.Config{
		MaxIdleTimeout:    30 * time.Second,
		KeepAlivePeriod:   10 * time.Second,
		InitialPacketSize: 1200, // Tailscale MTU is 1280; default 1350 gets dropped
	}

	qconn, err := tr.Dial(ctx, udpAddr, ClientTLSConfig(), quicConf)
	if err != nil {
		tr.Close()
		return nil, fmt.Errorf("QUIC dial: %w", err)
	}

	// QUIC doesn't announce a stream until its first write, which is the
	// SIZE request the handshake sends right away.
	stream, err := qconn.OpenStreamSync(ctx)
	if err != nil {
		qconn.CloseWithError(1, "open stream failed")
		tr.Close()
		return nil, fmt.Errorf("open stream: %w", err)
	}

	return &quicConn{Stream: stream, qconn: qconn, tr: tr}, nil
}

// closeLinger bounds how long Close waits for the server to finish reading.
const closeLinger = 2 * time.Second

// Close finishes the stream and tears down the connection and UDP socket.
// Closing the connection right after the FIN could discard the last frame, so
// Close first waits for the server to close its side or for closeLinger.
func (c *quicConn) Close() error {
	c.Stream.Close()
	c.Stream.SetReadDeadline(time.Now().Add(closeLinger))
	io.Copy(io.Discard, c.Stream)
	c.qconn.CloseWithError(0, "closed")
	return c.tr.Close()
}

// ConnectionStats returns QUIC-level connection statistics.
// Satisfies the ProfileableConn optional interface.
func (c *quicConn) ConnectionStats() quic.ConnectionStats {
	return c.qconn.ConnectionStats()
}
