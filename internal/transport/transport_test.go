package transport

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/stretchr/testify/require"
)

func TestWithDefaultPort(t *testing.T) {
	tests := map[string]string{
		"127.0.0.1":        "127.0.0.1:1337",
		"127.0.0.1:4000":   "127.0.0.1:4000",
		"canvas.example":   "canvas.example:1337",
		"canvas.example:9": "canvas.example:9",
		"::1":              "[::1]:1337",
		"[::1]":            "[::1]:1337",
		"[::1]:8080":       "[::1]:8080",
	}
	for in, want := range tests {
		require.Equal(t, want, WithDefaultPort(in), in)
	}
}

func TestParseDialMode(t *testing.T) {
	m, err := ParseDialMode("")
	require.NoError(t, err)
	require.Equal(t, DialTCP, m)

	m, err = ParseDialMode("QUIC")
	require.NoError(t, err)
	require.Equal(t, DialQUIC, m)
	require.Equal(t, "quic", m.String())

	_, err = ParseDialMode("udp")
	require.Error(t, err)
}

// sizeServer answers one SIZE request on rw and then reports what it read next.
func sizeServer(rw io.ReadWriter, got chan<- string) {
	r := bufio.NewReader(rw)
	line, err := r.ReadString('\n')
	if err != nil || line != "SIZE\n" {
		got <- "bad request: " + line
		return
	}
	if _, err := rw.Write([]byte("SIZE 64 32\n")); err != nil {
		got <- err.Error()
		return
	}
	rest, _ := r.ReadString('\n')
	got <- rest
}

func exchange(t *testing.T, conn Conn) {
	t.Helper()
	_, err := conn.Write([]byte("SIZE\n"))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	buf := make([]byte, 128)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "SIZE 64 32\n", string(buf[:n]))

	_, err = conn.Write([]byte("PX 1 2 FFFFFFFF\n"))
	require.NoError(t, err)
}

func TestDialTCP(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	got := make(chan string, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			got <- err.Error()
			return
		}
		defer c.Close()
		sizeServer(c, got)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, DialTCP, ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	exchange(t, conn)
	select {
	case line := <-got:
		require.Equal(t, "PX 1 2 FFFFFFFF\n", line)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for server")
	}

	_, ok := conn.(ProfileableConn)
	require.False(t, ok, "TCP connections have no QUIC stats")
}

func TestDialTCPRefused(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = Dial(ctx, DialTCP, addr)
	require.Error(t, err)
}

func TestDialQUIC(t *testing.T) {
	cert, err := selfSignedCert()
	require.NoError(t, err)

	udpConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	tr := &quic.Transport{Conn: udpConn}
	defer tr.Close()

	ln, err := tr.Listen(serverTLSConfig(cert), &quic.Config{MaxIdleTimeout: 30 * time.Second})
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := make(chan string, 1)
	go func() {
		qconn, err := ln.Accept(ctx)
		if err != nil {
			got <- err.Error()
			return
		}
		defer qconn.CloseWithError(0, "test done")
		stream, err := qconn.AcceptStream(ctx)
		if err != nil {
			got <- err.Error()
			return
		}
		sizeServer(stream, got)
	}()

	port := udpConn.LocalAddr().(*net.UDPAddr).Port
	conn, err := Dial(ctx, DialQUIC, net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	defer conn.Close()

	exchange(t, conn)
	select {
	case line := <-got:
		require.Equal(t, "PX 1 2 FFFFFFFF\n", line)
	case <-ctx.Done():
		t.Fatal("timeout waiting for server")
	}

	pc, ok := conn.(ProfileableConn)
	require.True(t, ok)
	require.Positive(t, pc.ConnectionStats().BytesSent)
}

func TestTLSConfigsAgreeOnALPN(t *testing.T) {
	cert, err := selfSignedCert()
	require.NoError(t, err)
	client, server := ClientTLSConfig(), serverTLSConfig(cert)
	require.Equal(t, server.NextProtos, client.NextProtos)
	require.True(t, client.InsecureSkipVerify)
	require.Empty(t, client.Certificates)
}
