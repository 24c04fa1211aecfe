package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/quic-go/quic-go"
)

// DefaultPort is the conventional pixel server port.
const DefaultPort = 1337

// DialMode selects which transport to use when dialing.
type DialMode int

const (
	DialTCP DialMode = iota
	DialQUIC
)

func (m DialMode) String() string {
	switch m {
	case DialTCP:
		return "tcp"
	case DialQUIC:
		return "quic"
	default:
		return "unknown"
	}
}

// ParseDialMode accepts "tcp" or "quic".
func ParseDialMode(s string) (DialMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tcp":
		return DialTCP, nil
	case "quic":
		return DialQUIC, nil
	default:
		return 0, fmt.Errorf("unknown transport %q (want tcp or quic)", s)
	}
}

// Conn is a byte stream to a pixel server. Both the TCP and QUIC
// implementations satisfy it.
type Conn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
}

// ProfileableConn is an optional interface for connections that can
// provide QUIC-level connection statistics (used by --profile).
type ProfileableConn interface {
	ConnectionStats() quic.ConnectionStats
}

// Dial connects to remote ("host" or "host:port") using the given mode.
func Dial(ctx context.Context, mode DialMode, remote string) (Conn, error) {
	addr := WithDefaultPort(remote)
	switch mode {
	case DialTCP:
		return dialTCP(ctx, addr)
	case DialQUIC:
		return dialQUIC(ctx, addr)
	default:
		return nil, fmt.Errorf("unsupported dial mode %d", mode)
	}
}

// WithDefaultPort appends DefaultPort when remote has no port.
func WithDefaultPort(remote string) string {
	if _, _, err := net.SplitHostPort(remote); err == nil {
		return remote
	}
	return net.JoinHostPort(strings.Trim(remote, "[]"), strconv.Itoa(DefaultPort))
}
