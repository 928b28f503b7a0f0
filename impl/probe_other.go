//go:build !linux

package impl

import (
	"context"
	"net"
	"time"
)

// TcpProber without SO_BINDTODEVICE; interface binding is linux-only.
type TcpProber struct {
	ifName string
}

func NewTcpProber(ifName string) *TcpProber {
	return &TcpProber{ifName: ifName}
}

func (p *TcpProber) Probe(ctx context.Context, addr string, timeout time.Duration) error {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
