//go:build linux

package impl

import (
	"context"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// TcpProber checks upstream reachability with a plain TCP connect bound to
// the monitored interface, so the probe cannot leak out through the mesh
// default route it is meant to validate.
type TcpProber struct {
	ifName string
}

func NewTcpProber(ifName string) *TcpProber {
	return &TcpProber{ifName: ifName}
}

func (p *TcpProber) Probe(ctx context.Context, addr string, timeout time.Duration) error {
	dialer := net.Dialer{
		Timeout: timeout,
		Control: func(network, address string, c syscall.RawConn) error {
			var soErr error
			err := c.Control(func(fd uintptr) {
				soErr = unix.SetsockoptString(int(fd), unix.SOL_SOCKET, unix.SO_BINDTODEVICE, p.ifName)
			})
			if err != nil {
				return err
			}
			return soErr
		},
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
