package impl

import (
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync"

	"golang.org/x/net/ipv6"

	"github.com/BaisilG/fbmeshd/state"
)

// UdpTransport ships routing frames over UDP on the mesh interface. Unicast
// destinations map to the station's EUI-64 link-local address; the broadcast
// mac maps to the all-nodes multicast group. The sender mac is recovered from
// the link-local source address on receive.
type UdpTransport struct {
	log  *slog.Logger
	conn *net.UDPConn
	zone string
	port uint16

	mu sync.Mutex
	cb func(sa state.MacAddress, data []byte)
}

func NewUdpTransport(log *slog.Logger, ifName string, port uint16, tos int) (*UdpTransport, error) {
	if _, err := net.InterfaceByName(ifName); err != nil {
		return nil, fmt.Errorf("mesh interface %s: %w", ifName, err)
	}
	conn, err := net.ListenUDP("udp6", &net.UDPAddr{IP: net.IPv6unspecified, Port: int(port)})
	if err != nil {
		return nil, err
	}
	if err := ipv6.NewPacketConn(conn).SetTrafficClass(tos); err != nil {
		log.Debug("failed to set traffic class", "err", err)
	}

	t := &UdpTransport{
		log:  log,
		conn: conn,
		zone: ifName,
		port: port,
	}
	go t.readLoop()
	return t, nil
}

func (t *UdpTransport) SendPacket(da state.MacAddress, data []byte) error {
	var dst netip.Addr
	if da.IsBroadcast() {
		dst = netip.MustParseAddr("ff02::1")
	} else {
		dst = da.LinkLocalAddr()
	}
	addr := net.UDPAddrFromAddrPort(netip.AddrPortFrom(dst.WithZone(t.zone), t.port))
	_, err := t.conn.WriteToUDP(data, addr)
	return err
}

func (t *UdpTransport) SetReceivePacketCallback(cb func(sa state.MacAddress, data []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb = cb
}

func (t *UdpTransport) Close() error {
	return t.conn.Close()
}

func (t *UdpTransport) readLoop() {
	buf := make([]byte, 2048)
	for {
		n, from, err := t.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			// closed on shutdown
			return
		}
		sa, ok := state.MacFromLinkLocal(from.Addr().WithZone(""))
		if !ok {
			t.log.Debug("dropped frame from non-link-local source", "from", from)
			continue
		}
		t.mu.Lock()
		cb := t.cb
		t.mu.Unlock()
		if cb != nil {
			data := make([]byte, n)
			copy(data, buf[:n])
			cb(sa, data)
		}
	}
}
