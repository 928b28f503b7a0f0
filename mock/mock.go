package mock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BaisilG/fbmeshd/state"
)

// Transport is an in-memory PacketTransport that records sends and lets
// tests inject inbound frames.
type Transport struct {
	mu   sync.Mutex
	cb   func(sa state.MacAddress, data []byte)
	Sent []SentPacket
}

type SentPacket struct {
	Da   state.MacAddress
	Data []byte
}

func (t *Transport) SendPacket(da state.MacAddress, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Sent = append(t.Sent, SentPacket{Da: da, Data: data})
	return nil
}

func (t *Transport) SetReceivePacketCallback(cb func(sa state.MacAddress, data []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb = cb
}

func (t *Transport) Close() error {
	return nil
}

// Deliver injects an inbound frame as if it arrived from sa.
func (t *Transport) Deliver(sa state.MacAddress, data []byte) {
	t.mu.Lock()
	cb := t.cb
	t.mu.Unlock()
	if cb != nil {
		cb(sa, data)
	}
}

func (t *Transport) TakeSent() []SentPacket {
	t.mu.Lock()
	defer t.mu.Unlock()
	sent := t.Sent
	t.Sent = nil
	return sent
}

// Metrics is a fixed neighbor metric map.
type Metrics map[state.MacAddress]uint32

func (m Metrics) LinkMetric(neigh state.MacAddress) (uint32, bool) {
	v, ok := m[neigh]
	return v, ok
}

// RouteSink records route installer calls.
type RouteSink struct {
	mu  sync.Mutex
	Ops []string

	DefaultVia *state.MacAddress
	MeshPaths  map[state.MacAddress]state.MacAddress
}

func NewRouteSink() *RouteSink {
	return &RouteSink{MeshPaths: make(map[state.MacAddress]state.MacAddress)}
}

func (r *RouteSink) record(op string) {
	r.Ops = append(r.Ops, op)
}

func (r *RouteSink) SetDefaultGate(via state.MacAddress, ifName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := via
	r.DefaultVia = &v
	r.record("set-default " + via.String())
	return nil
}

func (r *RouteSink) ClearDefaultGate(ifName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DefaultVia = nil
	r.record("clear-default")
	return nil
}

func (r *RouteSink) SetMeshPath(dst, nextHop state.MacAddress, ifName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MeshPaths[dst] = nextHop
	r.record("set-path " + dst.String() + " via " + nextHop.String())
	return nil
}

func (r *RouteSink) ClearMeshPath(dst state.MacAddress, ifName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.MeshPaths, dst)
	r.record("clear-path " + dst.String())
	return nil
}

// Driver records root mode changes.
type Driver struct {
	mu    sync.Mutex
	Modes []uint8
}

func (d *Driver) SetRootMode(mode uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Modes = append(d.Modes, mode)
	return nil
}

func (d *Driver) LastMode() (uint8, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Modes) == 0 {
		return 0, false
	}
	return d.Modes[len(d.Modes)-1], true
}

// Prober returns scripted probe outcomes; once the script is exhausted the
// last outcome repeats.
type Prober struct {
	mu      sync.Mutex
	Script  []bool
	pos     int
	Probes  int
	current bool
}

func (p *Prober) Probe(ctx context.Context, addr string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Probes++
	if p.pos < len(p.Script) {
		p.current = p.Script[p.pos]
		p.pos++
	}
	if p.current {
		return nil
	}
	return errors.New("connection refused")
}
