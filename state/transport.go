package state

import (
	"context"
	"time"
)

// PacketTransport ships opaque routing frames between neighbor stations.
// Sends are fire-and-forget; delivery is not acknowledged.
type PacketTransport interface {
	SendPacket(da MacAddress, data []byte) error
	SetReceivePacketCallback(cb func(sa MacAddress, data []byte))
	Close() error
}

// MetricSource answers the current link metric towards a neighbor. The
// second return is false when the station is not a known neighbor.
type MetricSource interface {
	LinkMetric(neigh MacAddress) (uint32, bool)
}

// RouteInstaller pushes mesh forwarding decisions into the kernel table.
type RouteInstaller interface {
	SetDefaultGate(via MacAddress, ifName string) error
	ClearDefaultGate(ifName string) error
	SetMeshPath(dst, nextHop MacAddress, ifName string) error
	ClearMeshPath(dst MacAddress, ifName string) error
}

// MeshDriver is the handle into the kernel 802.11s driver. Mode 0 means
// "not root"; nonzero values select a root-announcement interval.
type MeshDriver interface {
	SetRootMode(mode uint8) error
}

// WanProber attempts to reach a single upstream address within timeout.
type WanProber interface {
	Probe(ctx context.Context, addr string, timeout time.Duration) error
}
