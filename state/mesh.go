package state

import (
	"fmt"
	"slices"
	"time"
)

// MeshPath is the forwarding state towards a single destination. Dst is the
// table key and never changes after creation.
type MeshPath struct {
	Dst           MacAddress
	NextHop       MacAddress
	Sn            uint64
	Metric        uint32
	NextHopMetric uint32
	HopCount      uint8
	ExpTime       time.Time
	IsRoot        bool
	IsGate        bool
}

// Expired reports whether the path may no longer be used for new forwarding
// decisions. A freshly created default entry (ExpTime == now) counts as
// expired, so the first announcement for it always wins.
func (p *MeshPath) Expired(now time.Time) bool {
	return !now.Before(p.ExpTime)
}

func (p *MeshPath) String() string {
	return fmt.Sprintf("%s via %s (sn: %d, metric: %d, hops: %d, root: %t, gate: %t)",
		p.Dst, p.NextHop, p.Sn, p.Metric, p.HopCount, p.IsRoot, p.IsGate)
}

// RoutingState holds all mesh-layer routing state. It must only be touched
// from the main loop; external readers go through DispatchWait.
type RoutingState struct {
	NodeAddr          MacAddress
	ElementTtl        uint8
	ActivePathTimeout time.Duration
	RootPannInterval  time.Duration
	TopGates          int

	// Sn is the local sequence number, incremented before every
	// self-originated announcement.
	Sn     uint64
	IsRoot bool
	IsGate bool

	Paths map[MacAddress]*MeshPath
}

func NewRoutingState(cfg MeshCfg) *RoutingState {
	return &RoutingState{
		NodeAddr:          cfg.NodeAddr,
		ElementTtl:        cfg.ElementTtl,
		ActivePathTimeout: cfg.ActivePathTimeout.Duration(),
		RootPannInterval:  cfg.RootPannInterval.Duration(),
		TopGates:          cfg.TopGates,
		IsRoot:            cfg.IsRoot,
		Paths:             make(map[MacAddress]*MeshPath),
	}
}

// GetMeshPath returns the entry for addr, creating an unreachable default
// entry if none exists. The default starts already expired so that any
// announcement replaces it, even one that is not fresher.
func (rs *RoutingState) GetMeshPath(addr MacAddress, now time.Time) *MeshPath {
	path, ok := rs.Paths[addr]
	if !ok {
		path = &MeshPath{
			Dst:     addr,
			ExpTime: now,
		}
		rs.Paths[addr] = path
	}
	return path
}

// DumpPaths returns a copy of the table, sorted by destination.
func (rs *RoutingState) DumpPaths() []MeshPath {
	paths := make([]MeshPath, 0, len(rs.Paths))
	for _, p := range rs.Paths {
		paths = append(paths, *p)
	}
	slices.SortFunc(paths, func(a, b MeshPath) int {
		return a.Dst.Compare(b.Dst)
	})
	return paths
}

// ExpirePaths drops entries that expired more than grace ago and returns how
// many were removed.
func (rs *RoutingState) ExpirePaths(now time.Time, grace time.Duration) int {
	removed := 0
	for dst, p := range rs.Paths {
		if now.After(p.ExpTime.Add(grace)) {
			delete(rs.Paths, dst)
			removed++
		}
	}
	return removed
}
