package core

import (
	"errors"
	"net/netip"
	"time"

	"github.com/gaissmai/bart"

	"github.com/BaisilG/fbmeshd/state"
	"github.com/BaisilG/fbmeshd/stats"
)

// SyncRoutes reconciles the kernel routing table with the mesh path table:
// the default route follows gate selection, and every live path gets a
// host route to its link-local address via the chosen next hop. Only deltas
// are pushed; failed installs stay absent from the installed set and are
// retried on the next cycle.
type SyncRoutes struct {
	Installer state.RouteInstaller

	ifName string

	// currentGate is the destination of the installed gate, kept for
	// selection hysteresis.
	currentGate *state.MacAddress
	// installedVia is the next hop of the installed default route.
	installedVia *state.MacAddress
	// installed tracks the per-destination host routes present in the
	// kernel, prefix -> next hop.
	installed bart.Table[state.MacAddress]
}

func (sr *SyncRoutes) Init(s *state.State) error {
	if sr.Installer == nil {
		return errors.New("sync routes needs a route installer")
	}
	sr.ifName = s.Config.Mesh.MeshIfName
	s.Env.RepeatTask(sr.doSyncRoutes, state.SyncRoutesInterval)
	return nil
}

func (sr *SyncRoutes) Cleanup(s *state.State) error {
	if sr.installedVia != nil {
		if err := sr.Installer.ClearDefaultGate(sr.ifName); err != nil {
			s.Log.Warn("failed to clear default gate", "err", err)
		}
	}
	for pfx := range sr.installed.All() {
		dst, _ := state.MacFromLinkLocal(pfx.Addr())
		if err := sr.Installer.ClearMeshPath(dst, sr.ifName); err != nil {
			s.Log.Warn("failed to clear mesh path route", "dst", dst, "err", err)
		}
	}
	return nil
}

func (sr *SyncRoutes) doSyncRoutes(s *state.State) error {
	now := time.Now()
	rs := s.Routing

	sr.syncDefaultGate(s, rs, now)
	sr.syncMeshPaths(s, rs, now)
	return nil
}

func (sr *SyncRoutes) syncDefaultGate(s *state.State, rs *state.RoutingState, now time.Time) {
	var want *state.MeshPath
	if !rs.IsGate {
		// a node with its own upstream does not route through the mesh
		want = state.SelectGate(rs, sr.currentGate, now)
	}

	if want == nil {
		sr.currentGate = nil
		if sr.installedVia != nil {
			if err := sr.Installer.ClearDefaultGate(sr.ifName); err != nil {
				stats.RouteInstallFailures.Inc()
				s.Log.Warn("failed to clear default gate", "err", err)
				return
			}
			sr.installedVia = nil
		}
		return
	}

	if sr.currentGate == nil || *sr.currentGate != want.Dst {
		stats.GateChanges.Inc()
		s.Log.Info("selected upstream gate", "gate", want.Dst, "via", want.NextHop, "metric", want.Metric)
	}
	gateDst := want.Dst
	sr.currentGate = &gateDst

	if sr.installedVia != nil && *sr.installedVia == want.NextHop {
		return
	}
	if err := sr.Installer.SetDefaultGate(want.NextHop, sr.ifName); err != nil {
		stats.RouteInstallFailures.Inc()
		s.Log.Warn("failed to install default gate", "via", want.NextHop, "err", err)
		return
	}
	via := want.NextHop
	sr.installedVia = &via
}

func (sr *SyncRoutes) syncMeshPaths(s *state.State, rs *state.RoutingState, now time.Time) {
	desired := make(map[netip.Prefix]state.MacAddress)
	for _, p := range rs.Paths {
		if p.Expired(now) || p.NextHop.IsZero() || p.Dst == rs.NodeAddr {
			continue
		}
		pfx := netip.PrefixFrom(p.Dst.LinkLocalAddr(), 128)
		desired[pfx] = p.NextHop
	}

	stale := make([]netip.Prefix, 0)
	for pfx, via := range sr.installed.All() {
		if want, ok := desired[pfx]; !ok || want != via {
			stale = append(stale, pfx)
		}
	}
	for _, pfx := range stale {
		if _, ok := desired[pfx]; ok {
			// next hop changed; the replace below rewrites it
			continue
		}
		dst, _ := state.MacFromLinkLocal(pfx.Addr())
		if err := sr.Installer.ClearMeshPath(dst, sr.ifName); err != nil {
			stats.RouteInstallFailures.Inc()
			s.Log.Warn("failed to remove mesh path route", "dst", dst, "err", err)
			continue
		}
		sr.installed.Delete(pfx)
	}

	for pfx, via := range desired {
		if have, ok := sr.installed.Get(pfx); ok && have == via {
			continue
		}
		dst, _ := state.MacFromLinkLocal(pfx.Addr())
		if err := sr.Installer.SetMeshPath(dst, via, sr.ifName); err != nil {
			stats.RouteInstallFailures.Inc()
			s.Log.Warn("failed to install mesh path route", "dst", dst, "via", via, "err", err)
			continue
		}
		sr.installed.Insert(pfx, via)
	}
}
