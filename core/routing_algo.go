package core

import (
	"time"

	"github.com/BaisilG/fbmeshd/protocol"
	"github.com/BaisilG/fbmeshd/state"
)

type RoutingEvent int

// trace events

const (
	PathUpdated RoutingEvent = iota
	PannForwarded
	PannOriginated
	SelfPannDropped
	StalePannDropped
	PathsExpired
)

// PannSender is the side-effect surface of the announcement algorithms; the
// Routing module implements it against the real transport, tests record it.
type PannSender interface {
	SendPann(da state.MacAddress, f protocol.Pann)
	Log(event RoutingEvent, desc string, args ...any)
}

// AddMetric saturates instead of wrapping; MetricInf stays absorbing.
func AddMetric(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum >= uint64(state.MetricInf) {
		return state.MetricInf
	}
	return uint32(sum)
}

// HandlePann applies one received announcement from neighbor sa with the
// current one-hop link metric towards sa.
//
// An announcement is fresher when it carries a strictly larger sequence
// number, or the same sequence number with a strictly better total metric.
// Sequence numbers compare as plain unsigned values; a wrapped origin stalls
// until its path expires, after which any announcement is accepted again.
func HandlePann(rs *state.RoutingState, s PannSender, sa state.MacAddress, linkMetric uint32, f protocol.Pann, now time.Time) {
	if f.OrigAddr == rs.NodeAddr {
		s.Log(SelfPannDropped, "dropped own announcement", "from", sa)
		return
	}

	path := rs.GetMeshPath(f.OrigAddr, now)
	newMetric := AddMetric(f.Metric, linkMetric)

	fresher := f.OrigSn > path.Sn || (f.OrigSn == path.Sn && newMetric < path.Metric)
	if !fresher && !path.Expired(now) {
		s.Log(StalePannDropped, "dropped stale announcement", "orig", f.OrigAddr, "sn", f.OrigSn, "have", path.Sn)
		return
	}

	path.Sn = f.OrigSn
	path.Metric = newMetric
	path.NextHop = sa
	path.NextHopMetric = linkMetric
	path.HopCount = f.HopCount + 1
	path.ExpTime = now.Add(rs.ActivePathTimeout)
	path.IsGate = f.IsGate
	path.IsRoot = true
	s.Log(PathUpdated, "path updated", "path", path)

	// re-flood with one hop consumed; frames arriving with ttl 1 are
	// accepted locally but travel no further
	if f.Ttl > 1 {
		fwd := protocol.Pann{
			OrigAddr:       f.OrigAddr,
			OrigSn:         f.OrigSn,
			HopCount:       path.HopCount,
			Ttl:            f.Ttl - 1,
			TargetAddr:     state.BroadcastMac,
			Metric:         newMetric,
			IsGate:         f.IsGate,
			ReplyRequested: false,
		}
		s.SendPann(state.BroadcastMac, fwd)
		s.Log(PannForwarded, "forwarded announcement", "orig", f.OrigAddr, "ttl", fwd.Ttl)
	}
}

// OriginatePann emits one self-originated announcement, consuming the next
// local sequence number.
func OriginatePann(rs *state.RoutingState, s PannSender) {
	rs.Sn++
	f := protocol.Pann{
		OrigAddr:       rs.NodeAddr,
		OrigSn:         rs.Sn,
		HopCount:       0,
		Ttl:            rs.ElementTtl,
		TargetAddr:     state.BroadcastMac,
		Metric:         0,
		IsGate:         rs.IsGate,
		ReplyRequested: false,
	}
	s.SendPann(state.BroadcastMac, f)
	s.Log(PannOriginated, "originated announcement", "sn", rs.Sn, "gate", rs.IsGate)
}

// RunHousekeeping drops paths that expired longer than the grace period ago.
func RunHousekeeping(rs *state.RoutingState, s PannSender, now time.Time) int {
	grace := time.Duration(state.PathExpiryGraceFactor) * rs.ActivePathTimeout
	removed := rs.ExpirePaths(now, grace)
	if removed > 0 {
		s.Log(PathsExpired, "expired stale paths", "removed", removed)
	}
	return removed
}
