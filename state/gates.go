package state

import (
	"slices"
	"time"
)

// GateCandidates returns the non-expired gate paths, best first: ascending
// metric, ties broken by lower destination address.
func GateCandidates(rs *RoutingState, now time.Time) []MeshPath {
	cands := make([]MeshPath, 0)
	for _, p := range rs.Paths {
		if p.IsGate && !p.Expired(now) {
			cands = append(cands, *p)
		}
	}
	slices.SortFunc(cands, func(a, b MeshPath) int {
		if a.Metric != b.Metric {
			if a.Metric < b.Metric {
				return -1
			}
			return 1
		}
		return a.Dst.Compare(b.Dst)
	})
	return cands
}

// TopKGates returns the destinations of the k best gate candidates.
func TopKGates(rs *RoutingState, k int, now time.Time) []MacAddress {
	cands := GateCandidates(rs, now)
	if len(cands) > k {
		cands = cands[:k]
	}
	gates := make([]MacAddress, 0, len(cands))
	for _, p := range cands {
		gates = append(gates, p.Dst)
	}
	return gates
}

// IsStationInTopKGates reports whether mac is an acceptable upstream, i.e.
// among the k lowest-metric live gates.
func IsStationInTopKGates(rs *RoutingState, mac MacAddress, k int, now time.Time) bool {
	return slices.Contains(TopKGates(rs, k, now), mac)
}

// SelectGate picks the preferred upstream gate. A currently installed gate is
// sticky: the best challenger only replaces it when its metric beats the
// current one by more than the gateway change threshold factor. This keeps
// the default route from oscillating between gates of similar quality.
func SelectGate(rs *RoutingState, current *MacAddress, now time.Time) *MeshPath {
	cands := GateCandidates(rs, now)
	if len(cands) == 0 {
		return nil
	}
	best := cands[0]

	if current != nil {
		if cur, ok := rs.Paths[*current]; ok && cur.IsGate && !cur.Expired(now) {
			if float64(best.Metric) >= float64(cur.Metric)/GatewayChangeThresholdFactor {
				keep := *cur
				return &keep
			}
		}
	}
	return &best
}
