package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gateNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	gateA   = MustParseMac("02:00:00:00:00:aa")
	gateB   = MustParseMac("02:00:00:00:00:bb")
	gateC   = MustParseMac("02:00:00:00:00:cc")
	gateHop = MustParseMac("02:00:00:00:00:02")
)

func addGatePath(rs *RoutingState, dst MacAddress, metric uint32, exp time.Time) {
	rs.Paths[dst] = &MeshPath{
		Dst:     dst,
		NextHop: gateHop,
		Metric:  metric,
		ExpTime: exp,
		IsGate:  true,
		IsRoot:  true,
	}
}

func TestSelectGatePicksLowestMetric(t *testing.T) {
	rs := NewRoutingState(meshCfg)
	live := gateNow.Add(time.Minute)
	addGatePath(rs, gateA, 100, live)
	addGatePath(rs, gateB, 40, live)

	gate := SelectGate(rs, nil, gateNow)
	require.NotNil(t, gate)
	assert.Equal(t, gateB, gate.Dst)
}

func TestSelectGateIgnoresExpiredAndNonGates(t *testing.T) {
	rs := NewRoutingState(meshCfg)
	addGatePath(rs, gateA, 10, gateNow.Add(-time.Second))
	rs.Paths[gateB] = &MeshPath{
		Dst: gateB, NextHop: gateHop, Metric: 5, ExpTime: gateNow.Add(time.Minute),
		IsRoot: true, IsGate: false,
	}

	assert.Nil(t, SelectGate(rs, nil, gateNow))
}

func TestSelectGateBreaksTiesByLowerMac(t *testing.T) {
	rs := NewRoutingState(meshCfg)
	live := gateNow.Add(time.Minute)
	addGatePath(rs, gateB, 40, live)
	addGatePath(rs, gateA, 40, live)

	gate := SelectGate(rs, nil, gateNow)
	require.NotNil(t, gate)
	assert.Equal(t, gateA, gate.Dst)
}

// A challenger must be better than current/2 to displace the installed gate.
func TestSelectGateHysteresis(t *testing.T) {
	rs := NewRoutingState(meshCfg)
	live := gateNow.Add(time.Minute)
	addGatePath(rs, gateA, 100, live)
	current := gateA

	addGatePath(rs, gateB, 60, live)
	gate := SelectGate(rs, &current, gateNow)
	require.NotNil(t, gate)
	assert.Equal(t, gateA, gate.Dst, "60 is not better than 100/2")

	rs.Paths[gateB].Metric = 49
	gate = SelectGate(rs, &current, gateNow)
	require.NotNil(t, gate)
	assert.Equal(t, gateB, gate.Dst, "49 beats 100/2")
}

func TestSelectGateDropsVanishedCurrent(t *testing.T) {
	rs := NewRoutingState(meshCfg)
	live := gateNow.Add(time.Minute)
	addGatePath(rs, gateB, 80, live)

	current := gateA // no longer in the table
	gate := SelectGate(rs, &current, gateNow)
	require.NotNil(t, gate)
	assert.Equal(t, gateB, gate.Dst)
}

func TestTopKGates(t *testing.T) {
	rs := NewRoutingState(meshCfg)
	live := gateNow.Add(time.Minute)
	addGatePath(rs, gateA, 100, live)
	addGatePath(rs, gateB, 40, live)
	addGatePath(rs, gateC, 70, live)

	assert.Equal(t, []MacAddress{gateB}, TopKGates(rs, 1, gateNow))
	assert.Equal(t, []MacAddress{gateB, gateC}, TopKGates(rs, 2, gateNow))

	assert.True(t, IsStationInTopKGates(rs, gateB, 1, gateNow))
	assert.False(t, IsStationInTopKGates(rs, gateA, 2, gateNow))
	assert.True(t, IsStationInTopKGates(rs, gateA, 3, gateNow))
}
