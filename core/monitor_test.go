package core

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaisilG/fbmeshd/mock"
)

func newTestMonitor(t *testing.T, script []bool) (*GatewayMonitor, *mock.Driver, *Routing, *fakeClock) {
	t.Helper()
	cfg := testConfig()
	cfg.Gateway.MonitoredInterface = "eth0"
	cfg.Gateway.MonitoredAddresses = []string{"192.0.2.1:80"}
	cfg.Gateway.Robustness = 1
	cfg.Gateway.SetRootModeIfGate = 4

	s := newLoopState(t, cfg)
	transport := &mock.Transport{}
	r := &Routing{Transport: transport, Metrics: mock.Metrics{}}
	require.NoError(t, r.Init(s))

	driver := &mock.Driver{}
	m := &GatewayMonitor{
		Prober:  &mock.Prober{Script: script},
		Driver:  driver,
		cfg:     cfg.Gateway,
		routing: r,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	clock := &fakeClock{now: t0}
	damp, err := NewRouteDampener(cfg.Gateway.Dampener, m.onDampen, m.onUndampen, clock.Now)
	require.NoError(t, err)
	m.damp = damp
	return m, driver, r, clock
}

func gatewayStatus(t *testing.T, r *Routing) bool {
	t.Helper()
	status, err := r.GetGatewayStatus()
	require.NoError(t, err)
	return status
}

func TestMonitorAdvertisesOnProbeSuccess(t *testing.T) {
	m, driver, r, _ := newTestMonitor(t, []bool{true})

	m.checkRoutesAndAdvertise(context.Background())

	assert.True(t, m.isGatewayActive)
	assert.True(t, gatewayStatus(t, r))
	mode, ok := driver.LastMode()
	require.True(t, ok)
	assert.Equal(t, uint8(4), mode)
}

func TestMonitorWithdrawsOnProbeFailure(t *testing.T) {
	m, driver, r, _ := newTestMonitor(t, []bool{true, false})

	m.checkRoutesAndAdvertise(context.Background())
	require.True(t, gatewayStatus(t, r))

	m.checkRoutesAndAdvertise(context.Background())

	assert.False(t, m.isGatewayActive)
	assert.False(t, gatewayStatus(t, r))
	mode, ok := driver.LastMode()
	require.True(t, ok)
	assert.Equal(t, uint8(0), mode)
}

func TestMonitorRetriesUpToRobustness(t *testing.T) {
	m, _, _, _ := newTestMonitor(t, []bool{false})
	m.cfg.Robustness = 3

	m.checkRoutesAndAdvertise(context.Background())

	prober := m.Prober.(*mock.Prober)
	assert.Equal(t, 3, prober.Probes)
}

// Rapid up/down cycling drives the dampener over the suppress limit; once
// suppressed, later probe successes no longer advertise the gate.
func TestMonitorDampensFlappingGateway(t *testing.T) {
	m, _, r, _ := newTestMonitor(t, []bool{true, false, true, false, true})

	for i := 0; i < 5; i++ {
		m.checkRoutesAndAdvertise(context.Background())
	}

	assert.True(t, m.damp.IsDampened())
	assert.True(t, m.isGatewayActive, "probe itself succeeded")
	assert.False(t, gatewayStatus(t, r), "suppressed gate is not advertised")

	// further up cycles stay suppressed
	m.checkRoutesAndAdvertise(context.Background())
	assert.False(t, gatewayStatus(t, r))
}

func TestMonitorUndampenReadvertisesActiveGateway(t *testing.T) {
	m, _, r, clock := newTestMonitor(t, []bool{true, false, true, false, true})

	for i := 0; i < 5; i++ {
		m.checkRoutesAndAdvertise(context.Background())
	}
	require.True(t, m.damp.IsDampened())
	require.False(t, gatewayStatus(t, r))

	// decay well below the reuse limit, then tick
	clock.Advance(10 * time.Minute)
	m.damp.Tick()

	assert.False(t, m.damp.IsDampened())
	assert.True(t, gatewayStatus(t, r), "undampen re-advertises an active gateway")
}

func TestMonitorDisabledWithoutAddresses(t *testing.T) {
	s := newLoopState(t, testConfig())
	m := &GatewayMonitor{}
	require.NoError(t, m.Init(s))
	require.NoError(t, m.Cleanup(s))
}
