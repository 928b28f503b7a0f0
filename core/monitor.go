package core

import (
	"context"
	"time"

	"github.com/BaisilG/fbmeshd/state"
	"github.com/BaisilG/fbmeshd/stats"
)

// GatewayMonitor probes upstream (WAN) reachability on its own loop and
// drives the routing engine's gate status through the dampener. Every
// down-to-up transition counts as a flap; enough of them within the decay
// window suppress gate advertisement until the penalty drains.
type GatewayMonitor struct {
	Prober state.WanProber
	Driver state.MeshDriver

	cfg     state.GatewayCfg
	routing *Routing
	damp    *RouteDampener
	log     logSink
	done    chan struct{}
	stopped chan struct{}

	// isGatewayActive tracks whether the last probe round succeeded,
	// independent of suppression.
	isGatewayActive bool
}

type logSink interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

func (m *GatewayMonitor) Init(s *state.State) error {
	m.cfg = s.Config.Gateway
	if len(m.cfg.MonitoredAddresses) == 0 {
		s.Log.Info("gateway monitor disabled, no monitored addresses")
		return nil
	}
	m.routing = Get[*Routing](s)
	m.log = s.Log

	damp, err := NewRouteDampener(m.cfg.Dampener, m.onDampen, m.onUndampen, nil)
	if err != nil {
		return err
	}
	m.damp = damp
	m.done = make(chan struct{})
	m.stopped = make(chan struct{})
	go m.run(s.Context)
	return nil
}

func (m *GatewayMonitor) Cleanup(s *state.State) error {
	if m.done != nil {
		close(m.done)
		<-m.stopped
	}
	return nil
}

func (m *GatewayMonitor) run(ctx context.Context) {
	defer close(m.stopped)
	probeTicker := time.NewTicker(m.cfg.MonitorInterval.Duration())
	defer probeTicker.Stop()
	decayTicker := time.NewTicker(state.DampenerTickInterval)
	defer decayTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case <-decayTicker.C:
			m.damp.Tick()
		case <-probeTicker.C:
			m.checkRoutesAndAdvertise(ctx)
		}
	}
}

func (m *GatewayMonitor) checkRoutesAndAdvertise(ctx context.Context) {
	if m.probeWanConnectivityRobustly(ctx) {
		stats.ProbeSuccesses.Inc()
		if !m.damp.IsDampened() {
			m.advertiseGateway()
		} else {
			m.log.Info("gate advertisement dampened, not advertising")
		}
		if !m.isGatewayActive {
			m.damp.Flap()
		}
		m.isGatewayActive = true
	} else {
		stats.ProbeFailures.Inc()
		m.withdrawGateway()
		m.isGatewayActive = false
	}
}

func (m *GatewayMonitor) probeWanConnectivityRobustly(ctx context.Context) bool {
	for try := uint(0); try < m.cfg.Robustness; try++ {
		if m.probeWanConnectivity(ctx) {
			return true
		}
	}
	return false
}

func (m *GatewayMonitor) probeWanConnectivity(ctx context.Context) bool {
	for _, addr := range m.cfg.MonitoredAddresses {
		err := m.Prober.Probe(ctx, addr, m.cfg.MonitorSocketTimeout.Duration())
		if err == nil {
			m.log.Debug("wan probe succeeded", "addr", addr)
			return true
		}
		m.log.Debug("wan probe failed", "addr", addr, "err", err)
	}
	return false
}

// onDampen and onUndampen run on the monitor goroutine via the dampener.

func (m *GatewayMonitor) onDampen() {
	if m.isGatewayActive {
		m.withdrawGateway()
	}
}

func (m *GatewayMonitor) onUndampen() {
	if m.isGatewayActive {
		m.advertiseGateway()
	}
}

func (m *GatewayMonitor) advertiseGateway() {
	if m.cfg.SetRootModeIfGate != 0 && m.Driver != nil {
		if err := m.Driver.SetRootMode(m.cfg.SetRootModeIfGate); err != nil {
			m.log.Warn("failed to set driver root mode", "err", err)
		}
	}
	m.routing.SetGatewayStatus(true)
}

func (m *GatewayMonitor) withdrawGateway() {
	if m.cfg.SetRootModeIfGate != 0 && m.Driver != nil {
		if err := m.Driver.SetRootMode(0); err != nil {
			m.log.Warn("failed to clear driver root mode", "err", err)
		}
	}
	m.routing.SetGatewayStatus(false)
}
