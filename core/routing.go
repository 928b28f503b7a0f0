package core

import (
	"errors"
	"time"

	"github.com/BaisilG/fbmeshd/protocol"
	"github.com/BaisilG/fbmeshd/state"
	"github.com/BaisilG/fbmeshd/stats"
)

// Routing owns the mesh path table and all announcement processing. Inbound
// frames and timer callbacks are marshalled onto the main loop; Transport and
// Metrics are injected so tests can run against in-memory fakes.
type Routing struct {
	Transport state.PacketTransport
	Metrics   state.MetricSource

	env *state.Env
}

func (r *Routing) Init(s *state.State) error {
	if r.Transport == nil || r.Metrics == nil {
		return errors.New("routing needs a packet transport and a metric source")
	}
	r.env = s.Env
	s.Routing = state.NewRoutingState(s.Config.Mesh)

	r.Transport.SetReceivePacketCallback(func(sa state.MacAddress, data []byte) {
		s.Env.Dispatch(func(s *state.State) error {
			r.handlePacket(s, sa, data)
			return nil
		})
	})

	s.Env.RepeatTask(func(s *state.State) error {
		rs := s.Routing
		if rs.IsRoot || rs.IsGate {
			OriginatePann(rs, r)
		}
		return nil
	}, s.Config.Mesh.RootPannInterval.Duration())

	s.Env.RepeatTask(func(s *state.State) error {
		removed := RunHousekeeping(s.Routing, r, time.Now())
		stats.PathsExpired.Add(float64(removed))
		stats.PathCount.Set(float64(len(s.Routing.Paths)))
		return nil
	}, state.HousekeepingInterval)

	return nil
}

func (r *Routing) Cleanup(s *state.State) error {
	return r.Transport.Close()
}

func (r *Routing) handlePacket(s *state.State, sa state.MacAddress, data []byte) {
	stats.FramesReceived.Inc()
	f, err := protocol.DecodePann(data)
	if err != nil {
		stats.FramesMalformed.Inc()
		s.Log.Debug("discarded undecodable frame", "from", sa, "err", err)
		return
	}
	linkMetric, ok := r.Metrics.LinkMetric(sa)
	if !ok {
		stats.PannDroppedNoMetric.Inc()
		s.Log.Debug("discarded announcement from unknown neighbor", "from", sa)
		return
	}
	HandlePann(s.Routing, r, sa, linkMetric, f, time.Now())
	stats.PannProcessed.Inc()
}

// SetGatewayStatus flips whether this node advertises itself as a mesh gate.
// Safe to call from any goroutine. Losing gate status emits one final
// announcement with the gate bit cleared so the mesh converges before
// origination stops.
func (r *Routing) SetGatewayStatus(isGate bool) {
	r.env.Dispatch(func(s *state.State) error {
		rs := s.Routing
		if rs.IsGate == isGate {
			return nil
		}
		rs.IsGate = isGate
		if isGate {
			stats.GatewayStatus.Set(1)
			s.Log.Info("advertising as mesh gate")
		} else {
			stats.GatewayStatus.Set(0)
			s.Log.Info("no longer a mesh gate")
			OriginatePann(rs, r)
		}
		return nil
	})
}

// GetGatewayStatus reads the gate flag through the main loop.
func (r *Routing) GetGatewayStatus() (bool, error) {
	res, err := r.env.DispatchWait(func(s *state.State) (any, error) {
		return s.Routing.IsGate, nil
	})
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

// DumpPaths snapshots the path table through the main loop.
func (r *Routing) DumpPaths() ([]state.MeshPath, error) {
	res, err := r.env.DispatchWait(func(s *state.State) (any, error) {
		return s.Routing.DumpPaths(), nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]state.MeshPath), nil
}

// SendPann implements PannSender against the real transport.
func (r *Routing) SendPann(da state.MacAddress, f protocol.Pann) {
	if err := r.Transport.SendPacket(da, protocol.EncodePann(f)); err != nil {
		stats.SendFailures.Inc()
		r.env.Log.Debug("transport send failed", "to", da, "err", err)
	}
}

func (r *Routing) Log(event RoutingEvent, desc string, args ...any) {
	switch event {
	case StalePannDropped:
		stats.PannDroppedStale.Inc()
	case PannForwarded:
		stats.PannForwarded.Inc()
	case PannOriginated:
		stats.PannOriginated.Inc()
	}
	r.env.Log.Debug(desc, args...)
}
