package impl

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BaisilG/fbmeshd/state"
)

// DebugServer exposes the path table, gateway status, and prometheus
// metrics on a local HTTP bind. Reads go through the main loop so they see
// consistent snapshots.
type DebugServer struct {
	srv *http.Server
}

type PathDump struct {
	Dst           string `json:"dst"`
	NextHop       string `json:"nextHop"`
	Sn            uint64 `json:"sn"`
	Metric        uint32 `json:"metric"`
	NextHopMetric uint32 `json:"nextHopMetric"`
	HopCount      uint8  `json:"hopCount"`
	ExpiresIn     string `json:"expiresIn"`
	IsRoot        bool   `json:"isRoot"`
	IsGate        bool   `json:"isGate"`
}

type GatewayDump struct {
	IsGate bool `json:"isGate"`
}

func (d *DebugServer) Init(s *state.State) error {
	if s.Config.Debug.Bind == "" {
		return nil
	}

	r := chi.NewRouter()
	r.Get("/debug/paths", func(w http.ResponseWriter, req *http.Request) {
		res, err := s.Env.DispatchWait(func(s *state.State) (any, error) {
			return s.Routing.DumpPaths(), nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		now := time.Now()
		dump := make([]PathDump, 0)
		for _, p := range res.([]state.MeshPath) {
			dump = append(dump, PathDump{
				Dst:           p.Dst.String(),
				NextHop:       p.NextHop.String(),
				Sn:            p.Sn,
				Metric:        p.Metric,
				NextHopMetric: p.NextHopMetric,
				HopCount:      p.HopCount,
				ExpiresIn:     p.ExpTime.Sub(now).Truncate(time.Millisecond).String(),
				IsRoot:        p.IsRoot,
				IsGate:        p.IsGate,
			})
		}
		writeJSON(w, dump)
	})
	r.Get("/debug/gates", func(w http.ResponseWriter, req *http.Request) {
		res, err := s.Env.DispatchWait(func(s *state.State) (any, error) {
			return state.TopKGates(s.Routing, s.Routing.TopGates, time.Now()), nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		gates := make([]string, 0)
		for _, mac := range res.([]state.MacAddress) {
			gates = append(gates, mac.String())
		}
		writeJSON(w, gates)
	})
	r.Get("/debug/gateway", func(w http.ResponseWriter, req *http.Request) {
		res, err := s.Env.DispatchWait(func(s *state.State) (any, error) {
			return s.Routing.IsGate, nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, GatewayDump{IsGate: res.(bool)})
	})
	r.Handle("/metrics", promhttp.Handler())

	d.srv = &http.Server{Addr: s.Config.Debug.Bind, Handler: r}
	go func() {
		if err := d.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Log.Warn("debug server stopped", "err", err)
		}
	}()
	s.Log.Info("debug server listening", "bind", s.Config.Debug.Bind)
	return nil
}

func (d *DebugServer) Cleanup(s *state.State) error {
	if d.srv == nil {
		return nil
	}
	return d.srv.Close()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
