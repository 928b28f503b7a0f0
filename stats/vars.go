package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "routing", Name: "frames_received_total",
		Help: "Routing frames received from the transport",
	})
	FramesMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "routing", Name: "frames_malformed_total",
		Help: "Frames discarded because they failed to decode",
	})
	PannDroppedNoMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "routing", Name: "pann_dropped_no_metric_total",
		Help: "Announcements dropped because the sender is not a known neighbor",
	})
	PannDroppedStale = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "routing", Name: "pann_dropped_stale_total",
		Help: "Announcements dropped by the freshness comparison",
	})
	PannProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "routing", Name: "pann_processed_total",
		Help: "Announcements from known neighbors passed to the announcement processor",
	})
	PannForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "routing", Name: "pann_forwarded_total",
		Help: "Announcements re-flooded to the mesh",
	})
	PannOriginated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "routing", Name: "pann_originated_total",
		Help: "Self-originated announcements",
	})
	SendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "transport", Name: "send_failures_total",
		Help: "Transport send errors",
	})
	PathsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "routing", Name: "paths_expired_total",
		Help: "Paths removed by housekeeping",
	})
	PathCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fbmeshd", Subsystem: "routing", Name: "path_count",
		Help: "Entries in the mesh path table",
	})
	GatewayStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fbmeshd", Subsystem: "routing", Name: "is_gate",
		Help: "Whether this node currently advertises itself as a mesh gate",
	})

	RouteInstallFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "sync_routes", Name: "install_failures_total",
		Help: "Kernel route installer errors",
	})
	GateChanges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "sync_routes", Name: "gate_changes_total",
		Help: "Times the selected upstream gate changed",
	})

	ProbeSuccesses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "gateway_monitor", Name: "probe_success_total",
		Help: "WAN probe rounds that reached an upstream address",
	})
	ProbeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "gateway_monitor", Name: "probe_failure_total",
		Help: "WAN probe rounds that exhausted every upstream address",
	})
	GatewayFlaps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fbmeshd", Subsystem: "gateway_monitor", Name: "flaps_total",
		Help: "Down-to-up gateway transitions fed to the dampener",
	})
	DampenerPenalty = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fbmeshd", Subsystem: "route_dampener", Name: "penalty",
		Help: "Accumulated dampener penalty",
	})
	DampenerSuppressed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fbmeshd", Subsystem: "route_dampener", Name: "suppressed",
		Help: "Whether gate advertisement is currently suppressed",
	})
)
