package core

import (
	"math"
	"time"

	"github.com/BaisilG/fbmeshd/state"
	"github.com/BaisilG/fbmeshd/stats"
)

// RouteDampener is a single-flow penalty-based suppression state machine in
// the style of BGP route flap damping. Deploying damping inside a routing
// mesh is usually a bad idea; here it only guards the edge, where the one
// flow is "this node as a gate".
//
// Every flap adds a fixed penalty; the penalty decays exponentially with the
// configured half-life. Crossing the suppress limit fires dampen() once;
// decaying back to the reuse limit fires undampen(). The penalty is clamped
// at the value that decays to the suppress limit in exactly
// maxSuppressLimit; release waits for the lower reuse limit, so a clamped
// penalty stays suppressed somewhat longer than maxSuppressLimit.
//
// Not safe for concurrent use; the gateway monitor owns it on its own
// goroutine.
type RouteDampener struct {
	cfg        state.DampenerCfg
	maxPenalty float64

	penalty    float64
	suppressed bool
	lastUpdate time.Time

	dampen   func()
	undampen func()
	clock    func() time.Time
}

func NewRouteDampener(cfg state.DampenerCfg, dampen, undampen func(), clock func() time.Time) (*RouteDampener, error) {
	if err := state.DampenerConfigValidator(&cfg); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}
	d := &RouteDampener{
		cfg:      cfg,
		dampen:   dampen,
		undampen: undampen,
		clock:    clock,
	}
	// a penalty equal to maxPenalty decays to suppressLimit in exactly
	// maxSuppressLimit
	d.maxPenalty = cfg.SuppressLimit * math.Pow(2,
		cfg.MaxSuppressLimit.Duration().Seconds()/cfg.HalfLife.Duration().Seconds())
	d.lastUpdate = clock()
	return d, nil
}

func (d *RouteDampener) decay(now time.Time) {
	dt := now.Sub(d.lastUpdate)
	if dt > 0 {
		d.penalty *= math.Pow(0.5, dt.Seconds()/d.cfg.HalfLife.Duration().Seconds())
	}
	d.lastUpdate = now
	stats.DampenerPenalty.Set(d.penalty)
}

// Flap records one undesirable event. A flap while already suppressed still
// raises the penalty, extending suppression, without re-firing dampen().
func (d *RouteDampener) Flap() {
	now := d.clock()
	d.decay(now)
	d.penalty += d.cfg.Penalty
	if d.penalty > d.maxPenalty {
		d.penalty = d.maxPenalty
	}
	stats.DampenerPenalty.Set(d.penalty)
	stats.GatewayFlaps.Inc()

	if !d.suppressed && d.penalty >= d.cfg.SuppressLimit {
		d.suppressed = true
		stats.DampenerSuppressed.Set(1)
		d.dampen()
	}
}

// Tick advances decay and releases suppression once the penalty has fallen
// to the reuse limit.
func (d *RouteDampener) Tick() {
	d.decay(d.clock())
	if d.suppressed && d.penalty <= d.cfg.ReuseLimit {
		d.suppressed = false
		stats.DampenerSuppressed.Set(0)
		d.undampen()
	}
}

func (d *RouteDampener) IsDampened() bool {
	return d.suppressed
}

// Penalty reports the decayed penalty as of now.
func (d *RouteDampener) Penalty() float64 {
	d.decay(d.clock())
	return d.penalty
}
