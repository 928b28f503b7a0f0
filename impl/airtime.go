package impl

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/BaisilG/fbmeshd/state"
)

// AirtimeMetrics serves the current airtime link metric per neighbor
// station. Entries age out when the driver stops reporting the peer, which
// doubles as the "not a current neighbor" sentinel for the announcement
// processor. Reports are smoothed so a single noisy sample does not flip
// path decisions.
type AirtimeMetrics struct {
	cache *ttlcache.Cache[state.MacAddress, uint32]
}

func NewAirtimeMetrics(ttl time.Duration) *AirtimeMetrics {
	cache := ttlcache.New[state.MacAddress, uint32](
		ttlcache.WithTTL[state.MacAddress, uint32](ttl),
		ttlcache.WithDisableTouchOnHit[state.MacAddress, uint32](),
	)
	go cache.Start()
	return &AirtimeMetrics{cache: cache}
}

// Report feeds one airtime sample for a neighbor, typically from the
// station dump of the kernel driver.
func (a *AirtimeMetrics) Report(neigh state.MacAddress, airtime uint32) {
	if item := a.cache.Get(neigh); item != nil {
		// EWMA, weight 1/4 on the new sample
		old := item.Value()
		airtime = old - old/4 + airtime/4
	}
	a.cache.Set(neigh, airtime, ttlcache.DefaultTTL)
}

// Forget drops a neighbor immediately, e.g. on a kernel peer-del event.
func (a *AirtimeMetrics) Forget(neigh state.MacAddress) {
	a.cache.Delete(neigh)
}

func (a *AirtimeMetrics) LinkMetric(neigh state.MacAddress) (uint32, bool) {
	item := a.cache.Get(neigh)
	if item == nil {
		return 0, false
	}
	return item.Value(), true
}

func (a *AirtimeMetrics) Close() {
	a.cache.Stop()
}
