package state

import "time"

const (
	// MetricInf marks an unreachable link or path.
	MetricInf = ^(uint32)(0)
)

var (
	// HousekeepingInterval paces the expiry sweep of the path table.
	HousekeepingInterval = time.Second * 1
	// SyncRoutesInterval paces kernel route reconciliation.
	SyncRoutesInterval = time.Second * 1
	// PathExpiryGraceFactor scales activePathTimeout into the grace period
	// housekeeping waits before dropping an expired path.
	PathExpiryGraceFactor = 2

	// GatewayChangeThresholdFactor is the hysteresis factor for switching
	// gates; a challenger must be this many times better than the current
	// gate to replace it.
	GatewayChangeThresholdFactor = 2.0

	// NeighborMetricTTL bounds how long a reported link metric stays usable
	// without a fresh report from the driver.
	NeighborMetricTTL = time.Second * 30

	// DampenerTickInterval paces penalty decay while the monitor idles
	// between probes.
	DampenerTickInterval = time.Second * 1

	DefaultElementTtl        = uint8(31)
	DefaultActivePathTimeout = time.Second * 30
	DefaultRootPannInterval  = time.Second * 5
	DefaultTopGates          = 1

	DefaultUdpPort = uint16(6668)
	DefaultTos     = 192

	// Gateway monitor defaults
	DefaultRobustness           = uint(2)
	DefaultMonitorInterval      = time.Second * 10
	DefaultMonitorSocketTimeout = time.Second * 5

	// Route dampener defaults
	DefaultPenalty          = 1000.0
	DefaultSuppressLimit    = 2000.0
	DefaultReuseLimit       = 750.0
	DefaultHalfLife         = time.Second * 60
	DefaultMaxSuppressLimit = time.Second * 180
)
