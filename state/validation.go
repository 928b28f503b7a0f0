package state

import (
	"fmt"
	"math"
	"net"
)

func MeshConfigValidator(cfg *MeshCfg) error {
	if cfg.NodeAddr.IsZero() {
		return fmt.Errorf("mesh.nodeAddr is required")
	}
	if cfg.NodeAddr.IsBroadcast() {
		return fmt.Errorf("mesh.nodeAddr must be a unicast address")
	}
	if cfg.MeshIfName == "" {
		return fmt.Errorf("mesh.meshIfName is required")
	}
	if cfg.ElementTtl < 1 {
		return fmt.Errorf("mesh.elementTtl must be in 1..255")
	}
	if cfg.ActivePathTimeout <= 0 {
		return fmt.Errorf("mesh.activePathTimeout must be positive")
	}
	if cfg.RootPannInterval <= 0 {
		return fmt.Errorf("mesh.rootPannInterval must be positive")
	}
	if cfg.TopGates < 1 {
		return fmt.Errorf("mesh.topGates must be at least 1")
	}
	return nil
}

func DampenerConfigValidator(cfg *DampenerCfg) error {
	if cfg.Penalty <= 0 {
		return fmt.Errorf("dampener.penalty must be positive")
	}
	if cfg.HalfLife <= 0 {
		return fmt.Errorf("dampener.halfLife must be positive")
	}
	if cfg.MaxSuppressLimit <= 0 {
		return fmt.Errorf("dampener.maxSuppressLimit must be positive")
	}
	if !(cfg.ReuseLimit < cfg.SuppressLimit) {
		return fmt.Errorf("dampener.reuseLimit (%v) must be below dampener.suppressLimit (%v)",
			cfg.ReuseLimit, cfg.SuppressLimit)
	}
	maxPenalty := cfg.SuppressLimit * math.Pow(2,
		cfg.MaxSuppressLimit.Duration().Seconds()/cfg.HalfLife.Duration().Seconds())
	if cfg.Penalty > maxPenalty {
		return fmt.Errorf("dampener.penalty (%v) exceeds the maximum penalty (%v) reachable under maxSuppressLimit",
			cfg.Penalty, maxPenalty)
	}
	return nil
}

func GatewayConfigValidator(cfg *GatewayCfg) error {
	if len(cfg.MonitoredAddresses) == 0 {
		// monitor disabled
		return nil
	}
	if cfg.MonitoredInterface == "" {
		return fmt.Errorf("gateway.monitoredInterface is required when monitoredAddresses is set")
	}
	for _, addr := range cfg.MonitoredAddresses {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("gateway.monitoredAddresses: %w", err)
		}
	}
	if cfg.MonitorInterval <= 0 {
		return fmt.Errorf("gateway.monitorInterval must be positive")
	}
	if cfg.MonitorSocketTimeout <= 0 {
		return fmt.Errorf("gateway.monitorSocketTimeout must be positive")
	}
	if cfg.Robustness < 1 {
		return fmt.Errorf("gateway.robustness must be at least 1")
	}
	return DampenerConfigValidator(&cfg.Dampener)
}

func ConfigValidator(cfg *Config) error {
	if err := MeshConfigValidator(&cfg.Mesh); err != nil {
		return err
	}
	if err := GatewayConfigValidator(&cfg.Gateway); err != nil {
		return err
	}
	if cfg.Debug.Bind != "" && !validAddrPort(cfg.Debug.Bind) {
		return fmt.Errorf("debug.bind is not a valid addr:port")
	}
	return nil
}
