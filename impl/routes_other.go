//go:build !linux

package impl

import (
	"log/slog"

	"github.com/BaisilG/fbmeshd/state"
)

// LogRouteInstaller stands in on platforms without rtnetlink; it records
// what would be programmed.
type LogRouteInstaller struct {
	log *slog.Logger
}

func NewRouteInstaller(log *slog.Logger) *LogRouteInstaller {
	return &LogRouteInstaller{log: log}
}

func (ri *LogRouteInstaller) SetDefaultGate(via state.MacAddress, ifName string) error {
	ri.log.Info("would install default gate route", "via", via, "dev", ifName)
	return nil
}

func (ri *LogRouteInstaller) ClearDefaultGate(ifName string) error {
	ri.log.Info("would clear default gate route", "dev", ifName)
	return nil
}

func (ri *LogRouteInstaller) SetMeshPath(dst, nextHop state.MacAddress, ifName string) error {
	ri.log.Info("would install mesh path route", "dst", dst, "via", nextHop, "dev", ifName)
	return nil
}

func (ri *LogRouteInstaller) ClearMeshPath(dst state.MacAddress, ifName string) error {
	ri.log.Info("would clear mesh path route", "dst", dst, "dev", ifName)
	return nil
}
