//go:build linux

package impl

import (
	"log/slog"
	"net"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/BaisilG/fbmeshd/state"
)

// NetlinkRouteInstaller programs mesh forwarding into the kernel over
// rtnetlink. The default route and the per-destination host routes all point
// at link-local next hops on the mesh interface.
type NetlinkRouteInstaller struct {
	log *slog.Logger
}

func NewRouteInstaller(log *slog.Logger) *NetlinkRouteInstaller {
	return &NetlinkRouteInstaller{log: log}
}

func (ri *NetlinkRouteInstaller) route(via state.MacAddress, ifName string, dst *net.IPNet) (*netlink.Route, error) {
	link, err := netlink.LinkByName(ifName)
	if err != nil {
		return nil, err
	}
	return &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Dst:       dst,
		Gw:        net.IP(via.LinkLocalAddr().AsSlice()),
		Protocol:  unix.RTPROT_STATIC,
	}, nil
}

func defaultV6() *net.IPNet {
	return &net.IPNet{IP: net.IPv6zero, Mask: net.CIDRMask(0, 128)}
}

func hostRoute(dst state.MacAddress) *net.IPNet {
	return &net.IPNet{IP: net.IP(dst.LinkLocalAddr().AsSlice()), Mask: net.CIDRMask(128, 128)}
}

func (ri *NetlinkRouteInstaller) SetDefaultGate(via state.MacAddress, ifName string) error {
	route, err := ri.route(via, ifName, defaultV6())
	if err != nil {
		return err
	}
	ri.log.Debug("installing default gate route", "via", via, "dev", ifName)
	return netlink.RouteReplace(route)
}

func (ri *NetlinkRouteInstaller) ClearDefaultGate(ifName string) error {
	link, err := netlink.LinkByName(ifName)
	if err != nil {
		return err
	}
	ri.log.Debug("clearing default gate route", "dev", ifName)
	return netlink.RouteDel(&netlink.Route{
		LinkIndex: link.Attrs().Index,
		Dst:       defaultV6(),
	})
}

func (ri *NetlinkRouteInstaller) SetMeshPath(dst, nextHop state.MacAddress, ifName string) error {
	route, err := ri.route(nextHop, ifName, hostRoute(dst))
	if err != nil {
		return err
	}
	return netlink.RouteReplace(route)
}

func (ri *NetlinkRouteInstaller) ClearMeshPath(dst state.MacAddress, ifName string) error {
	link, err := netlink.LinkByName(ifName)
	if err != nil {
		return err
	}
	return netlink.RouteDel(&netlink.Route{
		LinkIndex: link.Attrs().Index,
		Dst:       hostRoute(dst),
	})
}
