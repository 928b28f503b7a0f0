package impl

import (
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// IwMeshDriver toggles the kernel 802.11s proactive root mode through the
// iw mesh_param knob. Mode 0 disables root announcements.
type IwMeshDriver struct {
	log    *slog.Logger
	ifName string
}

func NewIwMeshDriver(log *slog.Logger, ifName string) *IwMeshDriver {
	return &IwMeshDriver{log: log, ifName: ifName}
}

func (d *IwMeshDriver) SetRootMode(mode uint8) error {
	return Exec(d.log, "iw", "dev", d.ifName, "set", "mesh_param", "mesh_hwmp_rootmode", strconv.Itoa(int(mode)))
}

// Exec runs a system command, surfacing its output at debug level.
func Exec(log *slog.Logger, name string, args ...string) error {
	log.Debug("exec", "cmd", name+" "+strings.Join(args, " "))
	out, err := exec.Command(name, args...).CombinedOutput()
	if len(out) > 0 {
		log.Debug("exec output", "cmd", name, "out", string(out))
	}
	return err
}
