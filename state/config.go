package state

import (
	"encoding"
	"net/netip"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Duration is a time.Duration that round-trips through yaml as a
// human-readable string ("30s", "1m30s").
type Duration time.Duration

var _ encoding.TextUnmarshaler = (*Duration)(nil)

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MeshCfg configures the routing engine on one mesh interface.
type MeshCfg struct {
	NodeAddr          MacAddress `yaml:"nodeAddr"`
	MeshIfName        string     `yaml:"meshIfName"`
	ElementTtl        uint8      `yaml:"elementTtl"`
	ActivePathTimeout Duration   `yaml:"activePathTimeout"`
	RootPannInterval  Duration   `yaml:"rootPannInterval"`
	IsRoot            bool       `yaml:"isRoot"`
	TopGates          int        `yaml:"topGates"`
	UdpPort           uint16     `yaml:"udpPort"`
	Tos               int        `yaml:"tos"`
}

// DampenerCfg configures the gate-flap suppression state machine.
type DampenerCfg struct {
	Penalty          float64  `yaml:"penalty"`
	SuppressLimit    float64  `yaml:"suppressLimit"`
	ReuseLimit       float64  `yaml:"reuseLimit"`
	HalfLife         Duration `yaml:"halfLife"`
	MaxSuppressLimit Duration `yaml:"maxSuppressLimit"`
}

// GatewayCfg configures upstream connectivity monitoring. An empty
// MonitoredAddresses list disables the monitor.
type GatewayCfg struct {
	MonitoredInterface   string      `yaml:"monitoredInterface"`
	MonitoredAddresses   []string    `yaml:"monitoredAddresses"`
	MonitorInterval      Duration    `yaml:"monitorInterval"`
	MonitorSocketTimeout Duration    `yaml:"monitorSocketTimeout"`
	Robustness           uint        `yaml:"robustness"`
	SetRootModeIfGate    uint8       `yaml:"setRootModeIfGate"`
	Dampener             DampenerCfg `yaml:"dampener"`
}

type DebugCfg struct {
	Bind string `yaml:"bind,omitempty"`
}

type LogCfg struct {
	Level string `yaml:"level,omitempty"`
	Path  string `yaml:"path,omitempty"`
}

type Config struct {
	Mesh    MeshCfg    `yaml:"mesh"`
	Gateway GatewayCfg `yaml:"gateway"`
	Debug   DebugCfg   `yaml:"debug,omitempty"`
	Log     LogCfg     `yaml:"log,omitempty"`
}

// DefaultConfig mirrors the protocol defaults; nodeAddr and the monitored
// interface/addresses are left for the operator.
func DefaultConfig() Config {
	return Config{
		Mesh: MeshCfg{
			MeshIfName:        "mesh0",
			ElementTtl:        DefaultElementTtl,
			ActivePathTimeout: Duration(DefaultActivePathTimeout),
			RootPannInterval:  Duration(DefaultRootPannInterval),
			TopGates:          DefaultTopGates,
			UdpPort:           DefaultUdpPort,
			Tos:               DefaultTos,
		},
		Gateway: GatewayCfg{
			MonitoredAddresses:   []string{},
			MonitorInterval:      Duration(DefaultMonitorInterval),
			MonitorSocketTimeout: Duration(DefaultMonitorSocketTimeout),
			Robustness:           DefaultRobustness,
			Dampener: DampenerCfg{
				Penalty:          DefaultPenalty,
				SuppressLimit:    DefaultSuppressLimit,
				ReuseLimit:       DefaultReuseLimit,
				HalfLife:         Duration(DefaultHalfLife),
				MaxSuppressLimit: Duration(DefaultMaxSuppressLimit),
			},
		},
		Debug: DebugCfg{Bind: "127.0.0.1:9090"},
		Log:   LogCfg{Level: "info"},
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	file, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func validAddrPort(s string) bool {
	_, err := netip.ParseAddrPort(s)
	return err == nil
}
