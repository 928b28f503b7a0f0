package state

import (
	"bytes"
	"fmt"
	"net"
	"net/netip"
)

// MacAddress is a 48-bit IEEE 802 MAC address in network byte order. The
// numeric value (big-endian) defines a total order used for tie-breaking.
type MacAddress [6]byte

var BroadcastMac = MacAddress{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

func ParseMac(s string) (MacAddress, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return MacAddress{}, err
	}
	if len(hw) != 6 {
		return MacAddress{}, fmt.Errorf("%s is not a 48-bit mac address", s)
	}
	return MacAddress(hw), nil
}

func MustParseMac(s string) MacAddress {
	mac, err := ParseMac(s)
	if err != nil {
		panic(err)
	}
	return mac
}

func (m MacAddress) String() string {
	return net.HardwareAddr(m[:]).String()
}

func (m MacAddress) IsBroadcast() bool {
	return m == BroadcastMac
}

func (m MacAddress) IsZero() bool {
	return m == MacAddress{}
}

func (m MacAddress) Compare(o MacAddress) int {
	return bytes.Compare(m[:], o[:])
}

func (m MacAddress) Less(o MacAddress) bool {
	return m.Compare(o) < 0
}

func (m MacAddress) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MacAddress) UnmarshalText(text []byte) error {
	mac, err := ParseMac(string(text))
	if err != nil {
		return err
	}
	*m = mac
	return nil
}

// LinkLocalAddr maps the mac to its modified EUI-64 link-local IPv6 address,
// the addressing scheme the mesh interface uses for unicast delivery.
func (m MacAddress) LinkLocalAddr() netip.Addr {
	var a [16]byte
	a[0] = 0xfe
	a[1] = 0x80
	a[8] = m[0] ^ 0x02 // flip the universal/local bit
	a[9] = m[1]
	a[10] = m[2]
	a[11] = 0xff
	a[12] = 0xfe
	a[13] = m[3]
	a[14] = m[4]
	a[15] = m[5]
	return netip.AddrFrom16(a)
}

// MacFromLinkLocal recovers the mac embedded in a modified EUI-64 link-local
// address. Returns false for addresses that do not carry one.
func MacFromLinkLocal(addr netip.Addr) (MacAddress, bool) {
	if !addr.Is6() || !addr.IsLinkLocalUnicast() {
		return MacAddress{}, false
	}
	a := addr.As16()
	if a[11] != 0xff || a[12] != 0xfe {
		return MacAddress{}, false
	}
	return MacAddress{a[8] ^ 0x02, a[9], a[10], a[13], a[14], a[15]}, true
}
