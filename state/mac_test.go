package state

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMac(t *testing.T) {
	mac, err := ParseMac("02:00:5e:10:00:01")
	require.NoError(t, err)
	assert.Equal(t, "02:00:5e:10:00:01", mac.String())

	_, err = ParseMac("not a mac")
	assert.Error(t, err)

	// EUI-64 identifiers are not mesh station addresses
	_, err = ParseMac("02:00:5e:10:00:00:00:01")
	assert.Error(t, err)
}

func TestMacOrdering(t *testing.T) {
	lo := MustParseMac("02:00:00:00:00:01")
	hi := MustParseMac("02:00:00:00:01:00")
	assert.True(t, lo.Less(hi))
	assert.False(t, hi.Less(lo))
	assert.Equal(t, 0, lo.Compare(lo))
}

func TestMacBroadcastAndZero(t *testing.T) {
	assert.True(t, BroadcastMac.IsBroadcast())
	assert.False(t, MustParseMac("02:00:00:00:00:01").IsBroadcast())
	assert.True(t, MacAddress{}.IsZero())
}

func TestMacTextRoundTrip(t *testing.T) {
	mac := MustParseMac("0a:1b:2c:3d:4e:5f")
	text, err := mac.MarshalText()
	require.NoError(t, err)
	var back MacAddress
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, mac, back)
}

func TestLinkLocalRoundTrip(t *testing.T) {
	mac := MustParseMac("02:00:00:00:00:2a")
	addr := mac.LinkLocalAddr()
	assert.True(t, addr.IsLinkLocalUnicast())
	assert.Equal(t, "fe80::ff:fe00:2a", addr.String())

	back, ok := MacFromLinkLocal(addr)
	require.True(t, ok)
	assert.Equal(t, mac, back)
}

func TestMacFromLinkLocalRejectsForeignAddresses(t *testing.T) {
	_, ok := MacFromLinkLocal(netip.MustParseAddr("2001:db8::1"))
	assert.False(t, ok)
	// link-local but not EUI-64 derived
	_, ok = MacFromLinkLocal(netip.MustParseAddr("fe80::1"))
	assert.False(t, ok)
}
