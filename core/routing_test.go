package core

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaisilG/fbmeshd/mock"
	"github.com/BaisilG/fbmeshd/protocol"
	"github.com/BaisilG/fbmeshd/state"
)

func testConfig() state.Config {
	cfg := state.DefaultConfig()
	cfg.Mesh.NodeAddr = nodeA
	// keep the periodic tasks quiet during tests
	cfg.Mesh.RootPannInterval = state.Duration(time.Hour)
	cfg.Mesh.ActivePathTimeout = state.Duration(30 * time.Second)
	cfg.Debug.Bind = ""
	return cfg
}

// newLoopState builds a state with a live main loop, mirroring how the
// runtime drives dispatches.
func newLoopState(t *testing.T, cfg state.Config) *state.State {
	t.Helper()
	ctx, cancel := context.WithCancelCause(context.Background())
	dispatch := make(chan func(*state.State) error, 128)
	s := &state.State{
		Modules: make(map[string]state.MeshModule),
		Env: &state.Env{
			Context:         ctx,
			Cancel:          cancel,
			DispatchChannel: dispatch,
			Config:          cfg,
			Log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case fun := <-dispatch:
				_ = fun(s)
			case <-ctx.Done():
				return
			}
		}
	}()
	t.Cleanup(func() {
		cancel(context.Canceled)
		<-done
	})
	return s
}

func newTestRouting(t *testing.T) (*Routing, *mock.Transport, *state.State) {
	t.Helper()
	transport := &mock.Transport{}
	r := &Routing{
		Transport: transport,
		Metrics:   mock.Metrics{neighB: 10, neighC: 3},
	}
	s := newLoopState(t, testConfig())
	require.NoError(t, r.Init(s))
	s.Modules["*core.Routing"] = r
	return r, transport, s
}

func decodeSent(t *testing.T, sent []mock.SentPacket) []protocol.Pann {
	t.Helper()
	frames := make([]protocol.Pann, 0, len(sent))
	for _, pkt := range sent {
		f, err := protocol.DecodePann(pkt.Data)
		require.NoError(t, err)
		frames = append(frames, f)
	}
	return frames
}

func TestRoutingLearnsFromTransport(t *testing.T) {
	r, transport, _ := newTestRouting(t)

	transport.Deliver(neighB, protocol.EncodePann(protocol.Pann{
		OrigAddr: origAA, OrigSn: 5, HopCount: 2, Ttl: 10,
		TargetAddr: state.BroadcastMac, Metric: 40, IsGate: true,
	}))

	paths, err := r.DumpPaths()
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, origAA, paths[0].Dst)
	assert.Equal(t, uint32(50), paths[0].Metric)
	assert.Equal(t, neighB, paths[0].NextHop)

	// the announcement travels on with one hop consumed
	frames := decodeSent(t, transport.TakeSent())
	require.Len(t, frames, 1)
	assert.Equal(t, uint8(9), frames[0].Ttl)
	assert.Equal(t, uint8(3), frames[0].HopCount)
}

func TestRoutingDropsUnknownNeighbor(t *testing.T) {
	r, transport, _ := newTestRouting(t)

	unknown := state.MustParseMac("02:00:00:00:00:99")
	transport.Deliver(unknown, protocol.EncodePann(protocol.Pann{
		OrigAddr: origAA, OrigSn: 5, Ttl: 10, Metric: 40,
	}))

	paths, err := r.DumpPaths()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestRoutingDropsMalformedFrames(t *testing.T) {
	r, transport, _ := newTestRouting(t)

	transport.Deliver(neighB, []byte{0xff, 0x01, 0x02})

	paths, err := r.DumpPaths()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestGatewayStatusTransitionEmitsFinalAnnouncement(t *testing.T) {
	r, transport, _ := newTestRouting(t)

	r.SetGatewayStatus(true)
	status, err := r.GetGatewayStatus()
	require.NoError(t, err)
	assert.True(t, status)
	transport.TakeSent()

	r.SetGatewayStatus(false)
	status, err = r.GetGatewayStatus()
	require.NoError(t, err)
	assert.False(t, status)

	frames := decodeSent(t, transport.TakeSent())
	require.Len(t, frames, 1, "exactly one farewell announcement")
	assert.Equal(t, nodeA, frames[0].OrigAddr)
	assert.False(t, frames[0].IsGate)

	// repeating the withdrawal must not announce again
	r.SetGatewayStatus(false)
	_, err = r.GetGatewayStatus()
	require.NoError(t, err)
	assert.Empty(t, transport.TakeSent())
}
