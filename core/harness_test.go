package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/BaisilG/fbmeshd/protocol"
	"github.com/BaisilG/fbmeshd/state"
)

var (
	nodeA  = state.MustParseMac("02:00:00:00:00:01")
	neighB = state.MustParseMac("02:00:00:00:00:02")
	neighC = state.MustParseMac("02:00:00:00:00:03")
	origAA = state.MustParseMac("02:00:00:00:00:aa")
	origBB = state.MustParseMac("02:00:00:00:00:bb")

	t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

// RoutingHarness records the side effects of the announcement algorithms.
type RoutingHarness struct {
	actions []HarnessEvent
}

func (h *RoutingHarness) SendPann(da state.MacAddress, f protocol.Pann) {
	h.actions = append(h.actions, MakeEvent("SEND_PANN", da, f))
}

func (h *RoutingHarness) Log(event RoutingEvent, desc string, args ...any) {
	x := make([]any, 0)
	x = append(x, event)
	x = append(x, desc)
	x = append(x, args...)
	h.actions = append(h.actions, MakeEvent("LOG", x...))
}

// Sent returns the frames emitted so far, in order, and resets the recorder.
func (h *RoutingHarness) Sent() []protocol.Pann {
	frames := make([]protocol.Pann, 0)
	for _, action := range h.actions {
		if action.Message == "SEND_PANN" {
			frames = append(frames, action.Args[1].(protocol.Pann))
		}
	}
	h.actions = make([]HarnessEvent, 0)
	return frames
}

func (h *RoutingHarness) AssertSentTo(t *testing.T, da state.MacAddress, f protocol.Pann) {
	t.Helper()
	for _, action := range h.actions {
		if action.Message == "SEND_PANN" &&
			cmp.Equal(action.Args[0], da) && cmp.Equal(action.Args[1], f) {
			return
		}
	}
	t.Fatal("expected frame not sent: ", fmt.Sprint(da), fmt.Sprint(f), " in ", h.actions)
}

func (h *RoutingHarness) AssertNothingSent(t *testing.T) {
	t.Helper()
	for _, action := range h.actions {
		if action.Message == "SEND_PANN" {
			t.Fatal("unexpected frame sent: ", action.Args)
		}
	}
}

func makeRoutingState() *state.RoutingState {
	return state.NewRoutingState(state.MeshCfg{
		NodeAddr:          nodeA,
		MeshIfName:        "mesh0",
		ElementTtl:        31,
		ActivePathTimeout: state.Duration(30 * time.Second),
		RootPannInterval:  state.Duration(5 * time.Second),
		TopGates:          1,
	})
}
