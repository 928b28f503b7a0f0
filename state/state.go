package state

import (
	"context"
	"log/slog"
)

// MeshModule is a unit of the daemon initialized against the shared state.
type MeshModule interface {
	Init(s *State) error
	Cleanup(s *State) error
}

// State access must be done only on the main loop Goroutine.
type State struct {
	*Env
	Modules map[string]MeshModule
	Routing *RoutingState
}

// Env can be read from any Goroutine.
type Env struct {
	DispatchChannel chan<- func(s *State) error
	Config
	Context context.Context
	Cancel  context.CancelCauseFunc
	Log     *slog.Logger
}
