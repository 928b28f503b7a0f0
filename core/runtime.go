package core

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"reflect"
	"syscall"
	"time"

	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"

	"github.com/BaisilG/fbmeshd/impl"
	"github.com/BaisilG/fbmeshd/state"
)

func buildLogger(cfg state.LogCfg, nodeAddr state.MacAddress, level slog.Level) (*slog.Logger, error) {
	handlers := []slog.Handler{
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			TimeFormat:   "15:04:05",
			CustomPrefix: nodeAddr.String(),
		}),
	}
	if cfg.Path != "" {
		if err := os.MkdirAll(path.Dir(cfg.Path), 0700); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slogmulti.Fanout(handlers...)), nil
}

// Start runs the daemon until a shutdown signal or a fatal module error.
func Start(cfg state.Config, logLevel slog.Level) error {
	if err := state.ConfigValidator(&cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	dispatch := make(chan func(s *state.State) error, 128)

	logger, err := buildLogger(cfg.Log, cfg.Mesh.NodeAddr, logLevel)
	if err != nil {
		cancel(err)
		return err
	}

	s := state.State{
		Modules: make(map[string]state.MeshModule),
		Env: &state.Env{
			Context:         ctx,
			Cancel:          cancel,
			DispatchChannel: dispatch,
			Config:          cfg,
			Log:             logger,
		},
	}

	transport, err := impl.NewUdpTransport(logger, cfg.Mesh.MeshIfName, cfg.Mesh.UdpPort, cfg.Mesh.Tos)
	if err != nil {
		cancel(err)
		return err
	}

	modules := []state.MeshModule{
		&Routing{
			Transport: transport,
			Metrics:   impl.NewAirtimeMetrics(state.NeighborMetricTTL),
		},
		&SyncRoutes{
			Installer: impl.NewRouteInstaller(logger),
		},
		&GatewayMonitor{
			Prober: impl.NewTcpProber(cfg.Gateway.MonitoredInterface),
			Driver: impl.NewIwMeshDriver(logger, cfg.Mesh.MeshIfName),
		},
		&impl.DebugServer{},
	}

	s.Log.Info("init modules")
	if err := initModules(&s, modules); err != nil {
		cancel(err)
		cleanup(&s)
		return err
	}
	s.Log.Info("init modules complete")

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-c:
			s.Cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()

	return MainLoop(&s, dispatch)
}

func initModules(s *state.State, modules []state.MeshModule) error {
	for _, module := range modules {
		s.Modules[reflect.TypeOf(module).String()] = module
		if err := module.Init(s); err != nil {
			return err
		}
	}
	return nil
}

func MainLoop(s *state.State, dispatch <-chan func(*state.State) error) error {
	s.Log.Debug("started main loop")
	for {
		select {
		case fun := <-dispatch:
			start := time.Now()
			err := fun(s)
			if err != nil {
				s.Log.Error("error occurred during dispatch", "error", err)
				s.Cancel(err)
			}
			if elapsed := time.Since(start); elapsed > time.Millisecond*50 {
				s.Log.Warn("dispatch took a long time!", "elapsed", elapsed)
			}
		case <-s.Context.Done():
			s.Log.Info("stopped main loop", "reason", context.Cause(s.Context).Error())
			cleanup(s)
			return nil
		}
	}
}

func cleanup(s *state.State) {
	s.Log.Info("cleaning up modules")
	for moduleName, module := range s.Modules {
		if err := module.Cleanup(s); err != nil {
			s.Log.Error("error occurred during cleanup", "module", moduleName, "error", err)
		}
	}
	s.Cancel(context.Canceled)
}
