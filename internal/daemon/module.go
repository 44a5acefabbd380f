package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/matheus3301/securechat/internal/api"
	"github.com/matheus3301/securechat/internal/bus"
	"github.com/matheus3301/securechat/internal/chatstore"
	"github.com/matheus3301/securechat/internal/lock"
	"github.com/matheus3301/securechat/internal/logging"
	"github.com/matheus3301/securechat/internal/session"
	"github.com/matheus3301/securechat/internal/status"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stopGrace bounds how long open event streams may delay shutdown.
const stopGrace = 3 * time.Second

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName   string
	SocketPath    string // optional override for testing; empty = use default
	SessionDir    string // optional override for testing; empty = use default
	LogPath       string // optional override for testing; empty = use default
	LogLevel      zapcore.Level
	Notifications bool
}

func (p Params) socketPath() string {
	if p.SocketPath != "" {
		return p.SocketPath
	}
	return session.SocketPath(p.SessionName)
}

func (p Params) sessionDir() string {
	if p.SessionDir != "" {
		return p.SessionDir
	}
	return session.Dir(p.SessionName)
}

func (p Params) logPath() string {
	if p.LogPath != "" {
		return p.LogPath
	}
	return session.DaemonLogPath(p.SessionName)
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideConversationService,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(p.logPath(), p.SessionName, p.LogLevel)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if p.SessionDir == "" {
		if err := session.EnsureDir(p.SessionName); err != nil {
			return nil, err
		}
	}
	logger.Info("acquiring session lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(p.sessionDir())
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired")
	return l, nil
}

func provideStore(p Params, b *bus.Bus, logger *zap.Logger) *chatstore.Store {
	return chatstore.New(
		chatstore.WithBus(b),
		chatstore.WithLogger(logger.Named("store")),
		chatstore.WithNotifications(p.Notifications),
	)
}

func provideConversationService(p Params, st *chatstore.Store, m *status.Machine, b *bus.Bus, logger *zap.Logger) *api.ConversationService {
	return api.NewConversationService(p.SessionName, st, m, b, logger.Named("api"))
}

// seed loads the demo data set, moving the machine through SEEDING.
func seed(machine *status.Machine, st *chatstore.Store, logger *zap.Logger) error {
	if err := machine.Transition(status.Seeding); err != nil {
		return err
	}
	chatstore.SeedDemo(st)
	stats := st.Stats()
	logger.Info("demo data seeded",
		zap.Int("active", stats.ActiveChats),
		zap.Int("archived", stats.ArchivedChats),
		zap.Int("messages", stats.Messages),
	)
	return nil
}

func registerLifecycle(lc fx.Lifecycle, srv *Server, lk *lock.Lock, st *chatstore.Store, machine *status.Machine, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if err := seed(machine, st, logger); err != nil {
				machine.Fail()
				return fmt.Errorf("seed store: %w", err)
			}

			// Start gRPC server in background.
			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("gRPC server error", zap.Error(err))
					machine.Fail()
				}
			}()

			if err := machine.Transition(status.Ready); err != nil {
				return err
			}
			logger.Info("daemon ready", zap.String("socket", srv.SocketPath()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = machine.Transition(status.Stopping)
			stopCtx, cancel := context.WithTimeout(ctx, stopGrace)
			defer cancel()
			srv.Stop(stopCtx)
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
