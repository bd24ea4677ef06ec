package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/alert-override/internal/api/grpc/alert"
	"github.com/oshokin/alert-override/internal/config"
	"github.com/oshokin/alert-override/internal/device/audio"
	"github.com/oshokin/alert-override/internal/device/tone"
	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/notify"
	"github.com/oshokin/alert-override/internal/repository/contacts"
	"github.com/oshokin/alert-override/internal/repository/schedules"
	"github.com/oshokin/alert-override/internal/repository/settings"
	"github.com/oshokin/alert-override/internal/repository/sqlitedb"
	"github.com/oshokin/alert-override/internal/scheduler"
	"github.com/oshokin/alert-override/internal/service/orchestrator"
	"github.com/oshokin/alert-override/internal/service/override"
)

const (
	// httpShutdownTimeout bounds the HTTP server shutdown.
	httpShutdownTimeout = 5 * time.Second
	// readHeaderTimeout protects the HTTP listener from slow clients.
	readHeaderTimeout = 5 * time.Second
	// redisPingTimeout bounds the startup reachability check of Redis.
	redisPingTimeout = 2 * time.Second
)

// errServeTwice is returned when Serve is called on an App that already ran.
var errServeTwice = errors.New("engine already served")

// App is one wired engine instance.
type App struct {
	device       *audio.Simulated
	emitter      *tone.Emitter
	loop         *scheduler.Loop
	controller   *override.Controller
	orchestrator *orchestrator.Orchestrator

	// closers release storage and broker connections, in order.
	closers []io.Closer
	served  bool
}

// New wires an engine from a validated configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	app := new(App)

	contactStore, scheduleStore, err := app.openStores(ctx, &cfg.Storage)
	if err != nil {
		return nil, err
	}

	device, emitter, err := newDevice(&cfg.Audio)
	if err != nil {
		_ = app.Close()

		return nil, err
	}

	app.device = device
	app.emitter = emitter
	app.loop = scheduler.NewLoop(scheduler.WithDrainTimeout(cfg.ShutdownGrace))
	app.controller = override.NewController(device, app.loop)
	app.orchestrator = orchestrator.New(
		contactStore,
		scheduleStore,
		settings.NewFileStore(cfg.Storage.SettingsFile),
		app.newSink(ctx, &cfg.Notify),
		app.controller,
		orchestrator.WithLocation(location),
		orchestrator.WithNameResolver(contacts.NewResolver(contactStore)),
	)

	return app, nil
}

// Device returns the simulated audio device.
func (a *App) Device() *audio.Simulated {
	return a.device
}

// Serve runs the scheduler loop and both listeners until ctx is canceled or
// one of them fails. A nil httpListener disables the HTTP endpoints.
// Sessions left boosted when the loop stops are restored before Serve returns.
func (a *App) Serve(ctx context.Context, grpcListener, httpListener net.Listener) error {
	if a.served {
		return errServeTwice
	}

	a.served = true

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(logRequests))
	api.RegisterAlertServiceServer(grpcServer, api.NewServer(a.orchestrator, a.device))

	var httpServer *http.Server

	if httpListener != nil {
		httpServer = &http.Server{
			Handler:           a.Router(),
			ReadHeaderTimeout: readHeaderTimeout,
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.loop.Run(logger.WithName(gctx, "scheduler"))
	})

	g.Go(func() error {
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	if httpServer != nil {
		g.Go(func() error {
			if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down listeners")
		grpcServer.GracefulStop()

		if httpServer == nil {
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), httpShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}

		return nil
	})

	err := g.Wait()

	a.controller.RestoreAll(context.WithoutCancel(ctx))

	a.emitter.Wait()
	logger.Info(ctx, "Alert engine stopped")

	return err
}

// Close releases storage and broker connections.
func (a *App) Close() error {
	var errs []error

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	a.closers = nil

	return errors.Join(errs...)
}

func (a *App) openStores(
	ctx context.Context,
	storage *config.Storage,
) (orchestrator.ContactStore, orchestrator.ScheduleStore, error) {
	if storage.Driver != config.DriverSQLite {
		return contacts.NewFileStore(storage.ContactsFile), schedules.NewFileStore(storage.SchedulesFile), nil
	}

	db, err := sqlitedb.Open(ctx, storage.SQLitePath, sqlitedb.DefaultConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	a.closers = append(a.closers, db)

	return contacts.NewSQLStore(db), schedules.NewSQLStore(db), nil
}

func newDevice(cfg *config.Audio) (*audio.Simulated, *tone.Emitter, error) {
	mode, err := tone.ParseMode(cfg.ToneMode)
	if err != nil {
		return nil, nil, fmt.Errorf("tone mode: %w", err)
	}

	ringer, err := alert.ParseRingerMode(cfg.RingerMode)
	if err != nil {
		return nil, nil, fmt.Errorf("ringer mode: %w", err)
	}

	emitter := tone.NewEmitter(mode, tone.WithBellWriter(os.Stdout))
	device := audio.NewSimulated(audio.State{
		RingerMode:         ringer,
		NotificationVolume: cfg.NotificationVolume,
		MediaVolume:        cfg.MediaVolume,
		MaxVolume:          cfg.MaxVolume,
	}, emitter)

	return device, emitter, nil
}

// newSink always logs notifications and also appends them to Redis when an
// address is configured. An unreachable Redis only produces a warning.
func (a *App) newSink(ctx context.Context, cfg *config.Notify) notify.Sink {
	sinks := notify.Fanout{notify.NewLogSink()}

	if cfg.RedisAddress == "" {
		return sinks
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	a.closers = append(a.closers, client)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.WarnKV(ctx, "Redis is unreachable, stream notifications fail until it is back",
			"redis_addr", cfg.RedisAddress,
			"error", err,
		)
	}

	return append(sinks, notify.NewStreamSink(client, cfg.RedisStream))
}
