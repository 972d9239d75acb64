package client

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/bdamokos/travel-tracker/internal/config"
	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/queue"
	"github.com/bdamokos/travel-tracker/internal/service"
	"github.com/bdamokos/travel-tracker/internal/workers"
	"github.com/bdamokos/travel-tracker/models"
)

// App is the headless sync agent: it keeps the offline queue draining
// against the server until the process is signalled to stop.
type App struct {
	services *service.ClientServices
	queue    *queue.Store
	interval time.Duration

	logger *logger.Logger
}

func NewApp(services *service.ClientServices, q *queue.Store, cfg config.ClientWorkers, logger *logger.Logger) (*App, error) {
	return &App{
		services: services,
		queue:    q,
		interval: cfg.SyncInterval,
		logger:   logger,
	}, nil
}

// Run starts the periodic sync worker, triggers an extra pass whenever the
// local queue changes, and blocks until a stop signal arrives.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	ws := workers.NewWorkers(
		workers.NewSyncWorker(ctx, a.services.SyncJob, a.interval),
	)
	ws.Run()
	defer ws.Stop()

	unsubscribe := a.queue.Subscribe(func(summary models.QueueSummary) {
		if summary.Pending > 0 {
			a.services.SyncJob.Trigger()
		}
	})
	defer unsubscribe()

	a.runInitialSync(ctx)

	<-ctx.Done()
	a.logger.Info().Msg("client shutdown gracefully")

	return nil
}

// runInitialSync drains whatever accumulated in the queue while the agent
// was down. Failures are logged, not fatal: the periodic job retries.
func (a *App) runInitialSync(ctx context.Context) {
	result, err := a.services.SyncEngine.Sync(ctx, service.SyncOptions{
		OnConflict: func(conflict models.Conflict) {
			a.logger.Warn().
				Str("kind", string(conflict.Kind)).
				Str("id", conflict.ID).
				Msg("sync conflict requires manual resolution")
		},
		OnError: func(kind models.EntityKind, id string, err error) {
			a.logger.Error().Err(err).
				Str("kind", string(kind)).
				Str("id", id).
				Msg("sync entry failed")
		},
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("initial sync pass failed")
		return
	}

	a.logger.Info().
		Int("synced", result.Synced).
		Int("conflicts", result.Conflicts).
		Int("failed", result.Failed).
		Msg("initial sync pass finished")
}
