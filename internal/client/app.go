package client

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/service"
	"github.com/MKhiriev/go-budget-keeper/models"
)

const defaultStatusInterval = 15 * time.Second

type App struct {
	services *service.ClientServices
	logger   *logger.Logger

	statusInterval time.Duration
}

func NewApp(services *service.ClientServices, logger *logger.Logger) *App {
	return &App{
		services:       services,
		logger:         logger,
		statusInterval: defaultStatusInterval,
	}
}

// Run starts the background sync workers and blocks in the status loop until
// a termination signal arrives. Edits made on this device while Run is active
// are queued by the engine and drained by the workers started here.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	unsubscribe := a.services.Engine.Subscribe(a.logEvent)
	defer unsubscribe()

	a.services.Probe.Start(ctx)
	defer a.services.Probe.Stop()

	a.services.FeedWorker.Start(ctx)
	defer a.services.FeedWorker.Stop()

	a.services.SyncJob.Start(ctx)
	defer a.services.SyncJob.Stop()

	a.logger.Info().Msg("client started")
	a.printStatus(ctx)

	ticker := time.NewTicker(a.statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("shutting down...")
			a.logger.Info().Msg("client shutdown gracefully")
			return nil
		case <-ticker.C:
			a.printStatus(ctx)
		}
	}
}

// printStatus renders one status line to the terminal. The log file carries
// the detailed event stream, stdout only the coarse picture.
func (a *App) printStatus(ctx context.Context) {
	report, err := a.services.Engine.Status(ctx)
	if err != nil {
		a.logger.Err(err).Str("func", "*App.printStatus").Msg("error getting sync status")
		return
	}

	state := "offline"
	if report.Online {
		state = "online"
	}
	if report.Syncing {
		state += ", syncing"
	}

	lastSync := "never"
	if !report.LastSyncTime.IsZero() {
		lastSync = report.LastSyncTime.Format(time.RFC3339)
	}

	fmt.Printf("[%s] pending=%d conflicts=%d last_sync=%s\n",
		state, report.PendingCount, report.ConflictCount, lastSync)
}

func (a *App) logEvent(event models.SyncEvent) {
	entry := a.logger.Info().Str("event", string(event.Type))
	if event.Collection != "" {
		entry = entry.Str("collection", event.Collection.String())
	}
	if event.RecordID != "" {
		entry = entry.Str("record_id", event.RecordID)
	}
	if event.Message != "" {
		entry = entry.Str("message", event.Message)
	}
	entry.Msg("sync event")
}
