package service

import (
	"context"
	"sync"
	"time"
)

type clientSyncJob struct {
	engine   SyncEngine
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a clientSyncJob that drains the pending change
// queue on a ticker. If interval is zero or negative it defaults to 5 minutes.
// The job is idle until Start is called.
func NewClientSyncJob(engine SyncEngine, interval time.Duration) ClientSyncJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &clientSyncJob{engine: engine, interval: interval}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that calls ProcessPendingChanges every
// interval. The goroutine exits when ctx is cancelled or Stop is called.
// Failed passes are not retried early; the engine keeps its own retry counts.
func (j *clientSyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_ = j.engine.ProcessPendingChanges(jobCtx)
			}
		}
	}()
}

// Stop implements ClientSyncJob. It cancels the background goroutine's context
// and blocks until the goroutine has fully exited. Safe to call when the job
// is not running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
