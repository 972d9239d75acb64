package service

import (
	"context"
	"sync"
	"time"
)

type syncJob struct {
	engine  SyncEngine
	summary func() int

	trigger chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a SyncJob that runs engine.Sync on a ticker and on
// explicit triggers. queueSize reports how many entries are queued; a pass
// is skipped while the queue is empty. The job is idle until Start is
// called.
func NewSyncJob(engine SyncEngine, queueSize func() int) SyncJob {
	return &syncJob{
		engine:  engine,
		summary: queueSize,
		trigger: make(chan struct{}, 1),
	}
}

// Start implements SyncJob. It stops any previously running job, then
// launches a background goroutine that syncs every interval and whenever
// Trigger fires. If interval is zero or negative it defaults to 5 minutes.
// The goroutine exits when ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
			case <-j.trigger:
			}

			if j.summary != nil && j.summary() == 0 {
				continue
			}
			_, _ = j.engine.Sync(jobCtx, SyncOptions{})
		}
	}()
}

// Trigger requests an immediate sync pass, used for connectivity-restored
// or window-focus style events. Triggers arriving while one is already
// queued coalesce.
func (j *syncJob) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

// Stop implements SyncJob. It cancels the background goroutine's context
// and blocks until the goroutine has fully exited. Safe to call when the
// job is not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
