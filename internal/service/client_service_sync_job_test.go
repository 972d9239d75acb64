package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bdamokos/travel-tracker/models"
)

type countingEngine struct {
	calls atomic.Int64
}

func (e *countingEngine) Sync(context.Context, SyncOptions) (models.SyncResult, error) {
	e.calls.Add(1)
	return models.SyncResult{}, nil
}

func TestSyncJob_TickerRuns(t *testing.T) {
	engine := &countingEngine{}
	job := NewSyncJob(engine, func() int { return 1 })

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	job.Stop()

	assert.Greater(t, engine.calls.Load(), int64(0))
}

func TestSyncJob_TriggerForcesPass(t *testing.T) {
	engine := &countingEngine{}
	job := NewSyncJob(engine, func() int { return 1 })

	job.Start(context.Background(), time.Hour)
	job.Trigger()
	time.Sleep(50 * time.Millisecond)
	job.Stop()

	assert.Equal(t, int64(1), engine.calls.Load())
}

func TestSyncJob_SkipsWhenQueueEmpty(t *testing.T) {
	engine := &countingEngine{}
	job := NewSyncJob(engine, func() int { return 0 })

	job.Start(context.Background(), time.Hour)
	job.Trigger()
	time.Sleep(50 * time.Millisecond)
	job.Stop()

	assert.Zero(t, engine.calls.Load())
}

func TestSyncJob_StopIsIdempotent(t *testing.T) {
	job := NewSyncJob(&countingEngine{}, nil)

	job.Stop()
	job.Start(context.Background(), time.Hour)
	job.Stop()
	job.Stop()
}

func TestSyncJob_RestartReplacesPrevious(t *testing.T) {
	engine := &countingEngine{}
	job := NewSyncJob(engine, func() int { return 1 })

	job.Start(context.Background(), time.Hour)
	job.Start(context.Background(), time.Hour)
	job.Trigger()
	time.Sleep(50 * time.Millisecond)
	job.Stop()

	assert.Equal(t, int64(1), engine.calls.Load())
}
