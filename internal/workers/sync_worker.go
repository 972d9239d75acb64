// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package workers

import (
	"context"
	"time"

	"github.com/bdamokos/travel-tracker/internal/service"
)

// syncWorker adapts the periodic sync job to the [Worker] lifecycle.
type syncWorker struct {
	ctx      context.Context
	job      service.SyncJob
	interval time.Duration
}

// NewSyncWorker wraps job into a [Worker] that starts the periodic sync
// loop with the given interval when Run is called. A zero interval falls
// back to the job's default.
func NewSyncWorker(ctx context.Context, job service.SyncJob, interval time.Duration) Worker {
	return &syncWorker{
		ctx:      ctx,
		job:      job,
		interval: interval,
	}
}

func (s *syncWorker) Run() {
	s.job.Start(s.ctx, s.interval)
}

func (s *syncWorker) Stop() {
	s.job.Stop()
}
