// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package workers

import (
	"context"
	"testing"
	"time"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run and Stop were called.
type mockWorker struct {
	runCount  int
	stopCount int
}

func (m *mockWorker) Run()  { m.runCount++ }
func (m *mockWorker) Stop() { m.stopCount++ }

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	ws.Run()

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on empty workers list
	ws.Run()
	ws.Stop()
}

func TestWorkers_NilWorkersAreSkipped(t *testing.T) {
	w := &mockWorker{}

	ws := NewWorkers(nil, w, nil)
	ws.Run()
	ws.Stop()

	if w.runCount != 1 || w.stopCount != 1 {
		t.Errorf("expected runCount=1 stopCount=1, got %d/%d", w.runCount, w.stopCount)
	}
}

func TestWorkers_Stop_ReverseOrder(t *testing.T) {
	order := []int{}

	ws := NewWorkers(
		&orderWorker{id: 1, order: &order},
		&orderWorker{id: 2, order: &order},
		&orderWorker{id: 3, order: &order},
	)
	ws.Stop()

	expected := []int{3, 2, 1}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("expected order[%d]=%d, got %d", i, v, order[i])
		}
	}
}

// orderWorker is a helper that appends its ID to a shared slice on Stop.
type orderWorker struct {
	id    int
	order *[]int
}

func (o *orderWorker) Run()  {}
func (o *orderWorker) Stop() { *o.order = append(*o.order, o.id) }

// fakeSyncJob records lifecycle calls from the sync worker.
type fakeSyncJob struct {
	started  int
	stopped  int
	interval time.Duration
}

func (f *fakeSyncJob) Start(_ context.Context, interval time.Duration) {
	f.started++
	f.interval = interval
}

func (f *fakeSyncJob) Trigger() {}

func (f *fakeSyncJob) Stop() { f.stopped++ }

func TestSyncWorker_StartsAndStopsJob(t *testing.T) {
	job := &fakeSyncJob{}

	w := NewSyncWorker(context.Background(), job, 2*time.Minute)
	w.Run()
	w.Stop()

	if job.started != 1 || job.stopped != 1 {
		t.Errorf("expected started=1 stopped=1, got %d/%d", job.started, job.stopped)
	}
	if job.interval != 2*time.Minute {
		t.Errorf("expected interval=2m, got %s", job.interval)
	}
}
