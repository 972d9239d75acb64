// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package store

import (
	"context"
	"sync"

	"github.com/bdamokos/travel-tracker/internal/queue"
)

// memoryQueueBackend keeps the queue state in process memory only.
// Useful for tests and for running the client without local persistence.
type memoryQueueBackend struct {
	mu    sync.Mutex
	state []byte
}

// NewMemoryQueueBackend returns an empty in-memory backend.
func NewMemoryQueueBackend() queue.Backend {
	return &memoryQueueBackend{}
}

func (b *memoryQueueBackend) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, nil
}

func (b *memoryQueueBackend) Save(_ context.Context, state []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = append([]byte(nil), state...)
	return nil
}
