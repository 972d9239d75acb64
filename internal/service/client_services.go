package service

import (
	"github.com/bdamokos/travel-tracker/internal/adapter"
	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/provider"
	"github.com/bdamokos/travel-tracker/internal/queue"
)

// ClientServices aggregates the client-side service layer.
type ClientServices struct {
	SyncEngine SyncEngine
	SyncJob    SyncJob
}

// NewClientServices wires the sync engine and its periodic job onto the
// offline queue and the server adapter.
func NewClientServices(q *queue.Store, serverAdapter adapter.ServerAdapter, registry *provider.Registry, online OnlineProbe, log *logger.Logger) *ClientServices {
	engine := NewSyncEngine(q, serverAdapter, registry, online, log)

	return &ClientServices{
		SyncEngine: engine,
		SyncJob:    NewSyncJob(engine, func() int { return q.Summary().Total }),
	}
}
