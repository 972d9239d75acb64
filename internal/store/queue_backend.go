package store

import (
	"context"
	"fmt"

	"github.com/bdamokos/travel-tracker/internal/config"
	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/queue"
)

// NewQueueBackend selects the queue persistence backend for the configured
// driver. An empty driver defaults to SQLite.
func NewQueueBackend(ctx context.Context, cfg config.ClientQueue, log *logger.Logger) (queue.Backend, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLiteQueueBackend(ctx, cfg.Path, log)
	case "file":
		return NewFileQueueBackend(cfg.Path), nil
	case "memory":
		return NewMemoryQueueBackend(), nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
}
