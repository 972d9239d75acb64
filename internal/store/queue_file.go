package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bdamokos/travel-tracker/internal/queue"
)

// fileQueueBackend persists the offline queue as a plain JSON state file,
// an alternative for environments without cgo/SQLite.
type fileQueueBackend struct {
	path string

	mu sync.Mutex
}

// NewFileQueueBackend returns a backend storing the queue blob at path.
// The file and its directory are created lazily on the first save.
func NewFileQueueBackend(path string) queue.Backend {
	return &fileQueueBackend{path: path}
}

func (b *fileQueueBackend) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read queue state file: %w", err)
	}
	return state, nil
}

func (b *fileQueueBackend) Save(_ context.Context, state []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create queue state dir: %w", err)
		}
	}

	if err := os.WriteFile(b.path, state, 0o600); err != nil {
		return fmt.Errorf("write queue state file: %w", err)
	}

	return nil
}
