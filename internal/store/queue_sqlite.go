package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/queue"
)

// queueStateKey is the single key under which the whole offline queue
// blob is stored. The store always rewrites the complete state, so the
// table never grows past one row.
const queueStateKey = "offline_queue"

// sqliteQueueBackend persists the offline queue in a local SQLite database,
// the default durable backend for the client.
type sqliteQueueBackend struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteQueueBackend opens (creating if necessary) the SQLite database at
// path and prepares the queue state table.
func NewSQLiteQueueBackend(ctx context.Context, path string, log *logger.Logger) (queue.Backend, error) {
	if err := createLocalDBFileIfNotExists(path); err != nil {
		log.Err(err).Str("func", "NewSQLiteQueueBackend").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Err(err).Str("func", "NewSQLiteQueueBackend").Msg("error opening database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewSQLiteQueueBackend").Msg("error connecting database (ping)")
		return nil, err
	}

	const schema = `CREATE TABLE IF NOT EXISTS queue_state (
		key TEXT PRIMARY KEY,
		state BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = conn.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("error creating queue state table: %w", err)
	}
	log.Debug().Str("func", "NewSQLiteQueueBackend").Msg("queue database ready")

	return &sqliteQueueBackend{db: conn, log: log}, nil
}

func (b *sqliteQueueBackend) Load(ctx context.Context) ([]byte, error) {
	var state []byte
	row := b.db.QueryRowContext(ctx, `SELECT state FROM queue_state WHERE key = ?`, queueStateKey)
	if err := row.Scan(&state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading queue state: %w", err)
	}
	return state, nil
}

func (b *sqliteQueueBackend) Save(ctx context.Context, state []byte) error {
	const upsert = `INSERT INTO queue_state (key, state, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET state = excluded.state, updated_at = CURRENT_TIMESTAMP;`
	if _, err := b.db.ExecContext(ctx, upsert, queueStateKey, state); err != nil {
		return fmt.Errorf("error writing queue state: %w", err)
	}
	return nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		if dir := filepath.Dir(dbFile); dir != "." {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("error creating DB directory: %w", err)
			}
		}
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}
