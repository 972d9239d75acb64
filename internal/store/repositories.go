package store

import "github.com/bdamokos/travel-tracker/internal/logger"

// Repositories aggregates the server-side data access layer.
type Repositories struct {
	UserRepository     UserRepository
	DocumentRepository DocumentRepository
}

// NewRepositories wires all repositories onto one database connection.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db, log),
		DocumentRepository: NewDocumentRepository(db, log),
	}
}
