package service

import (
	"github.com/bdamokos/travel-tracker/internal/config"
	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/provider"
	"github.com/bdamokos/travel-tracker/internal/store"
)

// Services aggregates the server-side service layer.
type Services struct {
	AuthService   AuthService
	EntityService EntityService
}

// NewServices wires the server services onto the repositories.
func NewServices(db *store.DB, repos *store.Repositories, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:   NewAuthService(repos.UserRepository, cfg.App, logger),
		EntityService: NewEntityService(repos.DocumentRepository, provider.DefaultRegistry(), db.Retryable, logger),
	}
}
