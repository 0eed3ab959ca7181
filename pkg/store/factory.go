// pkg/store/factory.go
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/config"
)

// StoreFactory creates the configured store backend
type StoreFactory struct {
	cfg    *config.StoreConfig
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.StoreConfig, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore builds the backend selected by the configuration
func (f *StoreFactory) CreateStore(ctx context.Context) (Store, error) {
	f.logger.Info("Creating pattern store", zap.String("backend", f.cfg.Backend))

	switch f.cfg.Backend {
	case config.StoreBackendMemory:
		return NewMemoryStore(), nil

	case config.StoreBackendSQLite:
		store, err := NewSQLiteStore(ctx, f.cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite store: %w", err)
		}
		return store, nil

	case config.StoreBackendPostgres:
		store, err := NewPostgresStore(ctx, f.cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", f.cfg.Backend)
	}
}
