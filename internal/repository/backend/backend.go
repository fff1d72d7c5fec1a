// Package backend opens the record stores selected by configuration.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/liancar/yard/internal/config"
	"github.com/liancar/yard/internal/repository"
	"github.com/liancar/yard/internal/repository/memory"
	"github.com/liancar/yard/internal/repository/mongodb"
	"github.com/liancar/yard/internal/repository/sheets"
	"github.com/liancar/yard/internal/repository/sqlite"
)

// Backend bundles the stores one process works against.
type Backend struct {
	Services repository.ServiceRecordStore
	Expenses repository.ExpenseStore
	// Reports is nil when no MongoDB URI is configured.
	Reports mongodb.Repository

	closers []func(context.Context) error
}

// Open builds the stores for cfg.Storage.Driver and, when configured, the
// MongoDB daily report archive.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Backend{}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		b.Services, b.Expenses = store, store
	case config.DriverSQLite:
		store, err := sqlite.NewStore(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		b.Services, b.Expenses = store, store
		b.closers = append(b.closers, func(context.Context) error { return store.Close() })
	case config.DriverSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named("sheets"))
		if err != nil {
			return nil, err
		}
		store := sheets.NewStore(repo, logger.Named("sheets_store"))
		b.Services, b.Expenses = store, store
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	logger.Info("record store ready", zap.String("driver", cfg.Storage.Driver))

	if cfg.MongoDB.URI != "" {
		reports, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			b.Close(ctx)
			return nil, err
		}
		b.Reports = reports
		b.closers = append(b.closers, reports.Close)
		logger.Info("daily report archive ready", zap.String("db", cfg.MongoDB.DBName))
	}

	return b, nil
}

// Close releases every underlying connection, returning the first error.
func (b *Backend) Close(ctx context.Context) error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}
