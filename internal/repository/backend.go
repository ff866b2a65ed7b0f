// Package repository selects and assembles the configured ledger store.
package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/repository/sheets"
	"github.com/mamadbah2/shopledger/internal/repository/store"
	"github.com/mamadbah2/shopledger/internal/repository/workbook"
)

// OpenStore builds the backend named by cfg.Store.Backend and wraps it in the
// read cache when a TTL is configured.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.LedgerStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var backend store.LedgerStore
	switch cfg.Store.Backend {
	case config.BackendSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named("repo.sheets"))
		if err != nil {
			return nil, err
		}
		backend = repo
	case config.BackendWorkbook:
		backend = workbook.NewRepository(cfg.Workbook.Path, logger.Named("repo.workbook"))
	case config.BackendMemory:
		backend = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	logger.Info("ledger store ready",
		zap.String("backend", cfg.Store.Backend),
		zap.Duration("cache_ttl", cfg.Store.CacheTTL))

	if cfg.Store.CacheTTL <= 0 {
		return backend, nil
	}
	return store.NewCachedStore(backend, cfg.Store.CacheTTL), nil
}
