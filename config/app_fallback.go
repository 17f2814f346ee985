package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/internal/models"
	"github.com/luminfeed/waitlist-service/pkg/retry"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ResolveFallbackStore picks the concrete fallback store for cfg.
// An unset store means Redis when a cache is available and the SQLite file otherwise.
func ResolveFallbackStore(cfg *WaitlistConfig, cache Cache) FallbackStoreKind {
	switch cfg.Fallback.Store {
	case FallbackStoreRedis:
		if GetRedisClient(cache) == nil {
			return FallbackStoreDatabase
		}
		return FallbackStoreRedis
	case FallbackStoreDatabase, FallbackStoreNone:
		return cfg.Fallback.Store
	default:
		if GetRedisClient(cache) != nil {
			return FallbackStoreRedis
		}
		return FallbackStoreDatabase
	}
}

// OpenFallbackDatabase opens the SQLite file that backs the fallback list and migrates its table.
// The open is retried because the file may be briefly locked by a previous process.
func OpenFallbackDatabase(ctx context.Context, logger *log.Logger, cfg *WaitlistConfig) (*gorm.DB, error) {
	path := strings.TrimSpace(cfg.Fallback.SQLitePath)
	if path == "" {
		return nil, fmt.Errorf("fallback sqlite path is empty")
	}

	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create fallback directory: %w", err)
		}
	}

	policy := retry.NewExponentialBackoff(&retry.Config{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		Multiplier:  2.0,
	})

	var gdb *gorm.DB
	err := policy.ExecuteContext(ctx, func(ctx context.Context) error {
		db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return err
		}

		gdb = db
		return nil
	})
	if err != nil {
		logger.Error("Failed to open fallback database", "path", path, "error", err)
		return nil, fmt.Errorf("open fallback database: %w", err)
	}

	// SQLite allows a single writer.
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := AutoMigrate(logger, gdb, models.FallbackModelRegistry...); err != nil {
		CloseDatabase(gdb, logger)
		return nil, err
	}

	logger.Info("Fallback database ready", "path", path)
	return gdb, nil
}
