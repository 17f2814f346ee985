package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/luminfeed/waitlist-service/config/router"
	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/internal/models"
	"github.com/luminfeed/waitlist-service/pkg/constants"
	"github.com/luminfeed/waitlist-service/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	// DB is only opened when the store backend uses the postgres driver.
	DB *gorm.DB
	// FallbackDB holds the fallback list when it is kept in a database.
	// It is DB itself when Postgres is available, or a local SQLite file.
	FallbackDB      *gorm.DB
	FallbackStore   FallbackStoreKind
	Waitlist        *WaitlistConfig
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

func NewAppConfig() *AppConfig {
	config := &AppConfig{
		RateLimitRequests: constants.DefaultRateLimitRequests,
		RateLimitWindow:   utils.GetEnvPositiveDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow()),
		RequestTimeout:    utils.GetEnvPositiveDuration("REQUEST_TIMEOUT", router.DefaultTimeoutDuration),
	}

	if reqStr := os.Getenv("RATE_LIMIT_REQUESTS"); reqStr != "" {
		if parsed, err := strconv.Atoi(reqStr); err == nil && parsed > 0 {
			config.RateLimitRequests = parsed
		}
	}

	return config
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.FallbackDB != nil && ac.FallbackDB != ac.DB {
		CloseDatabase(ac.FallbackDB, ac.Logger)
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

// LoadApplicationConfiguration fails only on malformed configuration.
// A store database that cannot be reached is logged and left nil so the waitlist reports itself unavailable.
func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	waitlistCfg, err := LoadWaitlistConfig(logger)
	if err != nil {
		logger.Error("Invalid waitlist configuration", "error", err)
		return nil, err
	}

	cacheCfg, err := NewCacheConfig()
	if err != nil {
		logger.Error("Invalid cache configuration", "error", err)
		return nil, err
	}

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrate(appEnv, waitlistCfg); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	if waitlistCfg.BackendKind == BackendStore && waitlistCfg.StoreDriver == StoreDriverPostgres {
		db, err = NewDatabase(logger, nil)
		if err != nil {
			logger.Error("Waitlist store database unavailable", "error", err)
			db = nil
		}
	}

	if autoMigrate && db != nil {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	appConfig := NewAppConfig()
	cache := cacheCfg.NewCacheOrNil(logger)

	fallbackStore := ResolveFallbackStore(waitlistCfg, cache)
	var fallbackDB *gorm.DB
	if fallbackStore == FallbackStoreDatabase {
		if db != nil {
			fallbackDB = db
		} else {
			fallbackDB, err = OpenFallbackDatabase(context.Background(), logger, waitlistCfg)
			if err != nil {
				logger.Warn("Fallback list disabled", "error", err)
				fallbackStore = FallbackStoreNone
			}
		}
	}
	logger.Info("Fallback store selected", "store", fallbackStore)

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		FallbackDB:      fallbackDB,
		FallbackStore:   fallbackStore,
		Waitlist:        waitlistCfg,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
