package waitlist

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/luminfeed/waitlist-service/config"
	"github.com/luminfeed/waitlist-service/config/router"
	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/pkg/circuitbreaker"
	"gorm.io/gorm"
)

var errStoreDatabaseNotConnected = errors.New("waitlist store database is not connected")

type WaitlistServiceFactory interface {
	Backend() Backend
	FallbackStore() FallbackStore
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	appConfig *config.ApplicationConfig

	once     sync.Once
	backend  Backend
	fallback FallbackStore
	service  WaitlistService
}

func NewWaitlistServiceFactory(appConfig *config.ApplicationConfig) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{appConfig: appConfig}
}

func (f *DefaultWaitlistServiceFactory) build() {
	f.once.Do(func() {
		cfg := f.appConfig.Waitlist
		logger := f.appConfig.Logger

		client := NewHTTPClient(cfg.HTTPTimeout, logger)
		f.backend = NewBackend(cfg, f.appConfig.DB, client, logger)
		f.fallback = NewFallbackStore(f.appConfig.FallbackStore, cfg.Fallback.Key, f.appConfig.Cache, f.appConfig.FallbackDB)

		opts := []ServiceOption{
			WithLocation(cfg.Location()),
			WithDispatchTimeout(cfg.HTTPTimeout),
			WithCircuitBreaker(newBackendCircuitBreaker(f.backend.Kind(), logger)),
		}
		if f.appConfig.RouterService != nil {
			opts = append(opts, WithMetricsRegisterer(f.appConfig.RouterService.MetricsRegisterer()))
		}

		f.service = NewWaitlistService(logger, f.backend, f.fallback, opts...)
	})
}

func (f *DefaultWaitlistServiceFactory) Backend() Backend {
	f.build()
	return f.backend
}

func (f *DefaultWaitlistServiceFactory) FallbackStore() FallbackStore {
	f.build()
	return f.fallback
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	f.build()
	return f.service
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.CreateService(), f.appConfig.Logger, f.appConfig.Cache)
}

// NewHTTPClient returns the client shared by the relay and REST store backends.
func NewHTTPClient(timeout time.Duration, logger *log.Logger) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: log.NewTransport(http.DefaultTransport, logger),
	}
}

// NewBackend builds the configured backend. Missing configuration or an unreachable store database
// is logged here, once, and yields a backend that answers every submission with 503.
func NewBackend(cfg *config.WaitlistConfig, db *gorm.DB, client *http.Client, logger *log.Logger) Backend {
	kind := string(cfg.BackendKind)

	if err := cfg.Validate(); err != nil {
		logger.Error("Waitlist backend unavailable", "backend", kind, "error", err)
		return newUnavailableBackend(kind, err)
	}

	switch cfg.BackendKind {
	case config.BackendStore:
		if cfg.StoreDriver == config.StoreDriverPostgres {
			if db == nil {
				logger.Error("Waitlist backend unavailable", "backend", kind, "error", errStoreDatabaseNotConnected)
				return newUnavailableBackend(kind, errStoreDatabaseNotConnected)
			}
			logger.Info("Waitlist backend ready", "backend", kind, "driver", cfg.StoreDriver)
			return NewPostgresStoreBackend(db, cfg.StoreTable, cfg.DuplicateConstraint, logger)
		}
		logger.Info("Waitlist backend ready", "backend", kind, "driver", cfg.StoreDriver, "host", cfg.EndpointHost())
		return NewRESTStoreBackend(client, cfg.EndpointURL, cfg.APIKey, cfg.StoreTable, cfg.DuplicateConstraint, logger)
	default:
		logger.Info("Waitlist backend ready", "backend", kind, "host", cfg.EndpointHost())
		return NewRelayBackend(client, cfg.EndpointURL, cfg.RelayFields, cfg.Location(), logger)
	}
}

// NewFallbackStore picks the store resolved at startup. Anything unusable degrades to a no-op store.
func NewFallbackStore(kind config.FallbackStoreKind, key string, cache config.Cache, db *gorm.DB) FallbackStore {
	switch kind {
	case config.FallbackStoreRedis:
		if client := config.GetRedisClient(cache); client != nil {
			return NewRedisFallbackStore(client, key)
		}
	case config.FallbackStoreDatabase:
		if db != nil {
			return NewDatabaseFallbackStore(db, key)
		}
	}
	return nopFallbackStore{}
}

func newBackendCircuitBreaker(backend string, logger *log.Logger) circuitbreaker.CircuitBreaker {
	cfg := circuitbreaker.DefaultConfig()
	cfg.OnStateChange = func(from, to circuitbreaker.CircuitState) {
		logger.Warn("Waitlist backend circuit changed state", "backend", backend, "from", from.String(), "to", to.String())
	}
	return circuitbreaker.NewCircuitBreaker(cfg)
}
