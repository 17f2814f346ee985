package monitoring

import (
	"github.com/luminfeed/waitlist-service/config/router"
	"github.com/luminfeed/waitlist-service/internal/log"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	backend  Component
	fallback Component
	logger   *log.Logger
	cache    Cache
}

func NewMonitoringControllerFactory(backend, fallback Component, logger *log.Logger, cache Cache) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		backend:  backend,
		fallback: fallback,
		logger:   logger,
		cache:    cache,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.backend, f.fallback, f.logger, f.cache)
}
