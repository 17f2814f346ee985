package monitoring

import (
	"context"
	"time"

	"github.com/luminfeed/waitlist-service/config/router"
	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/pkg/factory"
	"github.com/luminfeed/waitlist-service/pkg/ratelimit"
)

const (
	monitoringRequestsPerMinute = 10 // More restrictive than default 100
	healthCheckTimeout          = 2 * time.Second
	notConfiguredKind           = "none"
)

type Cache interface {
	Ping(ctx context.Context) error
}

// Component is a dependency reported by the health check. Both the waitlist backend and the
// fallback store satisfy it.
type Component interface {
	Kind() string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Backend       int    `json:"backend"`        // 1 = healthy, 0 = unhealthy/not configured
	BackendKind   string `json:"backend_kind"`   // relay or store
	Fallback      int    `json:"fallback"`       // 1 = healthy, 0 = unhealthy/disabled
	FallbackStore string `json:"fallback_store"` // redis, database or none
	Cache         int    `json:"cache"`          // 1 = healthy, 0 = unhealthy/not configured
	Uptime        int    `json:"uptime"`         // uptime in seconds
}

type MonitoringController struct {
	backend   Component
	fallback  Component
	logger    *log.Logger
	cache     Cache
	startTime time.Time
}

func NewMonitoringController(backend, fallback Component, logger *log.Logger, cache Cache) *router.RESTController {
	ctrl := &MonitoringController{
		backend:   backend,
		fallback:  fallback,
		logger:    logger,
		cache:     cache,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {

			monitoringRateLimiter := createMonitoringRateLimiter(cache, logger)

			routerService.AddGetHandler(controller, monitoringRateLimiter, "", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.monitor(c)
			})

			routerService.AddGetHandler(controller, monitoringRateLimiter, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func createMonitoringRateLimiter(cache Cache, logger *log.Logger) ratelimit.RateLimiter {
	var shared factory.Cache
	if cache != nil {
		shared = cache
	}
	return factory.NewDefaultRateLimiterFactory(monitoringRequestsPerMinute, time.Minute, shared, logger).CreateRateLimiter()
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Info("Health check endpoint called")

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	healthStatus := ctrl.performHealthChecks(ctx, logger)

	return router.OKResult(healthStatus, "waitlist-service health check completed")
}

func (ctrl *MonitoringController) monitor(
	c *router.RequestContext,
) *router.ServiceResult {
	return router.OKResult("Monitoring endpoint is operational.", "Monitoring successful")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		BackendKind:   kindOf(ctrl.backend),
		FallbackStore: kindOf(ctrl.fallback),
		Uptime:        int(time.Since(ctrl.startTime).Seconds()),
	}

	status.Backend = checkComponent(ctx, "Waitlist backend", ctrl.backend, logger)
	status.Fallback = checkComponent(ctx, "Fallback store", ctrl.fallback, logger)

	checkCacheConnectivity(ctx, ctrl, &status, logger)

	return status
}

func kindOf(component Component) string {
	if component == nil {
		return notConfiguredKind
	}
	return component.Kind()
}

// checkComponent pings components that support it. A configured component without a cheap
// health check (the HTTP backends) counts as healthy; its failures surface through the circuit breaker.
func checkComponent(ctx context.Context, name string, component Component, logger *log.Logger) int {
	if component == nil || component.Kind() == notConfiguredKind {
		logger.Info(name+" not configured, health check skipped")
		return 0
	}

	pinger, ok := component.(Pinger)
	if !ok {
		return 1
	}

	if err := pinger.Ping(ctx); err != nil {
		logger.Error(name+" health check failed", "kind", component.Kind(), "error", err)
		return 0
	}

	logger.Info(name+" health check passed", "kind", component.Kind())
	return 1
}

func checkCacheConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.cache != nil {
		if ctrl.checkCache(ctx) {
			status.Cache = 1
			logger.Info("Cache health check passed")
		} else {
			status.Cache = 0
			logger.Error("Cache health check failed")
		}
	} else {
		status.Cache = 0 // Cache not configured
		logger.Info("Cache not configured, cache health check skipped")
	}
}

func (ctrl *MonitoringController) checkCache(ctx context.Context) bool {
	return ctrl.cache.Ping(ctx) == nil
}
