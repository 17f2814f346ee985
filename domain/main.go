package domain

import (
	"github.com/luminfeed/waitlist-service/config"
	"github.com/luminfeed/waitlist-service/domain/monitoring"
	"github.com/luminfeed/waitlist-service/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	waitlistFactory := waitlist.NewWaitlistServiceFactory(appConfig)

	var cache monitoring.Cache
	if appConfig.Cache != nil {
		cache = appConfig.Cache
	}

	monitoringFactory := monitoring.NewMonitoringControllerFactory(
		waitlistFactory.Backend(),
		waitlistFactory.FallbackStore(),
		appConfig.Logger,
		cache,
	)

	appConfig.RouterService.MountController(monitoringFactory.CreateController())
	appConfig.RouterService.MountController(waitlistFactory.CreateController())
}
