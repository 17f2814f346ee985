package waitlist

import (
	"errors"
	"strconv"
	"time"

	"github.com/luminfeed/waitlist-service/config/router"
	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/pkg/circuitbreaker"
	"github.com/luminfeed/waitlist-service/pkg/factory"
	"github.com/luminfeed/waitlist-service/pkg/ratelimit"
)

const (
	waitlistSubmissionRequestsPerMinute = 30 // More permissive than monitoring (10/min)
)

// circuitRetryAfter matches the recovery timeout of the breaker the factory builds.
var circuitRetryAfter = strconv.Itoa(int(circuitbreaker.DefaultConfig().RecoveryTimeout.Seconds()))

func NewWaitlistController(
	service WaitlistService,
	logger *log.Logger,
	cache factory.Cache,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			waitlistSubmissionLimiter := createWaitlistSubmissionRateLimiter(cache, logger)

			rs.AddPostHandler(c, waitlistSubmissionLimiter, "", submitWaitlistEntryHandler(service))
		},
	)
}

func createWaitlistSubmissionRateLimiter(cache factory.Cache, logger *log.Logger) ratelimit.RateLimiter {
	limiterFactory := factory.NewDefaultRateLimiterFactory(waitlistSubmissionRequestsPerMinute, time.Minute, cache, logger)
	return limiterFactory.CreateRateLimiter()
}

func submitWaitlistEntryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req SubmitWaitlistRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)
			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Submit(ctx.Request.Context(), &req)
		if err != nil {
			result := router.AppErrorResult(err, ValidationDetails(err))
			if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
				result.WithHeader("Retry-After", circuitRetryAfter)
			}
			return result
		}

		return router.CreatedResult(response, "Waitlist entry")
	}
}
