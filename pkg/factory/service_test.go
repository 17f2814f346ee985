package factory

import (
	"context"
	"testing"
	"time"

	"github.com/luminfeed/waitlist-service/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
)

type pingOnlyCache struct{}

func (pingOnlyCache) Ping(context.Context) error { return nil }

func TestDefaultRateLimiterFactory_InMemoryWithoutRedis(t *testing.T) {
	f := NewDefaultRateLimiterFactory(3, time.Minute, pingOnlyCache{}, nil)

	assert.False(t, f.UsesRedis())

	limiter := f.CreateRateLimiter()
	_, isInMemory := limiter.(*ratelimit.InMemoryRateLimiter)
	assert.True(t, isInMemory)

	requests, window := limiter.GetLimitDetails()
	assert.Equal(t, 3, requests)
	assert.Equal(t, time.Minute, window)
}

func TestDefaultRateLimiterFactory_NilCache(t *testing.T) {
	f := NewDefaultRateLimiterFactory(1, time.Second, nil, nil)

	limiter := f.CreateRateLimiter()

	limited, err := limiter.IsLimited("203.0.113.7")
	assert.NoError(t, err)
	assert.False(t, limited)

	limited, err = limiter.IsLimited("203.0.113.7")
	assert.NoError(t, err)
	assert.True(t, limited)
}
