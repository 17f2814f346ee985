package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/luminfeed/waitlist-service/internal/log"
	pkgredis "github.com/luminfeed/waitlist-service/pkg/redis"
	"github.com/luminfeed/waitlist-service/pkg/utils"
)

const defaultRedisDialTimeout = 5 * time.Second

var ErrCacheNotConfigured = errors.New("cache host is not configured")

// Cache backs the shared rate limiters and, when selected, the waitlist fallback list.
type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set uses ttl=0 for no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisClientProvider exposes the underlying client for list and Lua operations.
type RedisClientProvider interface {
	GetClient() *redis.Client
}

type CacheConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// NewCacheConfig reads REDIS_HOST, REDIS_PORT, REDIS_PASSWORD, REDIS_DB and REDIS_DIAL_TIMEOUT.
func NewCacheConfig() (*CacheConfig, error) {
	cc := &CacheConfig{
		Host:        utils.GetEnvTrimmed("REDIS_HOST"),
		Port:        utils.GetEnvTrimmedOrDefault("REDIS_PORT", "6379"),
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: utils.GetEnvPositiveDuration("REDIS_DIAL_TIMEOUT", defaultRedisDialTimeout),
	}

	if raw := utils.GetEnvTrimmed("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return nil, fmt.Errorf("invalid REDIS_DB %q: want a non-negative integer", raw)
		}
		cc.DB = db
	}

	return cc, nil
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		Host:        cc.Host,
		Port:        cc.Port,
		Password:    cc.Password,
		DB:          cc.DB,
		DialTimeout: cc.DialTimeout,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cache (Redis) connected", "host", cc.Host, "db", cc.DB)
	return cache, nil
}

// NewCacheOrNil returns nil when Redis is not configured or unreachable. Rate limiting then runs
// in memory and the fallback list moves to the database.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("Cache (Redis) is not configured; rate limits stay in memory")
		return nil
	}

	cache, err := cc.NewCache(logger)
	if err != nil {
		logger.Error("Cache (Redis) unavailable; continuing without it", "host", cc.Host, "error", err)
		return nil
	}

	return cache
}

func GetRedisClient(cache Cache) *redis.Client {
	if provider, ok := cache.(RedisClientProvider); ok {
		return provider.GetClient()
	}
	return nil
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}
