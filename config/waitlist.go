package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/pkg/constants"
	"github.com/luminfeed/waitlist-service/pkg/utils"
	"gopkg.in/yaml.v3"
)

// BackendKind selects where signups are written. The choice is made per deployment.
type BackendKind string

const (
	BackendRelay BackendKind = "relay"
	BackendStore BackendKind = "store"
)

// StoreDriver selects how the store backend reaches the waitlist table.
type StoreDriver string

const (
	StoreDriverREST     StoreDriver = "rest"
	StoreDriverPostgres StoreDriver = "postgres"
)

// FallbackStoreKind selects where the append-only fallback list is kept.
type FallbackStoreKind string

const (
	FallbackStoreAuto     FallbackStoreKind = ""
	FallbackStoreRedis    FallbackStoreKind = "redis"
	FallbackStoreDatabase FallbackStoreKind = "database"
	FallbackStoreNone     FallbackStoreKind = "none"
)

// ErrBackendNotConfigured is wrapped by Validate when credentials or endpoints are missing.
var ErrBackendNotConfigured = errors.New("waitlist backend is not configured")

type RelayFieldsConfig struct {
	Email     string `yaml:"email"`
	UserType  string `yaml:"user_type"`
	CreatedOn string `yaml:"created_on"`
}

type FallbackConfig struct {
	Store      FallbackStoreKind `yaml:"store"`
	Key        string            `yaml:"key"`
	SQLitePath string            `yaml:"sqlite_path"`
}

type WaitlistConfig struct {
	EndpointURL string      `yaml:"endpoint_url"`
	APIKey      string      `yaml:"api_key"`
	BackendKind BackendKind `yaml:"backend_kind"`

	StoreDriver         StoreDriver `yaml:"store_driver"`
	StoreTable          string      `yaml:"store_table"`
	DuplicateConstraint string      `yaml:"duplicate_constraint"`

	RelayFields RelayFieldsConfig `yaml:"relay_fields"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`
	Timezone    string        `yaml:"timezone"`

	Fallback FallbackConfig `yaml:"fallback"`

	location *time.Location
}

func DefaultWaitlistConfig() *WaitlistConfig {
	return &WaitlistConfig{
		BackendKind:         BackendRelay,
		StoreDriver:         StoreDriverREST,
		StoreTable:          constants.DefaultWaitlistTable,
		DuplicateConstraint: constants.DefaultWaitlistDuplicateConstraint,
		RelayFields: RelayFieldsConfig{
			Email:     constants.DefaultRelayEmailField,
			UserType:  constants.DefaultRelayUserTypeField,
			CreatedOn: constants.DefaultRelayCreatedOnField,
		},
		HTTPTimeout: constants.DefaultWaitlistHTTPTimeout,
		Fallback: FallbackConfig{
			Key:        constants.DefaultFallbackKey,
			SQLitePath: constants.DefaultFallbackSQLitePath,
		},
		location: time.Local,
	}
}

// LoadWaitlistConfig layers defaults, the optional WAITLIST_CONFIG_FILE and environment variables, in that order.
// Only malformed input is an error here; missing credentials are reported by Validate.
func LoadWaitlistConfig(logger *log.Logger) (*WaitlistConfig, error) {
	cfg := DefaultWaitlistConfig()

	if path := utils.GetEnvTrimmed("WAITLIST_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		logger.Info("Waitlist configuration file loaded", "path", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	logger.Info("Waitlist configuration loaded",
		"backend", cfg.BackendKind,
		"store_driver", cfg.StoreDriver,
		"fallback_store", cfg.Fallback.Store,
		"endpoint_host", cfg.EndpointHost(),
		"api_key_set", cfg.APIKey != "",
	)

	return cfg, nil
}

func (c *WaitlistConfig) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read waitlist config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse waitlist config %q: %w", path, err)
	}

	return nil
}

func (c *WaitlistConfig) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = sanitizeEnv(v)
		}
	}

	setString("WAITLIST_ENDPOINT_URL", &c.EndpointURL)
	setString("WAITLIST_API_KEY", &c.APIKey)
	setString("WAITLIST_STORE_TABLE", &c.StoreTable)
	setString("WAITLIST_DUPLICATE_CONSTRAINT", &c.DuplicateConstraint)
	setString("WAITLIST_RELAY_EMAIL_FIELD", &c.RelayFields.Email)
	setString("WAITLIST_RELAY_USER_TYPE_FIELD", &c.RelayFields.UserType)
	setString("WAITLIST_RELAY_CREATED_ON_FIELD", &c.RelayFields.CreatedOn)
	setString("WAITLIST_TIMEZONE", &c.Timezone)
	setString("WAITLIST_FALLBACK_KEY", &c.Fallback.Key)
	setString("WAITLIST_FALLBACK_SQLITE_PATH", &c.Fallback.SQLitePath)

	if v, ok := os.LookupEnv("WAITLIST_BACKEND"); ok {
		c.BackendKind = BackendKind(sanitizeEnv(v))
	}
	if v, ok := os.LookupEnv("WAITLIST_STORE_DRIVER"); ok {
		c.StoreDriver = StoreDriver(sanitizeEnv(v))
	}
	if v, ok := os.LookupEnv("WAITLIST_FALLBACK_STORE"); ok {
		c.Fallback.Store = FallbackStoreKind(sanitizeEnv(v))
	}

	if v := utils.GetEnvTrimmed("WAITLIST_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid WAITLIST_HTTP_TIMEOUT %q", v)
		}
		c.HTTPTimeout = d
	}

	return nil
}

func (c *WaitlistConfig) normalize() error {
	c.BackendKind = BackendKind(strings.ToLower(strings.TrimSpace(string(c.BackendKind))))
	c.StoreDriver = StoreDriver(strings.ToLower(strings.TrimSpace(string(c.StoreDriver))))
	c.Fallback.Store = FallbackStoreKind(strings.ToLower(strings.TrimSpace(string(c.Fallback.Store))))
	c.EndpointURL = strings.TrimRight(strings.TrimSpace(c.EndpointURL), "/")

	switch c.BackendKind {
	case BackendRelay, BackendStore:
	case "":
		c.BackendKind = BackendRelay
	default:
		return fmt.Errorf("unknown waitlist backend %q (allowed: relay, store)", c.BackendKind)
	}

	switch c.StoreDriver {
	case StoreDriverREST, StoreDriverPostgres:
	case "":
		c.StoreDriver = StoreDriverREST
	default:
		return fmt.Errorf("unknown waitlist store driver %q (allowed: rest, postgres)", c.StoreDriver)
	}

	switch c.Fallback.Store {
	case FallbackStoreAuto, FallbackStoreRedis, FallbackStoreDatabase, FallbackStoreNone:
	default:
		return fmt.Errorf("unknown waitlist fallback store %q (allowed: redis, database, none)", c.Fallback.Store)
	}

	if c.StoreTable == "" {
		c.StoreTable = constants.DefaultWaitlistTable
	}
	if c.Fallback.Key == "" {
		c.Fallback.Key = constants.DefaultFallbackKey
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = constants.DefaultWaitlistHTTPTimeout
	}

	c.location = time.Local
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return fmt.Errorf("invalid waitlist timezone %q: %w", c.Timezone, err)
		}
		c.location = loc
	}

	return nil
}

// Validate reports missing credentials or endpoints for the selected backend.
func (c *WaitlistConfig) Validate() error {
	missing := []string{}

	needsEndpoint := c.BackendKind == BackendRelay ||
		(c.BackendKind == BackendStore && c.StoreDriver == StoreDriverREST)

	if needsEndpoint {
		if c.EndpointURL == "" {
			missing = append(missing, "endpoint_url")
		} else if err := validateHTTPURL(c.EndpointURL); err != nil {
			return fmt.Errorf("%w: %v", ErrBackendNotConfigured, err)
		}
	}

	if c.BackendKind == BackendStore && c.StoreDriver == StoreDriverREST && c.APIKey == "" {
		missing = append(missing, "api_key")
	}

	if c.BackendKind == BackendRelay {
		if c.RelayFields.Email == "" || c.RelayFields.UserType == "" || c.RelayFields.CreatedOn == "" {
			missing = append(missing, "relay_fields")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrBackendNotConfigured, strings.Join(missing, ", "))
	}

	return nil
}

// Location is the zone used to render submission timestamps.
func (c *WaitlistConfig) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// EndpointHost is safe to log.
func (c *WaitlistConfig) EndpointHost() string {
	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Redacted returns a copy with the API key masked, for display.
func (c *WaitlistConfig) Redacted() WaitlistConfig {
	out := *c
	if out.APIKey != "" {
		out.APIKey = redact(out.APIKey)
	}
	return out
}

func redact(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid endpoint_url %q: %w", raw, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint_url %q: expected http(s)://host[/path]", raw)
	}

	return nil
}
