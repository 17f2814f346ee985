package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearWaitlistEnv makes sure values from the developer's shell do not leak into a test.
func clearWaitlistEnv(t *testing.T) {
	t.Helper()

	keys := []string{
		"WAITLIST_CONFIG_FILE", "WAITLIST_ENDPOINT_URL", "WAITLIST_API_KEY", "WAITLIST_BACKEND",
		"WAITLIST_STORE_DRIVER", "WAITLIST_STORE_TABLE", "WAITLIST_DUPLICATE_CONSTRAINT",
		"WAITLIST_RELAY_EMAIL_FIELD", "WAITLIST_RELAY_USER_TYPE_FIELD", "WAITLIST_RELAY_CREATED_ON_FIELD",
		"WAITLIST_HTTP_TIMEOUT", "WAITLIST_TIMEZONE", "WAITLIST_FALLBACK_STORE",
		"WAITLIST_FALLBACK_KEY", "WAITLIST_FALLBACK_SQLITE_PATH",
	}
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			t.Setenv(k, v)
			require.NoError(t, os.Unsetenv(k))
		}
	}
}

func TestLoadWaitlistConfig_Defaults(t *testing.T) {
	clearWaitlistEnv(t)

	cfg, err := LoadWaitlistConfig(log.NewDiscardLogger())
	require.NoError(t, err)

	assert.Equal(t, BackendRelay, cfg.BackendKind)
	assert.Equal(t, StoreDriverREST, cfg.StoreDriver)
	assert.Equal(t, "waitlist", cfg.StoreTable)
	assert.Equal(t, "waitlist_email_key", cfg.DuplicateConstraint)
	assert.Equal(t, "waitlistEmails", cfg.Fallback.Key)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "entry.1665392", cfg.RelayFields.Email)
	assert.Equal(t, time.Local, cfg.Location())

	assert.ErrorIs(t, cfg.Validate(), ErrBackendNotConfigured)
}

func TestLoadWaitlistConfig_EnvOverrides(t *testing.T) {
	clearWaitlistEnv(t)
	t.Setenv("WAITLIST_BACKEND", " Store ")
	t.Setenv("WAITLIST_ENDPOINT_URL", "https://project.supabase.co/")
	t.Setenv("WAITLIST_API_KEY", "\"anon-key-1234567890\"")
	t.Setenv("WAITLIST_HTTP_TIMEOUT", "3s")
	t.Setenv("WAITLIST_TIMEZONE", "Africa/Lagos")
	t.Setenv("WAITLIST_FALLBACK_STORE", "none")

	cfg, err := LoadWaitlistConfig(log.NewDiscardLogger())
	require.NoError(t, err)

	assert.Equal(t, BackendStore, cfg.BackendKind)
	assert.Equal(t, "https://project.supabase.co", cfg.EndpointURL)
	assert.Equal(t, "anon-key-1234567890", cfg.APIKey)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "Africa/Lagos", cfg.Location().String())
	assert.Equal(t, FallbackStoreNone, cfg.Fallback.Store)
	assert.Equal(t, "project.supabase.co", cfg.EndpointHost())
	assert.NoError(t, cfg.Validate())
}

func TestLoadWaitlistConfig_FileThenEnv(t *testing.T) {
	clearWaitlistEnv(t)

	path := filepath.Join(t.TempDir(), "waitlist.yaml")
	content := `
endpoint_url: https://docs.google.com/forms/d/e/abc/formResponse
backend_kind: relay
relay_fields:
  email: entry.1
  user_type: entry.2
  created_on: entry.3
http_timeout: 4s
fallback:
  store: database
  sqlite_path: /tmp/backup.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("WAITLIST_CONFIG_FILE", path)
	t.Setenv("WAITLIST_RELAY_EMAIL_FIELD", "entry.99")

	cfg, err := LoadWaitlistConfig(log.NewDiscardLogger())
	require.NoError(t, err)

	assert.Equal(t, BackendRelay, cfg.BackendKind)
	assert.Equal(t, "entry.99", cfg.RelayFields.Email)
	assert.Equal(t, "entry.2", cfg.RelayFields.UserType)
	assert.Equal(t, 4*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, FallbackStoreDatabase, cfg.Fallback.Store)
	assert.Equal(t, "/tmp/backup.db", cfg.Fallback.SQLitePath)
	assert.Equal(t, "waitlistEmails", cfg.Fallback.Key)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWaitlistConfig_RejectsMalformedInput(t *testing.T) {
	cases := map[string][2]string{
		"unknown backend":  {"WAITLIST_BACKEND", "spreadsheet"},
		"unknown driver":   {"WAITLIST_STORE_DRIVER", "mysql"},
		"unknown fallback": {"WAITLIST_FALLBACK_STORE", "localstorage"},
		"bad duration":     {"WAITLIST_HTTP_TIMEOUT", "soon"},
		"negative timeout": {"WAITLIST_HTTP_TIMEOUT", "-1s"},
		"bad timezone":     {"WAITLIST_TIMEZONE", "Mars/Olympus"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearWaitlistEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := LoadWaitlistConfig(log.NewDiscardLogger())
			assert.Error(t, err)
		})
	}
}

func TestLoadWaitlistConfig_MissingFile(t *testing.T) {
	clearWaitlistEnv(t)
	t.Setenv("WAITLIST_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := LoadWaitlistConfig(log.NewDiscardLogger())
	assert.Error(t, err)
}

func TestWaitlistConfig_Validate(t *testing.T) {
	t.Run("relay needs endpoint", func(t *testing.T) {
		cfg := DefaultWaitlistConfig()
		err := cfg.Validate()
		require.ErrorIs(t, err, ErrBackendNotConfigured)
		assert.Contains(t, err.Error(), "endpoint_url")
	})

	t.Run("relay rejects non http endpoint", func(t *testing.T) {
		cfg := DefaultWaitlistConfig()
		cfg.EndpointURL = "ftp://example.com/form"
		assert.ErrorIs(t, cfg.Validate(), ErrBackendNotConfigured)
	})

	t.Run("rest store needs api key", func(t *testing.T) {
		cfg := DefaultWaitlistConfig()
		cfg.BackendKind = BackendStore
		cfg.EndpointURL = "https://project.supabase.co"
		err := cfg.Validate()
		require.ErrorIs(t, err, ErrBackendNotConfigured)
		assert.Contains(t, err.Error(), "api_key")
	})

	t.Run("postgres store needs neither", func(t *testing.T) {
		cfg := DefaultWaitlistConfig()
		cfg.BackendKind = BackendStore
		cfg.StoreDriver = StoreDriverPostgres
		assert.NoError(t, cfg.Validate())
	})
}

func TestWaitlistConfig_Redacted(t *testing.T) {
	cfg := DefaultWaitlistConfig()
	cfg.APIKey = "eyJhbGciOiJIUzI1NiJ9.secret"

	redacted := cfg.Redacted()

	assert.Equal(t, "eyJh****cret", redacted.APIKey)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.secret", cfg.APIKey)

	cfg.APIKey = "short"
	assert.Equal(t, "****", cfg.Redacted().APIKey)
}
