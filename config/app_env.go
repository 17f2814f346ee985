package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/pkg/utils"
)

const (
	AppEnvKey  = "APP_ENV"
	EnvFileKey = "ENV_FILE"

	defaultEnvFile = ".env"
)

var ErrAutoMigrateWithoutStore = errors.New("--auto-migrate needs WAITLIST_BACKEND=store with WAITLIST_STORE_DRIVER=postgres")

// InitializeEnvFile loads the dotenv files named in ENV_FILE (comma separated, default .env).
// Values already present in the environment win. Missing files are skipped.
// It returns the files that were loaded.
func InitializeEnvFile(logger *log.Logger) []string {
	if utils.GetEnvBool("SKIP_DOTENV", false) {
		logger.Info("Skipping env file load (SKIP_DOTENV=true)")
		return nil
	}

	var loaded []string
	for _, file := range envFiles() {
		if _, err := os.Stat(file); err != nil {
			logger.Debug("Env file not present", "file", file)
			continue
		}
		if err := godotenv.Load(file); err != nil {
			logger.Warn("Failed to load env file", "file", file, "error", err.Error())
			continue
		}
		loaded = append(loaded, file)
	}

	if len(loaded) == 0 {
		logger.Info("No env file loaded; using process environment only")
		return nil
	}

	logger.Info("Environment variables loaded", "files", loaded)
	return loaded
}

func envFiles() []string {
	raw := utils.GetEnvTrimmedOrDefault(EnvFileKey, defaultEnvFile)

	var files []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}

func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func GetAppEnv() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv(AppEnvKey)))
}

// ValidateAutoMigrate allows --auto-migrate only in development-like environments and only when the
// waitlist writes through the postgres store driver. The relay and REST backends own no schema here.
func ValidateAutoMigrate(appEnv string, cfg *WaitlistConfig) error {
	env := strings.ToLower(strings.TrimSpace(appEnv))

	switch env {
	case "", "dev", "development", "local", "test", "testing":
	default:
		return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: \"\", dev, development, local, test, testing)", AppEnvKey, env)
	}

	if cfg == nil || cfg.BackendKind != BackendStore || cfg.StoreDriver != StoreDriverPostgres {
		return ErrAutoMigrateWithoutStore
	}
	return nil
}
