package config

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

const envFileVar = "PORTAL_ENV_FILE"

type Config interface {
	EnvConfig
	PortalConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type PortalConfig interface {
	GetAPIURL() string
	GetChatURL() string
	GetStorageDir() string
	GetHTTPTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	Portal
}

// New loads an optional .env file and then reads the environment.
func New(ctx context.Context) (Config, error) {
	if err := loadDotEnv(GetEnv(envFileVar, ".env")); err != nil {
		return nil, err
	}
	return NewWithLookuper(ctx, envconfig.OsLookuper())
}

// NewWithLookuper reads configuration from l instead of the process environment.
func NewWithLookuper(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var c mainConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &c,
		Lookuper: l,
	}); err != nil {
		return nil, errors.Wrap(err, "[config] failed to process environment")
	}
	return c, nil
}

// loadDotEnv loads path if it exists. Variables already set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "[config] stat %s", path)
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "[config] load %s", path)
	}
	return nil
}
