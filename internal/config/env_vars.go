package config

import (
	"os"
	"strings"
)

type EnvVars struct {
	AppName  string `env:"APP_NAME, default=Tutor Portal"`
	Env      string `env:"ENV, default=DEV"`
	LogLevel string `env:"PORTAL_LOG_LEVEL, default=warn"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.Env)
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
