package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-tutor-portal/internal/config"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := config.NewWithLookuper(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	require.Equal(t, "Tutor Portal", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "warn", c.GetLogLevel())
	require.Equal(t, "http://localhost:3000/api", c.GetAPIURL())
	require.Equal(t, "https://dify.ai", c.GetChatURL())
	require.Empty(t, c.GetStorageDir())
	require.Equal(t, 15*time.Second, c.GetHTTPTimeout())
}

func TestOverrides(t *testing.T) {
	c, err := config.NewWithLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORTAL_API_URL":      "https://tutor.example.com/api/",
		"PORTAL_CHAT_URL":     "https://chat.example.com/embed",
		"PORTAL_STORAGE_DIR":  "/tmp/portal",
		"PORTAL_HTTP_TIMEOUT": "3s",
		"PORTAL_LOG_LEVEL":    "debug",
		"ENV":                 "prod",
	}))
	require.NoError(t, err)

	require.Equal(t, "https://tutor.example.com/api", c.GetAPIURL(), "trailing slash trimmed")
	require.Equal(t, "https://chat.example.com/embed", c.GetChatURL())
	require.Equal(t, "/tmp/portal", c.GetStorageDir())
	require.Equal(t, 3*time.Second, c.GetHTTPTimeout())
	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, "PROD", c.GetEnv())
}

func TestInvalidDuration(t *testing.T) {
	_, err := config.NewWithLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORTAL_HTTP_TIMEOUT": "soon",
	}))
	require.Error(t, err)
}

func TestNewLoadsDotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "portal.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORTAL_CHAT_URL=https://from-dotenv.example.com\n"), 0600))
	t.Setenv("PORTAL_ENV_FILE", envFile)
	t.Setenv("PORTAL_CHAT_URL", "")
	os.Unsetenv("PORTAL_CHAT_URL")
	t.Cleanup(func() { os.Unsetenv("PORTAL_CHAT_URL") })

	c, err := config.New(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://from-dotenv.example.com", c.GetChatURL())
}

func TestNewWithoutDotEnvFile(t *testing.T) {
	t.Setenv("PORTAL_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	_, err := config.New(context.Background())
	require.NoError(t, err)
}
