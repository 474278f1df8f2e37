package config

import (
	"strings"
	"time"
)

type Portal struct {
	APIURL      string        `env:"PORTAL_API_URL, default=http://localhost:3000/api"`
	ChatURL     string        `env:"PORTAL_CHAT_URL, default=https://dify.ai"`
	StorageDir  string        `env:"PORTAL_STORAGE_DIR"`
	HTTPTimeout time.Duration `env:"PORTAL_HTTP_TIMEOUT, default=15s"`
}

var _ PortalConfig = Portal{}

// GetAPIURL returns the backend base URL without a trailing slash.
func (p Portal) GetAPIURL() string {
	return strings.TrimRight(p.APIURL, "/")
}

// GetChatURL returns the chat iframe base URL the encoded token is appended to.
func (p Portal) GetChatURL() string {
	return p.ChatURL
}

// GetStorageDir returns the durable storage directory; empty means the default.
func (p Portal) GetStorageDir() string {
	return p.StorageDir
}

func (p Portal) GetHTTPTimeout() time.Duration {
	return p.HTTPTimeout
}
