package config

import (
	"os"
	"path/filepath"
	"time"
)

// Client captures configuration for the intake client: where the remote API
// lives, where credentials are cached, and how chatty logging should be.
type Client struct {
	APIBaseURL      string
	CredentialsFile string
	HTTPTimeout     time.Duration
	LogLevel        string
}

var defaultHTTPTimeout = 30 * time.Second

// FromEnv builds a Client config from environment variables so main stays lean.
// The API base URL defaults to the local development backend, mirroring the
// deployed/local host selection the web client performs at load time.
func FromEnv() Client {
	baseURL := os.Getenv("INTAKE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:4000/api"
	}

	credFile := os.Getenv("INTAKE_CREDENTIALS_FILE")
	if credFile == "" {
		credFile = defaultCredentialsFile()
	}

	timeout := defaultHTTPTimeout
	if raw := os.Getenv("INTAKE_HTTP_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			timeout = d
		}
	}

	level := os.Getenv("INTAKE_LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	return Client{
		APIBaseURL:      baseURL,
		CredentialsFile: credFile,
		HTTPTimeout:     timeout,
		LogLevel:        level,
	}
}

func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to the working directory; Save will still enforce 0600.
		return filepath.Join(".intake", "credentials.json")
	}
	return filepath.Join(home, ".config", "intake", "credentials.json")
}
