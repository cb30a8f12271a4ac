// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr     string
	DBPath         string
	KeyPath        string
	AdminPassword  string
	SessionKey     string
	MaxUploadBytes int64
}

// Load reads configuration from environment variables and returns a validated
// Config. QUANTUMTRUST_ADMIN_PASSWORD is required: without it the admin view
// would be unreachable or, worse, open. Optional variables with defaults:
// QUANTUMTRUST_LISTEN_ADDR (127.0.0.1:8080), QUANTUMTRUST_DB_PATH
// (quantumtrust.db), QUANTUMTRUST_KEY_PATH (secret.key),
// QUANTUMTRUST_MAX_UPLOAD_BYTES (8 MiB). QUANTUMTRUST_SESSION_KEY is
// optional; when unset the session cookie key is random per process and
// admin sessions do not survive restarts.
func Load() (*Config, error) {
	adminPassword := os.Getenv("QUANTUMTRUST_ADMIN_PASSWORD")
	if adminPassword == "" {
		return nil, fmt.Errorf("QUANTUMTRUST_ADMIN_PASSWORD is required")
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("QUANTUMTRUST_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "quantumtrust.db"
	if v, ok := os.LookupEnv("QUANTUMTRUST_DB_PATH"); ok {
		dbPath = v
	}

	keyPath := "secret.key"
	if v, ok := os.LookupEnv("QUANTUMTRUST_KEY_PATH"); ok {
		keyPath = v
	}

	maxUploadBytes := int64(8 << 20)
	if v, ok := os.LookupEnv("QUANTUMTRUST_MAX_UPLOAD_BYTES"); ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("QUANTUMTRUST_MAX_UPLOAD_BYTES has invalid value %q", v)
		}
		maxUploadBytes = parsed
	}

	return &Config{
		ListenAddr:     listenAddr,
		DBPath:         dbPath,
		KeyPath:        keyPath,
		AdminPassword:  adminPassword,
		SessionKey:     os.Getenv("QUANTUMTRUST_SESSION_KEY"),
		MaxUploadBytes: maxUploadBytes,
	}, nil
}
