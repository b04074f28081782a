// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the application configuration loaded from environment
// variables. API credentials themselves are not part of the config: the
// credential resolver owns those (the env source reads DOMENESHOP_TOKEN and
// DOMENESHOP_SECRET directly so that source priority lives in one place).
type Config struct {
	APIBaseURL      string
	HTTPTimeout     time.Duration
	ListenAddr      string
	CredentialsFile string
	AuditLogPath    string
	IPEchoURL       string
}

// Load reads configuration from environment variables and returns a
// validated Config. All variables are optional and have defaults:
// DOMENECTL_API_URL (https://api.domeneshop.no/v0), DOMENECTL_HTTP_TIMEOUT
// (15s), DOMENECTL_LISTEN_ADDR (127.0.0.1:5050), DOMENECTL_CREDENTIALS_FILE
// (~/.domenectl/credentials.json), DOMENECTL_AUDIT_LOG
// (~/.domenectl/audit.log), DOMENECTL_IP_ECHO_URL (https://api.ipify.org).
func Load() (*Config, error) {
	apiBaseURL := "https://api.domeneshop.no/v0"
	if v, ok := os.LookupEnv("DOMENECTL_API_URL"); ok && v != "" {
		apiBaseURL = v
	}

	timeout := 15 * time.Second
	if v, ok := os.LookupEnv("DOMENECTL_HTTP_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("DOMENECTL_HTTP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		timeout = parsed
	}

	listenAddr := "127.0.0.1:5050"
	if v, ok := os.LookupEnv("DOMENECTL_LISTEN_ADDR"); ok && v != "" {
		listenAddr = v
	}

	credentialsFile, err := defaultPath("DOMENECTL_CREDENTIALS_FILE", "credentials.json")
	if err != nil {
		return nil, err
	}
	auditLogPath, err := defaultPath("DOMENECTL_AUDIT_LOG", "audit.log")
	if err != nil {
		return nil, err
	}

	ipEchoURL := "https://api.ipify.org"
	if v, ok := os.LookupEnv("DOMENECTL_IP_ECHO_URL"); ok && v != "" {
		ipEchoURL = v
	}

	return &Config{
		APIBaseURL:      apiBaseURL,
		HTTPTimeout:     timeout,
		ListenAddr:      listenAddr,
		CredentialsFile: credentialsFile,
		AuditLogPath:    auditLogPath,
		IPEchoURL:       ipEchoURL,
	}, nil
}

// defaultPath resolves an override env var, falling back to
// ~/.domenectl/<name>.
func defaultPath(envVar, name string) (string, error) {
	if v, ok := os.LookupEnv(envVar); ok && v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory for %s default: %w", envVar, err)
	}
	return filepath.Join(home, ".domenectl", name), nil
}
