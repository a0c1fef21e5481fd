// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Backend selects the document-store implementation.
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
)

type Config struct {
	// HTTP server
	Port           string
	AllowedOrigins []string

	// Storage
	StoreBackend       string
	GoogleCloudProject string

	// Auth
	SkipAuth bool

	// Logging
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8111"),
		AllowedOrigins:     splitEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		StoreBackend:       getEnv("STORE_BACKEND", BackendMemory),
		GoogleCloudProject: getEnv("GOOGLE_CLOUD_PROJECT", ""),
		SkipAuth:           getEnvBool("SKIP_AUTH", false),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StoreBackend {
	case BackendMemory, BackendFirestore:
	default:
		errs = append(errs, fmt.Sprintf("invalid store backend %q: must be %q or %q",
			c.StoreBackend, BackendMemory, BackendFirestore))
	}

	if c.StoreBackend == BackendFirestore && c.GoogleCloudProject == "" {
		errs = append(errs, "GOOGLE_CLOUD_PROJECT is required when using the firestore backend")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
