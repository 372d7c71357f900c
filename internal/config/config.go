// internal/config/config.go
package config

import (
	"os"
	"time"

	"labportal-service/internal/identity"
	"labportal-service/internal/pkg/jwt"
)

type AppConfig struct {
	// Server
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	// Identity provider
	Provider identity.Config

	// Secrets
	BridgeSecret    string
	SignedURLSecret string

	// Session tokens
	JWT jwt.Config

	// Role resolution
	AdminEmails string

	// Rate limiting
	RateLimitBackend string

	// Page destinations and storage gateway
	SignInPath     string
	PortalPath     string
	StorageBaseURL string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8000"),
		RedisAddr: getEnv("REDIS_ADDR", "redis-labportal:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		Provider: identity.Config{
			BaseURL: getEnv("IDENTITY_BASE_URL", ""),
			APIKey:  getEnv("IDENTITY_API_KEY", ""),
			Timeout: getEnvDuration("IDENTITY_TIMEOUT", 10*time.Second),
		},

		BridgeSecret:    getEnv("BRIDGE_SECRET", ""),
		SignedURLSecret: getEnv("SIGNED_URL_SECRET", ""),

		JWT: jwt.Config{
			Secret:   getEnv("SESSION_SECRET", ""),
			Issuer:   "labportal",
			Audience: "labportal-clients",
			TTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),
		},

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),

		SignInPath:     getEnv("SIGNIN_PATH", "/signin"),
		PortalPath:     getEnv("PORTAL_PATH", "/portal"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", ""),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
