package config

import (
	"fmt"
	"os"
	"strconv"
)

// SessionCookieName is the cookie carrying the session id.
const SessionCookieName = "samape_session"

// Config holds all application settings. Loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	Env          string
	Port         string
	DatabasePath string
	UseHTTPS     bool

	// Session
	SessionLifetimeSeconds int64
	// How long the session cookie persists when the user checks
	// "lembrar-me" on the login form
	RememberMeLifetimeSeconds int

	// Login rate limiting
	LoginRateLimit       int
	LoginRateLimitWindow int
}

// Load reads configuration from environment variables.
// It fails on invalid rate-limit values: a limit of zero would block every
// login, which is a misconfiguration rather than a policy.
func Load() (*Config, error) {
	cfg := &Config{
		Env:                    getEnv("ENV", "development"),
		Port:                   getEnv("PORT", "8080"),
		DatabasePath:           getEnv("DATABASE_PATH", "samape.db"),
		UseHTTPS:               getEnv("USE_HTTPS", "false") == "true",
		SessionLifetimeSeconds: int64(getEnvAsInt("SESSION_LIFETIME_SECONDS", 3600)),
		// 30 days
		RememberMeLifetimeSeconds: getEnvAsInt("REMEMBER_ME_LIFETIME_SECONDS", 2592000),
		LoginRateLimit:            getEnvAsInt("LOGIN_RATE_LIMIT", 5),
		LoginRateLimitWindow:      getEnvAsInt("LOGIN_RATE_LIMIT_TIMEOUT", 300),
	}

	if cfg.LoginRateLimit <= 0 {
		return nil, fmt.Errorf("LOGIN_RATE_LIMIT must be positive, got %d", cfg.LoginRateLimit)
	}
	if cfg.LoginRateLimitWindow <= 0 {
		return nil, fmt.Errorf("LOGIN_RATE_LIMIT_TIMEOUT must be positive, got %d", cfg.LoginRateLimitWindow)
	}

	return cfg, nil
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
