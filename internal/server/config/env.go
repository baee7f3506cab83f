package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables.
//
// Recognized variables:
//
//	ADDRESS         HTTP bind address (e.g. ":8080")
//	DATABASE_DSN    PostgreSQL DSN
//	JWT_SECRET      HMAC secret for signing session tokens
//	TOKEN_VALIDITY  session token lifetime, hours
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TOKEN_VALIDITY"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			config.TokenValidityDuration = time.Duration(hours) * time.Hour
		}
	}
}
