package config

import (
	"os"
	"strings"
)

// RateLimitEnabled turns on the Redis-backed rate limiter for posting routes.
//
// Set via env:
// - RATE_LIMIT_ENABLED=true
func RateLimitEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// SkipMigrations disables AutoMigrate on startup, for deployments where the
// schema is managed out of band.
//
// Set via env:
// - SKIP_MIGRATIONS=true
func SkipMigrations() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
