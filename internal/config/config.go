// Package config handles loading and validating runtime configuration for the
// Open Invitational API. Configuration values (like the database URL and API
// port) are read from environment variables rather than being hardcoded, so
// the same binary runs in dev, staging, and production — just swap the env.
package config

import (
	"os"
	"strconv"

	// godotenv reads a .env file and loads its key=value pairs into the process
	// environment. Convenient in development; in production real env vars are
	// set by the deployment platform and no .env file exists.
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values for the application.
type Config struct {
	Port        string // TCP port the HTTP server listens on (e.g. "8080")
	DatabaseURL string // PostgreSQL connection string
	JWTSecret   string // HMAC secret for signing and verifying auth tokens
	FrontendURL string // base URL of the SPA; used to build check-in and reset links
	Env         string // "development", "staging", or "production"

	// SMTP settings for invite/reminder/password-reset mail. If SMTPHost is
	// empty the email service runs in dev mode: it logs what it would send.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string // From address, e.g. "The Open Invitational <golf@example.com>"
}

// Load reads configuration from environment variables and returns a populated
// Config. A missing .env file is fine — real env vars are used instead.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"), // required — server fails to start without it
		JWTSecret:   os.Getenv("JWT_SECRET"),   // required for auth
		FrontendURL: getenv("FRONTEND_URL", "http://localhost:3000"),
		Env:         getenv("ENV", "development"),
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPPort:    getenvInt("SMTP_PORT", 587),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		SMTPFrom:    getenv("SMTP_FROM", "The Open Invitational <noreply@localhost>"),
	}
}

// getenv returns the environment variable's value, or fallback if unset.
func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getenvInt parses an integer environment variable, falling back on any
// missing or malformed value.
func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
