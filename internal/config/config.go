// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"kitbox/internal/validation"
)

// EnvProduction is the KITBOX_ENV value that enables production checks.
const EnvProduction = "production"

// Config holds the server configuration.
type Config struct {
	Addr             string        `validate:"required"`
	APIURL           string        `validate:"required,url"`
	APITimeout       time.Duration `validate:"gte=1ms"`
	DBPath           string        `validate:"required"`
	Env              string        `validate:"oneof=development test production"`
	CSRFKeyHex       string        `validate:"omitempty,hexadecimal,len=64"`
	CredentialSecret string
	SlotCatalogPath  string
	RateLimit        int           `validate:"gte=1"`
	SessionTTL       time.Duration `validate:"gte=1m"`
	LogLevel         string

	// CSRFKey is the decoded CSRFKeyHex, or a random key outside production.
	CSRFKey []byte `validate:"-"`
}

// Load reads .env (if present) and the environment.
// PRE: none
// POST: Returns a validated Config; production requires KITBOX_CSRF_KEY and KITBOX_CREDENTIAL_SECRET
func Load() (*Config, error) {
	// A missing .env is normal in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:             envOrDefault("KITBOX_ADDR", ":8080"),
		APIURL:           envOrDefault("KITBOX_API_URL", "http://localhost:5000/api"),
		DBPath:           envOrDefault("KITBOX_DB_PATH", "kitbox.db"),
		Env:              envOrDefault("KITBOX_ENV", "development"),
		CSRFKeyHex:       os.Getenv("KITBOX_CSRF_KEY"),
		CredentialSecret: os.Getenv("KITBOX_CREDENTIAL_SECRET"),
		SlotCatalogPath:  os.Getenv("KITBOX_SLOT_CATALOG"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.APITimeout, err = time.ParseDuration(envOrDefault("KITBOX_API_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid KITBOX_API_TIMEOUT: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(envOrDefault("KITBOX_SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid KITBOX_SESSION_TTL: %w", err)
	}
	if cfg.RateLimit, err = strconv.Atoi(envOrDefault("KITBOX_RATE_LIMIT", "10")); err != nil {
		return nil, fmt.Errorf("invalid KITBOX_RATE_LIMIT: %w", err)
	}

	if err := validation.Struct(cfg); err != nil {
		return nil, describe(err)
	}
	if err := cfg.loadSecrets(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether production checks apply.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// loadSecrets decodes the CSRF key and fills development fallbacks.
func (c *Config) loadSecrets() error {
	if c.IsProduction() {
		if c.CSRFKeyHex == "" {
			return errors.New("KITBOX_CSRF_KEY is required in production")
		}
		if c.CredentialSecret == "" {
			return errors.New("KITBOX_CREDENTIAL_SECRET is required in production")
		}
	}

	if c.CSRFKeyHex != "" {
		key, err := hex.DecodeString(c.CSRFKeyHex)
		if err != nil {
			return fmt.Errorf("KITBOX_CSRF_KEY must be 64 hex characters: %w", err)
		}
		c.CSRFKey = key
	} else {
		c.CSRFKey = make([]byte, 32)
		if _, err := rand.Read(c.CSRFKey); err != nil {
			return fmt.Errorf("generate CSRF key: %w", err)
		}
		slog.Warn("config_default", "key", "KITBOX_CSRF_KEY", "detail", "using random CSRF key; forms will not survive restart")
	}

	if c.CredentialSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate credential secret: %w", err)
		}
		c.CredentialSecret = hex.EncodeToString(secret)
		slog.Warn("config_default", "key", "KITBOX_CREDENTIAL_SECRET", "detail", "using random secret; stored logins will not survive restart")
	}
	return nil
}

// describe turns validator errors into one readable error listing each field.
func describe(err error) error {
	fields := validation.FieldErrors(err)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name])
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(parts, "; "))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
