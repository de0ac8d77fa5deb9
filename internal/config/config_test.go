package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, "kitbox.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.IsProduction())
	assert.Len(t, cfg.CSRFKey, 32, "random key generated outside production")
	assert.NotEmpty(t, cfg.CredentialSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KITBOX_API_URL", "https://inventory.example.com/api")
	t.Setenv("KITBOX_API_TIMEOUT", "3s")
	t.Setenv("KITBOX_RATE_LIMIT", "50")
	t.Setenv("KITBOX_CSRF_KEY", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://inventory.example.com/api", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 50, cfg.RateLimit)
	assert.Equal(t, byte(0x1f), cfg.CSRFKey[31])
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("KITBOX_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KITBOX_CSRF_KEY")

	t.Setenv("KITBOX_CSRF_KEY", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KITBOX_CREDENTIAL_SECRET")

	t.Setenv("KITBOX_CREDENTIAL_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad url":      {"KITBOX_API_URL", "not a url"},
		"bad csrf key": {"KITBOX_CSRF_KEY", "abc"},
		"bad env":      {"KITBOX_ENV", "staging"},
		"bad timeout":  {"KITBOX_API_TIMEOUT", "soon"},
		"bad limit":    {"KITBOX_RATE_LIMIT", "many"},
		"zero limit":   {"KITBOX_RATE_LIMIT", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
