package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"API_BASE_URL", "AUTH_BASE_URL", "API_VERSION", "CLIENT_ID", "CLIENT_SECRET",
		"ACCESS_TOKEN", "REFRESH_TOKEN", "COMPANY_ID", "LOCATION_ID",
		"HTTP_TIMEOUT", "OAUTH_MAX_RETRIES",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultAuthBaseURL, cfg.AuthBaseURL)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultOAuthRetry, cfg.OAuthMaxRetries)
	assert.Empty(t, cfg.AccessToken)
	assert.False(t, cfg.HasClientCredentials())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:9999")
	t.Setenv("API_VERSION", "2099-01-01")
	t.Setenv("ACCESS_TOKEN", "tok")
	t.Setenv("LOCATION_ID", "loc-1")
	t.Setenv("CLIENT_ID", "cid")
	t.Setenv("CLIENT_SECRET", "secret")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("OAUTH_MAX_RETRIES", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", cfg.APIBaseURL)
	assert.Equal(t, "2099-01-01", cfg.APIVersion)
	assert.Equal(t, "tok", cfg.AccessToken)
	assert.Equal(t, "loc-1", cfg.LocationID)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.OAuthMaxRetries)
	assert.True(t, cfg.HasClientCredentials())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "soon")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP_TIMEOUT is invalid")
	})

	t.Run("retries", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "")
		t.Setenv("OAUTH_MAX_RETRIES", "many")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OAUTH_MAX_RETRIES is invalid")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.APIBaseURL = "" }, wantErr: "API_BASE_URL is required"},
		{name: "relative base url", mutate: func(c *Config) { c.APIBaseURL = "services" }, wantErr: "API_BASE_URL is invalid"},
		{name: "missing version", mutate: func(c *Config) { c.APIVersion = "" }, wantErr: "API_VERSION is required"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "HTTP_TIMEOUT"},
		{name: "negative retries", mutate: func(c *Config) { c.OAuthMaxRetries = -1 }, wantErr: "OAUTH_MAX_RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
