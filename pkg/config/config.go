package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL  = "https://services.leadconnectorhq.com"
	DefaultAuthBaseURL = "https://marketplace.gohighlevel.com"
	DefaultAPIVersion  = "2021-07-28"
	DefaultTimeout     = 30 * time.Second
	DefaultOAuthRetry  = 3
)

// Config is the immutable client configuration. It is passed by value into
// highlevel.NewClient.
type Config struct {
	APIBaseURL  string
	AuthBaseURL string
	APIVersion  string

	ClientID     string
	ClientSecret string

	AccessToken  string
	RefreshToken string
	CompanyID    string
	LocationID   string

	Timeout         time.Duration
	OAuthMaxRetries int
}

// Load reads the configuration from the environment, loading a .env file
// first when one exists.
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	timeout, err := durationEnv("HTTP_TIMEOUT", DefaultTimeout)
	if err != nil {
		return nil, err
	}
	retries, err := intEnv("OAUTH_MAX_RETRIES", DefaultOAuthRetry)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:      getEnv("API_BASE_URL", DefaultAPIBaseURL),
		AuthBaseURL:     getEnv("AUTH_BASE_URL", DefaultAuthBaseURL),
		APIVersion:      getEnv("API_VERSION", DefaultAPIVersion),
		ClientID:        os.Getenv("CLIENT_ID"),
		ClientSecret:    os.Getenv("CLIENT_SECRET"),
		AccessToken:     os.Getenv("ACCESS_TOKEN"),
		RefreshToken:    os.Getenv("REFRESH_TOKEN"),
		CompanyID:       os.Getenv("COMPANY_ID"),
		LocationID:      os.Getenv("LOCATION_ID"),
		Timeout:         timeout,
		OAuthMaxRetries: retries,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a configuration populated with the public API defaults and
// no credentials.
func Default() Config {
	return Config{
		APIBaseURL:      DefaultAPIBaseURL,
		AuthBaseURL:     DefaultAuthBaseURL,
		APIVersion:      DefaultAPIVersion,
		Timeout:         DefaultTimeout,
		OAuthMaxRetries: DefaultOAuthRetry,
	}
}

// Validate checks that the base URLs are set and well formed.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("API_BASE_URL is invalid: %w", err)
	}
	if c.AuthBaseURL != "" {
		if _, err := url.ParseRequestURI(c.AuthBaseURL); err != nil {
			return fmt.Errorf("AUTH_BASE_URL is invalid: %w", err)
		}
	}
	if c.APIVersion == "" {
		return fmt.Errorf("API_VERSION is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative")
	}
	if c.OAuthMaxRetries < 0 {
		return fmt.Errorf("OAUTH_MAX_RETRIES must not be negative")
	}
	// Credentials are optional here; the client reports a missing token per call
	return nil
}

// HasClientCredentials reports whether the OAuth app credentials are set.
func (c *Config) HasClientCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is invalid: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s is invalid: %w", key, err)
	}
	return n, nil
}
