package highlevel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/natserract/highlevel/pkg/config"
	httpclient "github.com/natserract/highlevel/pkg/http"
	"go.uber.org/zap"
)

// User types accepted by the token endpoint.
const (
	UserTypeLocation = "Location"
	UserTypeCompany  = "Company"
)

// refreshMargin is how long before expiry a cached token is renewed.
const refreshMargin = 30 * time.Second

// OAuth performs the authorization code and refresh token exchanges of a
// marketplace app.
type OAuth struct {
	config     config.Config
	httpClient *httpclient.Client
	logger     *zap.Logger

	// UserType is sent as user_type on every exchange.
	UserType string
}

// NewOAuth creates a new OAuth client with default production logger
func NewOAuth(cfg config.Config) *OAuth {
	logger, _ := zap.NewProduction()
	return NewOAuthWithLogger(cfg, logger)
}

// NewOAuthWithLogger creates a new OAuth client with a custom logger
func NewOAuthWithLogger(cfg config.Config, logger *zap.Logger) *OAuth {
	return &OAuth{
		config:     cfg,
		httpClient: httpclient.NewClientWithLogger(logger),
		logger:     logger,
		UserType:   UserTypeLocation,
	}
}

// NewOAuthWithHTTPClient creates an OAuth client on top of an existing
// net/http client.
func NewOAuthWithHTTPClient(cfg config.Config, hc *http.Client, logger *zap.Logger) *OAuth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuth{
		config:     cfg,
		httpClient: httpclient.NewClientWithHTTPClient(hc, logger),
		logger:     logger,
		UserType:   UserTypeLocation,
	}
}

// AuthorizationURL returns the consent page a user must visit to install the
// app.
func (o *OAuth) AuthorizationURL(redirectURI string, scopes []string) (string, error) {
	if o.config.ClientID == "" {
		return "", fmt.Errorf("CLIENT_ID is required")
	}
	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", o.config.ClientID)
	query.Set("redirect_uri", redirectURI)
	if len(scopes) > 0 {
		query.Set("scope", strings.Join(scopes, " "))
	}
	return httpclient.BuildURL(o.config.AuthBaseURL, "/oauth/chooselocation", query)
}

// ExchangeCode trades an authorization code for credentials.
func (o *OAuth) ExchangeCode(ctx context.Context, code, redirectURI string) (Credentials, error) {
	if code == "" {
		return Credentials{}, fmt.Errorf("authorization code is required")
	}
	form := map[string]string{
		"grant_type": "authorization_code",
		"code":       code,
	}
	if redirectURI != "" {
		form["redirect_uri"] = redirectURI
	}
	return o.token(ctx, form)
}

// Refresh trades a refresh token for new credentials.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (Credentials, error) {
	if refreshToken == "" {
		return Credentials{}, &AuthenticationError{Reason: "a refresh token is required"}
	}
	return o.token(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
}

func (o *OAuth) token(ctx context.Context, form map[string]string) (Credentials, error) {
	if !o.config.HasClientCredentials() {
		return Credentials{}, fmt.Errorf("CLIENT_ID and CLIENT_SECRET are required")
	}

	endpoint, err := httpclient.BuildURL(o.config.APIBaseURL, "/oauth/token", nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to build URL: %w", err)
	}

	form["client_id"] = o.config.ClientID
	form["client_secret"] = o.config.ClientSecret
	if o.UserType != "" {
		form["user_type"] = o.UserType
	}

	o.logger.Info("Requesting HighLevel access token",
		zap.String("url", endpoint),
		zap.String("grant_type", form["grant_type"]))

	resp, err := o.httpClient.Do(httpclient.RequestOptions{
		Method:     http.MethodPost,
		URL:        endpoint,
		Headers:    map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		Body:       form,
		Context:    ctx,
		Timeout:    o.config.Timeout,
		MaxRetries: o.config.OAuthMaxRetries,
	})
	if err != nil {
		o.logger.Error("Token request failed", zap.Error(err), zap.String("url", endpoint))
		return Credentials{}, fmt.Errorf("token request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		o.logger.Error("Token exchange failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", truncate(string(resp.Body), 512)))
		return Credentials{}, &APIRequestError{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
			Call: Call{
				Method:  http.MethodPost,
				Path:    "/oauth/token",
				Params:  map[string]any{"grant_type": form["grant_type"]},
				Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
			},
		}
	}

	var creds Credentials
	if err := json.Unmarshal(resp.Body, &creds); err != nil {
		o.logger.Error("Failed to parse token response", zap.Error(err))
		return Credentials{}, &ParseError{Err: fmt.Errorf("failed to parse token response: %w", err)}
	}
	if !creds.HasToken() {
		return Credentials{}, &ParseError{Key: "access_token", Err: fmt.Errorf("token response has no access token")}
	}
	creds.IssuedAt = time.Now()

	o.logger.Info("Successfully obtained access token",
		zap.String("user_type", creds.UserType),
		zap.Int("expires_in", creds.ExpiresIn))

	return creds, nil
}

// TokenSource caches credentials and refreshes them shortly before they
// expire. It is safe for concurrent use.
type TokenSource struct {
	oauth *OAuth

	mu    sync.RWMutex
	creds Credentials
	now   func() time.Time
}

// NewTokenSource starts from creds, which may be empty when only a refresh
// token is known.
func NewTokenSource(oauth *OAuth, creds Credentials) *TokenSource {
	return &TokenSource{oauth: oauth, creds: creds, now: time.Now}
}

// Token returns valid credentials, refreshing them when needed.
func (s *TokenSource) Token(ctx context.Context) (Credentials, error) {
	s.mu.RLock()
	creds := s.creds
	s.mu.RUnlock()

	if s.valid(creds) {
		return creds, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock
	if s.valid(s.creds) {
		return s.creds, nil
	}
	if s.creds.RefreshToken == "" {
		return Credentials{}, &AuthenticationError{Reason: "access token expired and no refresh token is available"}
	}

	s.oauth.logger.Info("Access token expired or not available, refreshing")
	fresh, err := s.oauth.Refresh(ctx, s.creds.RefreshToken)
	if err != nil {
		s.oauth.logger.Error("Failed to refresh access token", zap.Error(err))
		return Credentials{}, fmt.Errorf("failed to refresh access token: %w", err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = s.creds.RefreshToken
	}
	s.creds = fresh
	return fresh, nil
}

func (s *TokenSource) valid(creds Credentials) bool {
	if !creds.HasToken() {
		return false
	}
	expiresAt := creds.ExpiresAt()
	if expiresAt.IsZero() {
		return true
	}
	return s.now().Before(expiresAt.Add(-refreshMargin))
}
