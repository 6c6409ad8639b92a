package highlevel

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/natserract/highlevel/pkg/config"
	httpclient "github.com/natserract/highlevel/pkg/http"
	"go.uber.org/zap"
)

const redacted = "Bearer [REDACTED]"

// Client issues authenticated calls against the HighLevel REST API. One call
// is exactly one round trip: no retries, no caching.
type Client struct {
	config     config.Config
	httpClient *httpclient.Client
	logger     *zap.Logger
}

// NewClient creates a new client with default production logger
func NewClient(cfg config.Config) *Client {
	logger, _ := zap.NewProduction()
	return NewClientWithLogger(cfg, logger)
}

// NewClientWithLogger creates a new client with a custom logger
func NewClientWithLogger(cfg config.Config, logger *zap.Logger) *Client {
	return &Client{
		config:     cfg,
		httpClient: httpclient.NewClientWithLogger(logger),
		logger:     logger,
	}
}

// NewClientWithHTTPClient creates a client on top of an existing net/http
// client.
func NewClientWithHTTPClient(cfg config.Config, hc *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config:     cfg,
		httpClient: httpclient.NewClientWithHTTPClient(hc, logger),
		logger:     logger,
	}
}

// Config returns the client's configuration.
func (c *Client) Config() config.Config {
	return c.config
}

// Headers builds the request headers for creds.
func (c *Client) Headers(creds Credentials) (map[string]string, error) {
	if !creds.HasToken() {
		return nil, &AuthenticationError{Reason: "an access token is required to call the API"}
	}
	return map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Version":       c.config.APIVersion,
		"Authorization": "Bearer " + creds.AccessToken,
	}, nil
}

// Call performs one request. GET and DELETE parameters go in the query
// string, every other method sends them as a JSON body. The Response is
// returned for every status code; checking it is the caller's job.
func (c *Client) Call(ctx context.Context, method, path string, creds Credentials, params map[string]any) (*Response, error) {
	method = strings.ToUpper(method)

	headers, err := c.Headers(creds)
	if err != nil {
		return nil, err
	}

	call := Call{
		ID:      uuid.NewString(),
		Method:  method,
		Path:    path,
		Params:  copyParams(params),
		Headers: redactHeaders(headers),
	}

	endpoint, err := httpclient.BuildURL(c.config.APIBaseURL, path, nil)
	if err != nil {
		c.logger.Error("Failed to build URL", zap.Error(err), zap.String("path", path))
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	opts := httpclient.RequestOptions{
		Method:  method,
		URL:     endpoint,
		Headers: headers,
		Context: ctx,
		Timeout: c.config.Timeout,
	}
	if method == http.MethodGet || method == http.MethodDelete {
		query, err := encodeQuery(call.Params)
		if err != nil {
			return nil, err
		}
		opts.Query = query
	} else if len(call.Params) > 0 {
		opts.Body = call.Params
	}

	c.logger.Debug("Calling HighLevel API",
		zap.String("request_id", call.ID),
		zap.String("method", method),
		zap.String("path", path))

	resp, err := c.httpClient.Do(opts)
	if err != nil {
		c.logger.Error("HighLevel API request failed",
			zap.String("request_id", call.ID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s request failed: %w", method, path, err)
	}

	response := NewResponse(resp.StatusCode, resp.Headers, resp.Body, call)
	if response.IsError() {
		c.logger.Error("HighLevel API returned an error status",
			zap.String("request_id", call.ID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode))
	} else {
		c.logger.Info("HighLevel API call completed",
			zap.String("request_id", call.ID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode))
	}

	return response, nil
}

func redactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if k == "Authorization" {
			v = redacted
		}
		out[k] = v
	}
	return out
}
