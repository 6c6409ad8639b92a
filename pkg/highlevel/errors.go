package highlevel

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// Static errors that can be wrapped with context.
var (
	ErrMissingToken    = errors.New("access token is required")
	ErrNoMoreItems     = errors.New("no more items")
	ErrRequestExecuted = errors.New("request has already been executed")
)

// AuthenticationError is returned when a call is attempted without an access
// token.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "authentication error: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error {
	return ErrMissingToken
}

// ConfigurationError reports a missing identifier or an operation that the
// resource type does not support.
type ConfigurationError struct {
	Resource string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Resource == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: %s %s", e.Resource, e.Reason)
}

// APIRequestError is the error form of a response with status >= 400.
type APIRequestError struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Call       Call
}

func (e *APIRequestError) Error() string {
	return fmt.Sprintf("call to HighLevel API was unsuccessful: %s %s returned %d: %s",
		e.Call.Method, e.Call.Path, e.StatusCode, truncate(string(e.Body), 512))
}

// ParseError reports a body that is not valid JSON or lacks the expected
// envelope key.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("parse error: key %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of an *APIRequestError in err's chain, or
// zero.
func StatusCode(err error) int {
	var apiErr *APIRequestError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
