package http

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildURL appends path to the base URL's own path and sets the query. A
// trailing slash on path is preserved.
func BuildURL(baseURL, path string, queryParams url.Values) (string, error) {
	// Parse the base URL
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("error parsing base URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	// Append the path
	parsedURL.Path = strings.TrimSuffix(parsedURL.Path, "/") + "/" + strings.TrimPrefix(path, "/")

	if len(queryParams) > 0 {
		parsedURL.RawQuery = queryParams.Encode()
	}

	// Return the full URL as a string
	return parsedURL.String(), nil
}
