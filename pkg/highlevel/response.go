package highlevel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Call describes the request that produced a Response. The Authorization
// header value is redacted.
type Call struct {
	ID      string
	Method  string
	Path    string
	Params  map[string]any
	Headers map[string]string
}

// Response wraps one HTTP round trip. It is immutable after construction.
type Response struct {
	body       []byte
	headers    http.Header
	statusCode int
	call       Call
}

// NewResponse builds a Response. Exposed for tests and custom transports.
func NewResponse(statusCode int, headers http.Header, body []byte, call Call) *Response {
	return &Response{
		body:       body,
		headers:    headers.Clone(),
		statusCode: statusCode,
		call:       call,
	}
}

// StatusCode returns the HTTP status of the response.
func (r *Response) StatusCode() int {
	return r.statusCode
}

// Headers returns the response headers.
func (r *Response) Headers() http.Header {
	return r.headers.Clone()
}

// Call returns the descriptor of the request that produced the response.
func (r *Response) Call() Call {
	return r.call
}

// IsError reports whether the status code is 400 or above.
func (r *Response) IsError() bool {
	return r.statusCode >= http.StatusBadRequest
}

// Err returns an *APIRequestError when IsError is true, else nil.
func (r *Response) Err() error {
	if !r.IsError() {
		return nil
	}
	return &APIRequestError{
		StatusCode: r.statusCode,
		Headers:    r.headers.Clone(),
		Body:       append([]byte(nil), r.body...),
		Call:       r.call,
	}
}

// Text returns the raw body unchanged.
func (r *Response) Text() string {
	return string(r.body)
}

// Bytes returns a copy of the raw body.
func (r *Response) Bytes() []byte {
	return append([]byte(nil), r.body...)
}

// JSON decodes the body into v. Numbers decode as json.Number when v is an
// interface or map so that pagination tokens keep their exact form.
func (r *Response) JSON(v any) error {
	dec := json.NewDecoder(bytes.NewReader(r.body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return &ParseError{Err: fmt.Errorf("failed to parse response body: %w", err)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &ParseError{Err: fmt.Errorf("unexpected data after JSON value")}
	}
	return nil
}

// Map decodes the body as a JSON object.
func (r *Response) Map() (map[string]any, error) {
	var m map[string]any
	if err := r.JSON(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &ParseError{Err: fmt.Errorf("response body is not a JSON object")}
	}
	return m, nil
}

// String summarizes the status and a truncated body.
func (r *Response) String() string {
	return fmt.Sprintf("<Response %d %s>", r.statusCode, truncate(string(r.body), 256))
}
