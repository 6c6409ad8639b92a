package highlevel

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// APIType tells whether a request targets one resource or a collection.
type APIType string

const (
	APITypeNode APIType = "NODE"
	APITypeEdge APIType = "EDGE"
)

// Request accumulates the parameters of one logical operation. It is single
// use: the second Execute returns ErrRequestExecuted.
type Request[T Object] struct {
	client   *Client
	creds    Credentials
	method   string
	node     string
	endpoint string
	path     string
	apiType  APIType
	params   map[string]any
	parser   Parser[T]
	executed bool
}

// Result holds what Execute produced: a Cursor for EDGE GET requests, the
// parsed Object when a parser was supplied, otherwise the raw Response.
type Result[T Object] struct {
	Cursor   *Cursor[T]
	Object   T
	Response *Response
}

// NewRequest builds a request for endpoint. A non-empty node is appended as
// the final path segment; an empty node leaves a trailing slash denoting the
// collection. parser may be nil to receive the raw Response.
func NewRequest[T Object](client *Client, creds Credentials, method, node, endpoint string, apiType APIType, parser Parser[T]) *Request[T] {
	return &Request[T]{
		client:   client,
		creds:    creds,
		method:   strings.ToUpper(method),
		node:     node,
		endpoint: endpoint,
		path:     joinPath(endpoint, node),
		apiType:  apiType,
		params:   make(map[string]any),
		parser:   parser,
	}
}

func joinPath(endpoint, node string) string {
	return strings.TrimSuffix(endpoint, "/") + "/" + node
}

// Path returns the request path.
func (r *Request[T]) Path() string {
	return r.path
}

// Params returns a copy of the accumulated parameters.
func (r *Request[T]) Params() map[string]any {
	return copyParams(r.params)
}

// AddParam stores value under key. Resources are stored as their exported
// field mapping, recursively through slices and maps.
func (r *Request[T]) AddParam(key string, value any) *Request[T] {
	r.params[key] = extractValue(value)
	return r
}

// AddParams adds every entry of params. A nil map is a no-op.
func (r *Request[T]) AddParams(params map[string]any) *Request[T] {
	for key, value := range params {
		r.AddParam(key, value)
	}
	return r
}

// Execute runs the request. EDGE GET requests return a Cursor whose first page
// is already loaded. Any other request makes one call; an error status is
// returned as *APIRequestError.
func (r *Request[T]) Execute(ctx context.Context) (*Result[T], error) {
	if r.executed {
		return nil, ErrRequestExecuted
	}
	r.executed = true

	if r.client == nil {
		return nil, &ConfigurationError{Reason: "request has no client"}
	}

	params := copyParams(r.params)

	if r.apiType == APITypeEdge && r.method == http.MethodGet {
		if r.parser == nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("EDGE request to %s requires a parser", r.path)}
		}
		cursor, err := NewCursor(ctx, r.client, r.creds, r.path, params, r.parser)
		if err != nil {
			return nil, err
		}
		return &Result[T]{Cursor: cursor}, nil
	}

	resp, err := r.client.Call(ctx, r.method, r.path, r.creds, params)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	if r.parser == nil {
		return &Result[T]{Response: resp}, nil
	}

	obj, err := r.parser.ParseSingle(resp.Bytes(), r.creds)
	if err != nil {
		r.client.logger.Error("Failed to parse response",
			zap.String("request_id", resp.Call().ID),
			zap.String("path", r.path),
			zap.Error(err))
		return nil, err
	}
	return &Result[T]{Object: obj, Response: resp}, nil
}

func (r *Request[T]) executeCursor(ctx context.Context) (*Cursor[T], error) {
	res, err := r.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if res.Cursor == nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("%s %s does not return a cursor", r.method, r.path)}
	}
	return res.Cursor, nil
}

func (r *Request[T]) executeObject(ctx context.Context) (T, error) {
	res, err := r.Execute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Object, nil
}

func (r *Request[T]) executeRaw(ctx context.Context) (*Response, error) {
	res, err := r.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return res.Response, nil
}
