package highlevel

import (
	"context"
	"net/http"
	"path"
)

// ListOptions tunes collection requests. Zero values fall back to the
// operation's defaults.
type ListOptions struct {
	Limit int
	Query string
	// Params are added after the operation's own parameters and may override
	// them.
	Params map[string]any
}

func (o *ListOptions) limit(def int) int {
	if o == nil || o.Limit <= 0 {
		return def
	}
	return o.Limit
}

func (o *ListOptions) apply(params map[string]any) map[string]any {
	if o == nil {
		return params
	}
	if o.Query != "" {
		params["query"] = o.Query
	}
	for k, v := range o.Params {
		params[k] = v
	}
	return params
}

// FetchRaw issues a NODE GET against obj's endpoint and returns the raw
// Response.
func FetchRaw[T Object](ctx context.Context, obj T) (*Response, error) {
	endpoint, err := obj.Endpoint()
	if err != nil {
		return nil, err
	}
	collection, node := path.Split(endpoint)
	return NewRequest[T](obj.apiClient(), obj.Credentials(), http.MethodGet, node, collection, APITypeNode, nil).
		executeRaw(ctx)
}

// fetch re-reads obj from its endpoint and returns a fresh object of the same
// kind.
func fetch[T Object](ctx context.Context, obj T, kind Kind[T]) (T, error) {
	endpoint, err := obj.Endpoint()
	if err != nil {
		var zero T
		return zero, err
	}
	collection, node := path.Split(endpoint)
	return nodeRequest(obj, http.MethodGet, node, collection, kind).executeObject(ctx)
}

func nodeRequest[T Object](owner Object, method, node, endpoint string, kind Kind[T]) *Request[T] {
	client := owner.apiClient()
	return NewRequest[T](client, owner.Credentials(), method, node, endpoint, APITypeNode, NewObjectParser(client, kind))
}

func edgeRequest[T Object](owner Object, endpoint string, kind Kind[T]) *Request[T] {
	client := owner.apiClient()
	return NewRequest[T](client, owner.Credentials(), http.MethodGet, "", endpoint, APITypeEdge, NewObjectParser(client, kind))
}

func rawRequest(owner Object, method, node, endpoint string) *Request[Object] {
	return NewRequest[Object](owner.apiClient(), owner.Credentials(), method, node, endpoint, APITypeNode, nil)
}

func requireID(resource, id string) error {
	if id == "" {
		return &ConfigurationError{Resource: resource, Reason: "must have an id to get endpoint"}
	}
	return nil
}
