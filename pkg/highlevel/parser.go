package highlevel

import (
	"encoding/json"
	"fmt"
)

// Parser turns response bodies into bound resources.
type Parser[T Object] interface {
	// ParseSingle extracts the object nested under the singular envelope key.
	ParseSingle(body []byte, creds Credentials) (T, error)
	// ParseMultiple extracts the objects nested under the plural envelope key,
	// in source order. A missing or empty key yields an empty slice.
	ParseMultiple(body []byte, creds Credentials) ([]T, error)
}

// ObjectParser is the envelope-aware Parser for one resource Kind.
type ObjectParser[T Object] struct {
	client *Client
	kind   Kind[T]
}

// NewObjectParser returns a parser that binds every object it produces to
// client.
func NewObjectParser[T Object](client *Client, kind Kind[T]) *ObjectParser[T] {
	return &ObjectParser[T]{client: client, kind: kind}
}

// ParseSingle builds one object from the singular envelope key of body.
func (p *ObjectParser[T]) ParseSingle(body []byte, creds Credentials) (T, error) {
	var zero T

	envelope, err := decodeEnvelope(body)
	if err != nil {
		return zero, err
	}

	raw, ok := envelope[p.kind.Singular]
	if !ok || isNull(raw) {
		return zero, &ParseError{
			Key: p.kind.Singular,
			Err: fmt.Errorf("%s envelope key is missing", p.kind.Name),
		}
	}

	return p.build(raw, creds)
}

// ParseMultiple builds the objects under the plural envelope key of body, in
// order. A missing or null key yields an empty slice.
func (p *ObjectParser[T]) ParseMultiple(body []byte, creds Credentials) ([]T, error) {
	envelope, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	raw, ok := envelope[p.kind.Plural]
	if !ok || isNull(raw) {
		return []T{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ParseError{Key: p.kind.Plural, Err: fmt.Errorf("expected an array: %w", err)}
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		obj, err := p.build(item, creds)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, obj)
	}
	return out, nil
}

func (p *ObjectParser[T]) build(raw json.RawMessage, creds Credentials) (T, error) {
	obj := p.kind.New()
	if err := decodeObject(raw, obj); err != nil {
		var zero T
		return zero, &ParseError{Key: p.kind.Singular, Err: err}
	}
	obj.bind(p.client, creds)
	return obj, nil
}

func decodeEnvelope(body []byte) (map[string]json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to parse response body: %w", err)}
	}
	if envelope == nil {
		return nil, &ParseError{Err: fmt.Errorf("response body is not a JSON object")}
	}
	return envelope, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
