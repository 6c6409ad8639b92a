package highlevel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Object is a resource bound to the client and credentials that produced it.
type Object interface {
	Exporter
	// Endpoint returns the resource path computed from its id.
	Endpoint() (string, error)
	Credentials() Credentials

	bind(client *Client, creds Credentials)
	apiClient() *Client
	setExtra(extra map[string]any)
}

// resource carries the binding shared by every resource type. Fields the API
// returns that a type does not declare are kept in Extra.
type resource struct {
	client *Client
	creds  Credentials

	Extra map[string]any `json:"-"`
}

func (r *resource) bind(client *Client, creds Credentials) {
	r.client = client
	r.creds = creds
}

func (r *resource) apiClient() *Client {
	return r.client
}

func (r *resource) setExtra(extra map[string]any) {
	r.Extra = extra
}

// Credentials returns the credentials the resource was bound with.
func (r *resource) Credentials() Credentials {
	return r.creds
}

// Kind describes how a resource type is named in response envelopes and how
// to allocate it.
type Kind[T Object] struct {
	Name     string
	Singular string
	Plural   string
	New      func() T
}

var fieldIndexCache sync.Map // reflect.Type -> map[string][]int

// decodeObject fills obj from a JSON object field by field. Keys obj does not
// declare, and declared keys whose value has an unexpected type, are kept in
// its Extra bag.
func decodeObject(raw json.RawMessage, obj Object) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("expected a JSON object")
	}

	target := reflect.ValueOf(obj)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("cannot decode into %T", obj)
	}
	target = target.Elem()
	index := fieldIndex(target.Type())

	var extra map[string]any
	for key, value := range fields {
		if path, ok := index[key]; ok {
			field := target.FieldByIndex(path)
			decoded := reflect.New(field.Type())
			if err := json.Unmarshal(value, decoded.Interface()); err == nil {
				field.Set(decoded.Elem())
				continue
			}
		}

		var v any
		dec := json.NewDecoder(bytes.NewReader(value))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[key] = v
	}
	obj.setExtra(extra)
	return nil
}

// exportObject returns the declared non-empty fields of obj merged with extra.
// When the declared fields cannot be encoded only extra is returned and the
// failure is logged.
func exportObject(obj Object, extra map[string]any) map[string]any {
	out := make(map[string]any)

	if err := encodeFields(obj, &out); err != nil {
		objectLogger(obj).Warn("Failed to export object fields",
			zap.String("type", fmt.Sprintf("%T", obj)),
			zap.Error(err))
		out = make(map[string]any)
	}

	for key, value := range extra {
		if _, declared := out[key]; !declared {
			out[key] = copyValue(value)
		}
	}
	return out
}

func encodeFields(obj Object, out *map[string]any) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(out)
}

func objectLogger(obj Object) *zap.Logger {
	if client := obj.apiClient(); client != nil && client.logger != nil {
		return client.logger
	}
	return zap.L()
}

func fieldIndex(t reflect.Type) map[string][]int {
	if cached, ok := fieldIndexCache.Load(t); ok {
		return cached.(map[string][]int)
	}

	fields := make(map[string][]int)
	collectFields(t, nil, fields)
	fieldIndexCache.Store(t, fields)
	return fields
}

func collectFields(t reflect.Type, parent []int, fields map[string][]int) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		path := append(append([]int(nil), parent...), i)
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			collectFields(f.Type, path, fields)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = path
	}
}
